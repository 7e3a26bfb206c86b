// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"fmt"
	"path"
	"strings"

	"github.com/gofrs/uuid"
)

// Object key prefixes
const (
	PrefixPosts    = "posts"
	PrefixComments = "comments"
	PrefixProfiles = "profiles"
)

// ObjectKey builds "<prefix>/<userID>/<random id><ext>". The extension of the
// uploaded file name is kept so browsers can infer the type.
func ObjectKey(prefix, userID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.Must(uuid.NewV4()).String(), ext)
}

// joinURL appends key to a public base URL.
func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
