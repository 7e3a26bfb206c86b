// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package identity

import (
	"context"
	"errors"

	"github.com/socialfeed/api/internal/types"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid identity token")

// Verifier resolves a bearer token issued by the identity provider into the viewer.
type Verifier interface {
	Verify(ctx context.Context, token string) (types.UserContext, error)
}
