// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilderDoesNotAlias(t *testing.T) {
	base := Query{}.Where("postId", "p1")
	a := base.Where("userId", "u1")
	b := base.Where("userId", "u2")

	assert.Len(t, base.Conditions, 1)
	assert.Equal(t, "u1", a.Conditions[1].Value)
	assert.Equal(t, "u2", b.Conditions[1].Value)
}

func TestNeedsCompositeIndex(t *testing.T) {
	assert.False(t, Query{}.NeedsCompositeIndex())
	assert.False(t, Query{}.Order("createdAt", Descending).NeedsCompositeIndex())
	assert.False(t, Query{}.Where("postId", "p1").NeedsCompositeIndex())
	assert.True(t, Query{}.Where("postId", "p1").Order("createdAt", Ascending).NeedsCompositeIndex())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "ASC", Ascending.String())
	assert.Equal(t, "DESC", Descending.String())
}
