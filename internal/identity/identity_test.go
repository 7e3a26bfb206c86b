// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyPair(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, key *ecdsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestJWTVerifier(t *testing.T) {
	key, pub := newKeyPair(t)
	v, err := NewJWTVerifier(pub, "claim")
	require.NoError(t, err)
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid token", func(t *testing.T) {
		token := sign(t, key, jwt.MapClaims{
			"exp":   exp,
			"claim": map[string]interface{}{"uid": "u1", "displayName": "Ada", "email": "ada@example.com", "avatar": "https://x/a.png"},
		})
		user, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
		assert.Equal(t, "Ada", user.DisplayName)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "https://x/a.png", user.PhotoURL)
	})

	t.Run("expired token", func(t *testing.T) {
		token := sign(t, key, jwt.MapClaims{
			"exp":   time.Now().Add(-time.Minute).Unix(),
			"claim": map[string]interface{}{"uid": "u1"},
		})
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing exp", func(t *testing.T) {
		token := sign(t, key, jwt.MapClaims{"claim": map[string]interface{}{"uid": "u1"}})
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, _ := newKeyPair(t)
		token := sign(t, other, jwt.MapClaims{"exp": exp, "claim": map[string]interface{}{"uid": "u1"}})
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("hmac token rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing claim map", func(t *testing.T) {
		token := sign(t, key, jwt.MapClaims{"exp": exp, "sub": "u1"})
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTVerifierTopLevelClaims(t *testing.T) {
	key, pub := newKeyPair(t)
	v, err := NewJWTVerifier(pub, "")
	require.NoError(t, err)

	token := sign(t, key, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix(), "sub": "u9", "name": "Grace"})
	user, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u9", user.UserID)
	assert.Equal(t, "Grace", user.DisplayName)
}

func TestNewJWTVerifierBadKey(t *testing.T) {
	_, err := NewJWTVerifier("not a key", "claim")
	assert.Error(t, err)
}

type stubIDTokens struct {
	token *auth.Token
	err   error
}

func (s stubIDTokens) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := &FirebaseVerifier{client: stubIDTokens{token: &auth.Token{
		UID:    "fb-1",
		Claims: map[string]interface{}{"name": "Lin", "email": "lin@example.com", "picture": "https://x/p.png"},
	}}}

	user, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", user.UserID)
	assert.Equal(t, "Lin", user.DisplayName)
	assert.Equal(t, "https://x/p.png", user.PhotoURL)

	failing := &FirebaseVerifier{client: stubIDTokens{err: errors.New("expired")}}
	_, err = failing.Verify(context.Background(), "token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
