// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package identity

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socialfeed/api/internal/types"
)

// JWTVerifier validates ES256 tokens against a fixed public key.
type JWTVerifier struct {
	publicKey *ecdsa.PublicKey
	claimKey  string
}

// NewJWTVerifier parses the PEM public key once. With an empty claimKey the user
// fields are read from the top-level claims, with "sub" as the user id.
func NewJWTVerifier(publicKeyPEM, claimKey string) (*JWTVerifier, error) {
	key, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC public key: %w", err)
	}
	return &JWTVerifier{publicKey: key, claimKey: claimKey}, nil
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (types.UserContext, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return types.UserContext{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	data := map[string]interface{}(claims)
	if v.claimKey != "" {
		nested, ok := claims[v.claimKey].(map[string]interface{})
		if !ok {
			return types.UserContext{}, fmt.Errorf("%w: invalid token claim format", ErrInvalidToken)
		}
		data = nested
	}

	user, err := mapToUserContext(data)
	if err != nil {
		return types.UserContext{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return user, nil
}

// mapToUserContext converts claim data to UserContext
func mapToUserContext(claimData map[string]interface{}) (types.UserContext, error) {
	var user types.UserContext

	uid, _ := claimData["uid"].(string)
	if uid == "" {
		uid, _ = claimData["sub"].(string)
	}
	if uid == "" {
		return user, errors.New("missing uid in claim")
	}
	user.UserID = uid

	if displayName, ok := claimData["displayName"].(string); ok {
		user.DisplayName = displayName
	} else if name, ok := claimData["name"].(string); ok {
		user.DisplayName = name
	}
	if email, ok := claimData["email"].(string); ok {
		user.Email = email
	}
	if avatar, ok := claimData["avatar"].(string); ok {
		user.PhotoURL = avatar
	} else if picture, ok := claimData["picture"].(string); ok {
		user.PhotoURL = picture
	}

	return user, nil
}
