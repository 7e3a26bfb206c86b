// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// User is a member profile. Its id is the identity provider's uid.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// UpdateProfileRequest is the body of a profile edit. The photo travels as a
// multipart file next to these fields.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" form:"displayName"`
	Bio         string `json:"bio" form:"bio"`
}
