// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package users

import (
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/storage/provider"
	"github.com/socialfeed/api/users/handlers"
	"github.com/socialfeed/api/users/repository"
	"github.com/socialfeed/api/users/services"
)

// NewUserService wires the profile service over a document store.
func NewUserService(store dbi.DocumentStore, blobs provider.BlobProvider) services.UserService {
	return services.NewUserService(repository.NewUserRepository(store), blobs)
}

func NewHandlers(svc services.UserService) *UsersHandlers {
	return &UsersHandlers{UserHandler: handlers.NewUserHandler(svc)}
}
