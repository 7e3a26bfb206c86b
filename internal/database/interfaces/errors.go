// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import "errors"

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned by Create when the id is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrIndexUnavailable is returned when a query needs an index the store lacks.
	ErrIndexUnavailable = errors.New("query index unavailable")
	// ErrUnavailable wraps transport or backend failures of the remote store.
	ErrUnavailable = errors.New("document store unavailable")
	// ErrInvalidField is returned for non-numeric increments and malformed field names.
	ErrInvalidField = errors.New("invalid field")
)
