// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// MockDocumentStore is a mock implementation of DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

var _ dbi.DocumentStore = (*MockDocumentStore)(nil)

func (m *MockDocumentStore) Create(ctx context.Context, collection, id string, doc dbi.Document) error {
	args := m.Called(ctx, collection, id, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) (dbi.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dbi.Document), args.Error(1)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockDocumentStore) Query(ctx context.Context, collection string, q dbi.Query) ([]dbi.Document, error) {
	args := m.Called(ctx, collection, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbi.Document), args.Error(1)
}

func (m *MockDocumentStore) Scan(ctx context.Context, collection string) ([]dbi.Document, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbi.Document), args.Error(1)
}

func (m *MockDocumentStore) Increment(ctx context.Context, collection, id, field string, delta int64) (int64, error) {
	args := m.Called(ctx, collection, id, field, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
