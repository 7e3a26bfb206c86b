// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

// Store is a DocumentStore backed by Cloud Firestore. Collections map one to one
// onto Firestore collections and document ids onto document names.
type Store struct {
	client *firestore.Client
}

var _ dbi.DocumentStore = (*Store)(nil)

// NewStore connects to Firestore. Without a credentials file, application default
// credentials (or FIRESTORE_EMULATOR_HOST) are used.
func NewStore(ctx context.Context, cfg platformconfig.FirestoreConfig) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read firestore credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, datastoreScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse firestore credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", classify(err))
	}
	return &Store{client: client}, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc dbi.Document) error {
	data := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		data[k] = v
	}
	data["id"] = id

	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, data); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (dbi.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return toDocument(snap), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if len(updates) == 0 {
		_, err := s.Get(ctx, collection, id)
		return err
	}

	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, q dbi.Query) ([]dbi.Document, error) {
	return s.run(ctx, buildQuery(s.client.Collection(collection).Query, q))
}

func (s *Store) Scan(ctx context.Context, collection string) ([]dbi.Document, error) {
	return s.run(ctx, s.client.Collection(collection).Query)
}

func (s *Store) run(ctx context.Context, query firestore.Query) ([]dbi.Document, error) {
	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(err)
	}
	docs := make([]dbi.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, toDocument(snap))
	}
	return docs, nil
}

// buildQuery applies equality filters, ordering and limit. Ties are broken by
// document id in the same direction.
func buildQuery(query firestore.Query, q dbi.Query) firestore.Query {
	for _, c := range q.Conditions {
		query = query.Where(c.Name, "==", c.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == dbi.Descending {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir).OrderBy(firestore.DocumentID, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

// Increment applies positive deltas with a server-side increment. Negative deltas
// run as a transaction so the floor at zero holds under concurrency.
func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int64) (int64, error) {
	ref := s.client.Collection(collection).Doc(id)

	if delta >= 0 {
		if _, err := ref.Update(ctx, []firestore.Update{{Path: field, Value: firestore.Increment(delta)}}); err != nil {
			return 0, classify(err)
		}
		snap, err := ref.Get(ctx)
		if err != nil {
			return 0, classify(err)
		}
		return fieldInt(snap, field)
	}

	var next int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := fieldInt(snap, field)
		if err != nil {
			return err
		}
		next = current + delta
		if next < 0 {
			next = 0
		}
		return tx.Update(ref, []firestore.Update{{Path: field, Value: next}})
	})
	if err != nil {
		return 0, classify(err)
	}
	return next, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collection("_health").Doc("ping").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return classify(err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func toDocument(snap *firestore.DocumentSnapshot) dbi.Document {
	doc := dbi.Document(snap.Data())
	doc["id"] = snap.Ref.ID
	return doc
}

func fieldInt(snap *firestore.DocumentSnapshot, field string) (int64, error) {
	raw, err := snap.DataAt(field)
	if err != nil || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("%w: %s is not numeric", dbi.ErrInvalidField, field)
}

// classify maps gRPC status codes onto the storage error taxonomy. Firestore
// reports a missing composite index as FailedPrecondition.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, dbi.ErrInvalidField) {
		return err
	}

	switch status.Code(err) {
	case codes.NotFound:
		return dbi.ErrNotFound
	case codes.AlreadyExists:
		return dbi.ErrDuplicateKey
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", dbi.ErrIndexUnavailable, status.Convert(err).Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return fmt.Errorf("%w: %s", dbi.ErrUnavailable, status.Convert(err).Message())
	}
	return err
}
