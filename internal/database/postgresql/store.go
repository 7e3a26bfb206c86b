// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/postgres"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/pkg/log"
)

type txKey struct{}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store keeps each collection in its own table with the document in a JSONB
// column, keyed by a unique object_id.
type Store struct {
	client  *postgres.Client
	schema  string
	ensured sync.Map
}

var (
	_ dbi.DocumentStore = (*Store)(nil)
	_ dbi.Transactor    = (*Store)(nil)
)

// NewStore creates a document store on top of an open client.
func NewStore(ctx context.Context, client *postgres.Client, schema string) (*Store, error) {
	if schema == "" {
		schema = "public"
	}
	if !identPattern.MatchString(schema) {
		return nil, fmt.Errorf("%w: schema %q", dbi.ErrInvalidField, schema)
	}
	if _, err := client.DB().ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(schema))); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", classify(err))
	}
	return &Store{client: client, schema: schema}, nil
}

// getExecutor returns either the transaction from context or the DB connection
func (s *Store) getExecutor(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.client.DB()
}

func (s *Store) tableName(collection string) string {
	return pq.QuoteIdentifier(s.schema) + "." + pq.QuoteIdentifier(collection)
}

// ensureTable creates the collection table on first use.
func (s *Store) ensureTable(ctx context.Context, collection string) (string, error) {
	if !identPattern.MatchString(collection) {
		return "", fmt.Errorf("%w: collection %q", dbi.ErrInvalidField, collection)
	}
	table := s.tableName(collection)
	if _, ok := s.ensured.Load(collection); ok {
		return table, nil
	}

	for _, stmt := range createTableStatements(table, collection) {
		if _, err := s.client.DB().ExecContext(ctx, stmt); err != nil {
			if pgErr, ok := err.(*pq.Error); ok && (pgErr.Code == "42P07" || pgErr.Code == "23505") {
				continue
			}
			return "", fmt.Errorf("failed to create table %s: %w", table, classify(err))
		}
	}

	s.ensured.Store(collection, true)
	return table, nil
}

func createTableStatements(table, collection string) []string {
	index := func(suffix string) string {
		return pq.QuoteIdentifier(fmt.Sprintf("idx_%s_%s", strings.ToLower(collection), suffix))
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			object_id VARCHAR(255) UNIQUE NOT NULL,
			data JSONB NOT NULL,
			created_date BIGINT,
			last_updated BIGINT
		)`, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (data jsonb_path_ops)", index("data_gin"), table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (created_date, object_id)", index("created_object"), table),
	}
}

func (s *Store) Create(ctx context.Context, collection, id string, doc dbi.Document) error {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return err
	}

	stored := utils.CloneDocument(doc)
	stored["id"] = id
	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	createdDate, _ := utils.ToInt64(stored["createdAt"])
	query := fmt.Sprintf(`
		INSERT INTO %s (object_id, data, created_date, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (object_id) DO NOTHING`, table)

	res, err := s.getExecutor(ctx).ExecContext(ctx, query, id, payload, createdDate, nowMillis())
	if err != nil {
		return classify(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if rows == 0 {
		return dbi.ErrDuplicateKey
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (dbi.Document, error) {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return nil, err
	}

	var raw []byte
	query := fmt.Sprintf("SELECT data FROM %s WHERE object_id = $1", table)
	if err := sqlx.GetContext(ctx, s.getExecutor(ctx), &raw, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dbi.ErrNotFound
		}
		return nil, classify(err)
	}
	return utils.ToDocument(json.RawMessage(raw))
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return err
	}

	patch := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k != "id" {
			patch[k] = v
		}
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	query := fmt.Sprintf("UPDATE %s SET data = data || $2::jsonb, last_updated = $3 WHERE object_id = $1", table)
	res, err := s.getExecutor(ctx).ExecContext(ctx, query, id, payload, nowMillis())
	if err != nil {
		return classify(err)
	}
	return requireRow(res)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return err
	}

	res, err := s.getExecutor(ctx).ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE object_id = $1", table), id)
	if err != nil {
		return classify(err)
	}
	return requireRow(res)
}

func (s *Store) Query(ctx context.Context, collection string, q dbi.Query) ([]dbi.Document, error) {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return nil, err
	}

	query, args, err := buildSelect(table, q)
	if err != nil {
		return nil, err
	}
	return s.selectDocuments(ctx, query, args...)
}

func (s *Store) Scan(ctx context.Context, collection string) ([]dbi.Document, error) {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return nil, err
	}
	return s.selectDocuments(ctx, fmt.Sprintf("SELECT data FROM %s", table))
}

func (s *Store) selectDocuments(ctx context.Context, query string, args ...interface{}) ([]dbi.Document, error) {
	var rows [][]byte
	if err := sqlx.SelectContext(ctx, s.getExecutor(ctx), &rows, query, args...); err != nil {
		return nil, classify(err)
	}

	docs := make([]dbi.Document, 0, len(rows))
	for _, raw := range rows {
		doc, err := utils.ToDocument(json.RawMessage(raw))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int64) (int64, error) {
	table, err := s.ensureTable(ctx, collection)
	if err != nil {
		return 0, err
	}

	query, err := buildIncrement(table, field)
	if err != nil {
		return 0, err
	}

	var value int64
	if err := sqlx.GetContext(ctx, s.getExecutor(ctx), &value, query, id, delta, nowMillis()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, dbi.ErrNotFound
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "22P02" {
			return 0, fmt.Errorf("%w: %s is not numeric", dbi.ErrInvalidField, field)
		}
		return 0, classify(err)
	}
	return value, nil
}

// WithTransaction runs fn with a transaction carried in its context. Nested calls
// join the outer transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.client.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.ErrorWithContext(ctx, "rollback failed: %s", rbErr.Error())
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", classify(commitErr))
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if rows == 0 {
		return dbi.ErrNotFound
	}
	return nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
