// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package utils

import (
	"bytes"
	"encoding/json"
	"fmt"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// ToDocument converts a model into a Document through its JSON shape. Numbers are
// normalised to int64 where exact and float64 otherwise. Keys listed in omit are
// dropped, which keeps derived fields out of storage.
func ToDocument(v interface{}, omit ...string) (dbi.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc dbi.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	for _, key := range omit {
		delete(doc, key)
	}
	for k, val := range doc {
		doc[k] = normalize(val)
	}
	return doc, nil
}

// FromDocument decodes a Document into out.
func FromDocument(doc dbi.Document, out interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// CloneDocument returns a shallow copy of doc.
func CloneDocument(doc dbi.Document) dbi.Document {
	if doc == nil {
		return nil
	}
	out := make(dbi.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = normalize(inner)
		}
		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = normalize(inner)
		}
		return t
	default:
		return v
	}
}
