package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

type entry struct {
	key string
	doc domain.Document
}

// Find returns every document in the collection matching q, in insertion order.
func (s *Store) Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error) {
	entries, err := s.load(ctx, collection)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	out := make([]domain.Document, 0, len(entries))
	for _, e := range entries {
		if q.Match(e.doc) {
			out = append(out, e.doc)
		}
	}
	return out, nil
}

// InsertOne stores doc under a fresh identifier and returns it.
func (s *Store) InsertOne(ctx context.Context, collection string, doc domain.Document) (string, error) {
	id, key, data, err := s.prepare(collection, doc)
	if err != nil {
		return "", &db.Error{Op: db.OpInsertOne, Err: err}
	}

	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args("$", string(data), "NX").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return "", &db.Error{Op: db.OpInsertOne, Err: err}
	}
	return id, nil
}

// InsertMany stores every document in one pipeline and returns how many were written.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []domain.Document) (int, error) {
	items := make([]jsonSetItem, 0, len(docs))
	for _, doc := range docs {
		_, key, data, err := s.prepare(collection, doc)
		if err != nil {
			return 0, &db.Error{Op: db.OpInsertMany, Err: err}
		}
		items = append(items, jsonSetItem{key: key, path: "$", data: data})
	}

	if err := s.jsonSetMulti(ctx, items); err != nil {
		return 0, &db.Error{Op: db.OpInsertMany, Err: err}
	}
	return len(items), nil
}

// UpdateOne sets fields on the first document whose key field equals key.Value.
func (s *Store) UpdateOne(
	ctx context.Context, collection string, key db.Key, fields domain.Document,
) (db.UpdateResult, error) {
	if key.Field == "" {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: db.ErrEmptyKeyField}
	}

	entries, err := s.load(ctx, collection)
	if err != nil {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: err}
	}

	var target *entry
	for i := range entries {
		if db.KeyMatches(entries[i].doc, key) {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return db.UpdateResult{}, nil
	}

	fields = fields.Without(domain.FieldStoreID)
	normalized, err := normalize(fields)
	if err != nil {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: err}
	}

	names := make([]string, 0, len(normalized))
	for name := range normalized {
		names = append(names, name)
	}
	sort.Strings(names)

	modified := false
	items := make([]jsonSetItem, 0, len(names))
	for _, name := range names {
		value := normalized[name]
		if old, ok := target.doc[name]; !ok || !reflect.DeepEqual(old, value) {
			modified = true
		}
		data, err := json.Marshal(value)
		if err != nil {
			return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: err}
		}
		items = append(items, jsonSetItem{key: target.key, path: fieldPath(name), data: data})
	}

	if !modified {
		return db.UpdateResult{Matched: 1}, nil
	}
	if err := s.jsonSetMulti(ctx, items); err != nil {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: err}
	}
	return db.UpdateResult{Matched: 1, Modified: 1}, nil
}

// load scans the collection and fetches all documents, ordered by key.
func (s *Store) load(ctx context.Context, collection string) ([]entry, error) {
	keys, err := s.Scan(ctx, s.pattern(collection))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	raws, err := s.jsonGetMulti(ctx, keys)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(keys))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", keys[i], err)
		}
		entries = append(entries, entry{key: keys[i], doc: doc})
	}
	return entries, nil
}

func (s *Store) prepare(collection string, doc domain.Document) (id, key string, data []byte, err error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", "", nil, fmt.Errorf("generate id: %w", err)
	}
	id = u.String()

	stored := doc.Without(domain.FieldStoreID)
	stored[domain.FieldStoreID] = id

	data, err = json.Marshal(stored)
	if err != nil {
		return "", "", nil, fmt.Errorf("encode document: %w", err)
	}
	return id, s.docKey(collection, id), data, nil
}

// decode parses a JSON.GET reply. The root path form returns a one-element array.
func decode(raw []byte) (domain.Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var wrapped []json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		if len(wrapped) == 0 {
			return nil, fmt.Errorf("decode document: empty result")
		}
		raw = wrapped[0]
	}
	return domain.DecodeJSON(bytes.NewReader(raw))
}

// normalize round-trips fields through JSON so values compare equal to decoded ones.
func normalize(fields domain.Document) (domain.Document, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return domain.DecodeJSON(bytes.NewReader(data))
}

// fieldPath addresses a top-level member in bracket notation, which accepts any name.
func fieldPath(name string) string {
	quoted, _ := json.Marshal(name)
	return "$[" + string(quoted) + "]"
}
