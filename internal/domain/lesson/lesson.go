// Package lesson describes catalog records and the fields this service interprets.
//
// Only FieldID and domain.FieldStoreID carry meaning on writes. The search
// fields are read by the search query. Every other field is passed through
// to the store verbatim and returned unchanged.
package lesson

import (
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Field names of a lesson record.
const (
	FieldID       = "id"
	FieldName     = "LessonName"
	FieldLocation = "Location"
	FieldPrice    = "Price"
	FieldSpace    = "Space"
)

var (
	textFields    = []string{FieldName, FieldLocation}
	numericFields = []string{FieldPrice, FieldSpace}
)

// SearchQuery builds the catalog search predicate for a free-text term.
func SearchQuery(term string) filter.Query {
	return filter.NewSubstring(term, textFields, numericFields)
}

// Update is a partial merge addressed by the application key.
type Update struct {
	id     int64
	fields domain.Document
}

// ParseUpdate splits a client payload into the key and the fields to merge.
// The store identifier is dropped. id must be an integral number and at
// least one other field must be present.
func ParseUpdate(payload domain.Document) (Update, error) {
	raw, ok := payload[FieldID]
	if !ok {
		return Update{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidPayload, FieldID)
	}
	id, ok := domain.Integer(raw)
	if !ok {
		return Update{}, fmt.Errorf("%w: %s must be an integer, got %v", domain.ErrInvalidPayload, FieldID, raw)
	}

	fields := payload.Without(domain.FieldStoreID, FieldID)
	if len(fields) == 0 {
		return Update{}, fmt.Errorf("%w: no fields to update", domain.ErrInvalidPayload)
	}
	return Update{id: id, fields: fields}, nil
}

// ID returns the application key of the target record.
func (u Update) ID() int64 { return u.id }

// Fields returns the fields to merge into the record.
func (u Update) Fields() domain.Document { return u.fields }

// UpdateResult reports how many records the update addressed.
// Zero matches is not an error; callers decide how to treat it.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// ValidateSeed checks a lesson created out of band before it is inserted.
func ValidateSeed(doc domain.Document) error {
	raw, ok := doc[FieldID]
	if !ok {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidPayload, FieldID)
	}
	if _, ok := domain.Integer(raw); !ok {
		return fmt.Errorf("%w: %s must be an integer, got %v", domain.ErrInvalidPayload, FieldID, raw)
	}
	return nil
}
