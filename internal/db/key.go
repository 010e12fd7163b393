package db

import (
	"reflect"

	"github.com/kailas-cloud/storefront/internal/domain"
)

// KeyMatches reports whether doc holds key.Value under key.Field.
// Numbers compare by value regardless of their Go type, mirroring how
// document databases compare int32, int64 and double.
func KeyMatches(doc domain.Document, key Key) bool {
	v, ok := doc[key.Field]
	if !ok {
		return false
	}
	if a, ok := domain.Number(v); ok {
		b, ok := domain.Number(key.Value)
		return ok && a == b
	}
	return reflect.DeepEqual(v, key.Value)
}
