// Package order describes customer orders. Orders carry no fixed schema.
package order

import "github.com/kailas-cloud/storefront/internal/domain"

// New prepares a client payload for insertion. The store assigns the
// identifier, so a client-supplied one is dropped.
func New(payload domain.Document) domain.Document {
	return payload.Without(domain.FieldStoreID)
}
