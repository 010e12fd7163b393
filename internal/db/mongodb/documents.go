package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Find runs the query translated to a BSON filter.
func (s *Store) Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error) {
	cur, err := s.collection(collection).Find(ctx, buildFilter(q))
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	out := make([]domain.Document, len(raw))
	for i, m := range raw {
		out[i] = fromBSON(m)
	}
	return out, nil
}

// InsertOne inserts doc and returns the generated ObjectID in hex.
func (s *Store) InsertOne(ctx context.Context, collection string, doc domain.Document) (string, error) {
	res, err := s.collection(collection).InsertOne(ctx, toBSON(doc.Without(domain.FieldStoreID)))
	if err != nil {
		return "", &db.Error{Op: db.OpInsertOne, Err: err}
	}
	return idString(res.InsertedID), nil
}

// InsertMany inserts docs in one round-trip.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []domain.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = toBSON(d.Without(domain.FieldStoreID))
	}

	res, err := s.collection(collection).InsertMany(ctx, batch)
	if err != nil {
		return 0, &db.Error{Op: db.OpInsertMany, Err: err}
	}
	return len(res.InsertedIDs), nil
}

// UpdateOne applies fields with $set to the first document matching key.
func (s *Store) UpdateOne(
	ctx context.Context, collection string, key db.Key, fields domain.Document,
) (db.UpdateResult, error) {
	if key.Field == "" {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: db.ErrEmptyKeyField}
	}

	match := bson.D{{Key: key.Field, Value: key.Value}}
	update := bson.D{{Key: "$set", Value: toBSON(fields.Without(domain.FieldStoreID))}}

	res, err := s.collection(collection).UpdateOne(ctx, match, update)
	if err != nil {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: err}
	}
	return db.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}
