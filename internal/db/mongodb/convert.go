package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// buildFilter translates a substring query into a MongoDB filter.
//
// Text fields use $regex; numeric fields are stringified with $toString and
// matched with $regexMatch, guarded by $isNumber so non-numeric values never
// match. The pattern is the escaped term, so the match is a literal substring.
func buildFilter(q filter.Query) bson.D {
	if q.IsEmpty() {
		return bson.D{}
	}

	pattern := q.Pattern()
	or := make(bson.A, 0, len(q.TextFields())+len(q.NumericFields()))

	for _, f := range q.TextFields() {
		or = append(or, bson.D{{Key: f, Value: bson.Regex{Pattern: pattern, Options: "i"}}})
	}

	for _, f := range q.NumericFields() {
		ref := "$" + f
		or = append(or, bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$isNumber", Value: ref}},
			bson.D{{Key: "$regexMatch", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$toString", Value: ref}}},
				{Key: "regex", Value: pattern},
				{Key: "options", Value: "i"},
			}}},
		}}}}})
	}

	return bson.D{{Key: "$or", Value: or}}
}

// toBSON converts a document into a bson.M, keeping nested documents as bson.M.
func toBSON(d domain.Document) bson.M {
	out := make(bson.M, len(d))
	for k, v := range d {
		out[k] = toBSONValue(v)
	}
	return out
}

func toBSONValue(v any) any {
	switch x := v.(type) {
	case domain.Document:
		return toBSON(x)
	case map[string]any:
		return toBSON(x)
	case []any:
		out := make(bson.A, len(x))
		for i, e := range x {
			out[i] = toBSONValue(e)
		}
		return out
	default:
		return v
	}
}

// fromBSON converts a decoded document into a domain.Document,
// rendering driver types in their JSON-friendly form.
func fromBSON(m bson.M) domain.Document {
	out := make(domain.Document, len(m))
	for k, v := range m {
		out[k] = fromBSONValue(v)
	}
	return out
}

func fromBSONValue(v any) any {
	switch x := v.(type) {
	case bson.ObjectID:
		return x.Hex()
	case bson.M:
		return fromBSON(x)
	case bson.D:
		out := make(domain.Document, len(x))
		for _, e := range x {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromBSONValue(e)
		}
		return out
	case bson.DateTime:
		return x.Time().UTC()
	case bson.Decimal128:
		return x.String()
	default:
		return v
	}
}

func idString(id any) string {
	if oid, ok := id.(bson.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
