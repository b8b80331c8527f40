package database

import (
	"regexp"
	"strings"
	"time"

	"github.com/obrastudio/site-backend/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operation is one of the four verbs the query endpoint understands.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ParseOperation validates the operation field of a query request.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpSelect, OpInsert, OpUpdate, OpDelete:
		return Operation(s), nil
	}
	return "", errs.NewInvalidFieldError("operation", "must be one of select, insert, update, delete")
}

// Filter is a single column predicate. Supported operators: eq, ilike.
type Filter struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// OrderBy sorts the result set on a single column.
type OrderBy struct {
	Column    string `json:"column"`
	Ascending bool   `json:"ascending"`
}

// Request is the declarative query descriptor accepted by
// POST /api/db/{table}/query. Construction and execution are separate:
// handlers decode and validate a Request, the Store executes it.
type Request struct {
	Operation string   `json:"operation"`
	Select    string   `json:"select,omitempty"`
	Filters   []Filter `json:"filters,omitempty"`
	OrderBy   *OrderBy `json:"orderBy,omitempty"`
	Limit     int64    `json:"limit,omitempty"`
	Payload   any      `json:"payload,omitempty"`
	Single    bool     `json:"single,omitempty"`
	Returning bool     `json:"returning,omitempty"`
	// All must be set to delete with an empty filter list. An accidentally
	// empty filter list is otherwise a wipe of the whole table.
	All bool `json:"all,omitempty"`
}

// BuildFilter translates the declarative filter list into a Mongo filter
// document.
//
// eq on the id column parses the value as an ObjectID when it is
// syntactically valid and falls back to a literal string match on _id
// otherwise, so rows carrying imported free-form ids stay reachable. The
// fallback applies uniformly to every table.
//
// ilike is a case-insensitive whole-value match where % expands to a
// wildcard; every other regex metacharacter in the value is escaped.
func BuildFilter(filters []Filter) (bson.M, error) {
	out := bson.M{}
	for _, f := range filters {
		if f.Column == "" {
			return nil, errs.NewMissingRequiredFieldError("filters.column")
		}
		switch f.Operator {
		case "eq":
			if f.Column == "id" {
				out["_id"] = idFilterValue(f.Value)
				continue
			}
			out[f.Column] = f.Value
		case "ilike":
			s, ok := f.Value.(string)
			if !ok {
				return nil, errs.NewInvalidFieldError("filters.value", "ilike requires a string value")
			}
			out[f.Column] = primitive.Regex{Pattern: ilikePattern(s), Options: "i"}
		default:
			return nil, errs.NewInvalidFieldError("filters.operator", "must be eq or ilike")
		}
	}
	return out, nil
}

func idFilterValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return oid
	}
	return s
}

// ilikePattern anchors the whole value and expands % into .*; everything
// else is taken literally.
func ilikePattern(value string) string {
	quoted := regexp.QuoteMeta(value)
	return "^" + strings.ReplaceAll(quoted, "%", ".*") + "$"
}

// Normalize converts a store document into the external contract: the native
// _id becomes a hex id field and internal bookkeeping keys are dropped.
func Normalize(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				out["id"] = id.Hex()
			default:
				out["id"] = id
			}
			continue
		}
		if strings.HasPrefix(k, "__") {
			continue
		}
		out[k] = v
	}
	return out
}

// NormalizeAll maps Normalize over a result set, returning an empty (not
// nil) slice so callers always serialize an array.
func NormalizeAll(docs []bson.M) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Normalize(doc))
	}
	return out
}

// StampTimestamps applies the server-side created_at/updated_at policy:
// created_at only when absent on insert, updated_at always.
func StampTimestamps(doc map[string]any, insert bool, now time.Time) {
	if insert {
		if _, ok := doc["created_at"]; !ok {
			doc["created_at"] = now
		}
	}
	doc["updated_at"] = now
}
