package database

import (
	"context"
	"strings"
	"time"

	"github.com/obrastudio/site-backend/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExecuteQuery runs a declarative query request against an allow-listed
// table. authed reports whether the caller presented a valid token: it never
// gates execution here (the handler rejects unauthenticated writes before
// calling), it only controls the public row filter on selects.
//
// The returned value is the already-normalized data payload: a slice of
// documents, a single document or nil when Single is set, or nil for
// non-returning writes.
func (s *Store) ExecuteQuery(ctx context.Context, table Table, req Request, authed bool) (any, error) {
	op, err := ParseOperation(req.Operation)
	if err != nil {
		return nil, err
	}

	switch op {
	case OpSelect:
		return s.execSelect(ctx, table, req, authed)
	case OpInsert:
		return s.execInsert(ctx, table, req)
	case OpUpdate:
		return s.execUpdate(ctx, table, req)
	case OpDelete:
		return nil, s.execDelete(ctx, table, req)
	}
	// ParseOperation is exhaustive; unreachable.
	return nil, errs.NewInternalError("unhandled operation")
}

func (s *Store) execSelect(ctx context.Context, table Table, req Request, authed bool) (any, error) {
	filter, err := BuildFilter(req.Filters)
	if err != nil {
		return nil, err
	}
	if !authed {
		for k, v := range table.PublicFilter() {
			filter[k] = v
		}
	}

	findOpts := options.Find()
	if proj := projectionFor(req.Select); proj != nil {
		findOpts.SetProjection(proj)
	}
	if req.OrderBy != nil {
		findOpts.SetSort(sortFor(*req.OrderBy))
	}
	if req.Limit > 0 {
		findOpts.SetLimit(req.Limit)
	}

	cursor, err := s.Collection(table).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, errs.NewStoreError("select", table.String(), err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errs.NewStoreError("decode", table.String(), err)
	}

	normalized := NormalizeAll(docs)
	if req.Single {
		if len(normalized) == 0 {
			return nil, nil
		}
		return normalized[0], nil
	}
	return normalized, nil
}

func (s *Store) execInsert(ctx context.Context, table Table, req Request) (any, error) {
	docs, err := payloadDocs(req.Payload)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errs.NewMissingRequiredFieldError("payload")
	}

	now := time.Now().UTC()
	toInsert := make([]any, 0, len(docs))
	for _, doc := range docs {
		delete(doc, "id")
		StampTimestamps(doc, true, now)
		toInsert = append(toInsert, doc)
	}

	result, err := s.Collection(table).InsertMany(ctx, toInsert)
	if err != nil {
		return nil, errs.NewStoreError("insert", table.String(), err)
	}
	if !req.Returning {
		return nil, nil
	}

	inserted := make([]map[string]any, 0, len(docs))
	for i, doc := range docs {
		echoed := make(map[string]any, len(doc)+1)
		for k, v := range doc {
			echoed[k] = v
		}
		if i < len(result.InsertedIDs) {
			if oid, ok := result.InsertedIDs[i].(primitive.ObjectID); ok {
				echoed["id"] = oid.Hex()
			} else {
				echoed["id"] = result.InsertedIDs[i]
			}
		}
		inserted = append(inserted, echoed)
	}
	if req.Single {
		return inserted[0], nil
	}
	return inserted, nil
}

func (s *Store) execUpdate(ctx context.Context, table Table, req Request) (any, error) {
	docs, err := payloadDocs(req.Payload)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, errs.NewInvalidFieldError("payload", "update requires exactly one document")
	}

	doc := docs[0]
	delete(doc, "id")
	StampTimestamps(doc, false, time.Now().UTC())

	filter, err := BuildFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	// Shallow merge: nested objects are replaced wholesale, not deep-merged.
	if _, err := s.Collection(table).UpdateMany(ctx, filter, bson.M{"$set": doc}); err != nil {
		return nil, errs.NewStoreError("update", table.String(), err)
	}
	if !req.Returning {
		return nil, nil
	}

	cursor, err := s.Collection(table).Find(ctx, filter)
	if err != nil {
		return nil, errs.NewStoreError("select after update", table.String(), err)
	}
	var updated []bson.M
	if err := cursor.All(ctx, &updated); err != nil {
		return nil, errs.NewStoreError("decode", table.String(), err)
	}
	normalized := NormalizeAll(updated)
	if req.Single {
		if len(normalized) == 0 {
			return nil, nil
		}
		return normalized[0], nil
	}
	return normalized, nil
}

func (s *Store) execDelete(ctx context.Context, table Table, req Request) error {
	if err := ValidateDelete(req); err != nil {
		return err
	}
	filter, err := BuildFilter(req.Filters)
	if err != nil {
		return err
	}
	// Deleting an empty match set is fine: zero documents affected, no error.
	if _, err := s.Collection(table).DeleteMany(ctx, filter); err != nil {
		return errs.NewStoreError("delete", table.String(), err)
	}
	return nil
}

// ValidateDelete rejects a delete with no filters unless the caller
// explicitly confirmed a full-table wipe.
func ValidateDelete(req Request) error {
	if len(req.Filters) == 0 && !req.All {
		return errs.NewBadRequestErrorWithField(
			"refusing unfiltered delete", "all",
			"deleting every row requires \"all\": true")
	}
	return nil
}

// payloadDocs coerces the decoded payload into a document list. A single
// object becomes a one-element list.
func payloadDocs(payload any) ([]map[string]any, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{p}, nil
	case []any:
		docs := make([]map[string]any, 0, len(p))
		for _, item := range p {
			doc, ok := item.(map[string]any)
			if !ok {
				return nil, errs.NewInvalidFieldError("payload", "list items must be objects")
			}
			docs = append(docs, doc)
		}
		return docs, nil
	case []map[string]any:
		return p, nil
	default:
		return nil, errs.NewInvalidFieldError("payload", "must be an object or a list of objects")
	}
}

// projectionFor turns the select spec into a Mongo projection. "*" or empty
// means no projection.
func projectionFor(sel string) bson.M {
	if sel == "" || sel == "*" {
		return nil
	}
	proj := bson.M{}
	for _, field := range strings.Split(sel, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if field == "id" {
			field = "_id"
		}
		proj[field] = 1
	}
	return proj
}

func sortFor(ob OrderBy) bson.D {
	col := ob.Column
	if col == "id" {
		col = "_id"
	}
	dir := 1
	if !ob.Ascending {
		dir = -1
	}
	return bson.D{{Key: col, Value: dir}}
}
