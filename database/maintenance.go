package database

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// dateLayouts are the formats the admin UI has historically written into
// data_publicacao. Normalization rewrites all of them to YYYY-MM-DD.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"2 January 2006",
}

// NormalizeDate parses a loosely formatted date string and reports the
// canonical YYYY-MM-DD form. ok is false when no known layout matches.
func NormalizeDate(s string) (normalized string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// FixPublicationDates rewrites every post whose data_publicacao is parseable
// but not already canonical. Returns the number of updated posts.
func (s *Store) FixPublicationDates(ctx context.Context) (int64, error) {
	cursor, err := s.Collection(TablePosts).Find(ctx, bson.M{"data_publicacao": bson.M{"$exists": true, "$ne": ""}})
	if err != nil {
		return 0, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, err
	}

	var fixed int64
	for _, doc := range docs {
		raw, _ := doc["data_publicacao"].(string)
		normalized, ok := NormalizeDate(raw)
		if !ok || normalized == raw {
			continue
		}
		_, err := s.Collection(TablePosts).UpdateOne(ctx,
			bson.M{"_id": doc["_id"]},
			bson.M{"$set": bson.M{"data_publicacao": normalized}})
		if err != nil {
			return fixed, err
		}
		fixed++
	}
	return fixed, nil
}

// imageFields maps each table to the columns that hold image URLs.
var imageFields = map[Table][]string{
	TableProjects: {"imagem_capa"},
	TableGallery:  {"imagem_url"},
	TablePosts:    {"imagem_destaque"},
	TableAuthors:  {"foto"},
}

// FixImageLinks rewrites image URLs that still point at the old storage host,
// replacing oldPrefix with newPrefix. Returns the number of updated fields.
func (s *Store) FixImageLinks(ctx context.Context, oldPrefix, newPrefix string) (int64, error) {
	var fixed int64
	for table, fields := range imageFields {
		for _, field := range fields {
			cursor, err := s.Collection(table).Find(ctx, bson.M{field: bson.M{"$regex": "^" + regexp.QuoteMeta(oldPrefix)}})
			if err != nil {
				return fixed, err
			}
			var docs []bson.M
			if err := cursor.All(ctx, &docs); err != nil {
				return fixed, err
			}
			for _, doc := range docs {
				url, _ := doc[field].(string)
				rewritten := newPrefix + strings.TrimPrefix(url, oldPrefix)
				_, err := s.Collection(table).UpdateOne(ctx,
					bson.M{"_id": doc["_id"]},
					bson.M{"$set": bson.M{field: rewritten}})
				if err != nil {
					return fixed, err
				}
				fixed++
			}
		}
	}
	return fixed, nil
}
