package database

import (
	"github.com/obrastudio/site-backend/errs"
	"go.mongodb.org/mongo-driver/bson"
)

// Table is the closed set of collections reachable through the query
// endpoint. Anything outside this set is rejected with a 404 before touching
// the store.
type Table int

const (
	TableProjects Table = iota
	TableGallery
	TablePosts
	TableAuthors
	TableTestimonials
)

// AllTables lists every allow-listed table. Iteration order matters nowhere;
// the migration job defines its own dependency order.
var AllTables = []Table{
	TableProjects,
	TableGallery,
	TablePosts,
	TableAuthors,
	TableTestimonials,
}

var tableNames = map[Table]string{
	TableProjects:     "projetos",
	TableGallery:      "projeto_galeria",
	TablePosts:        "posts",
	TableAuthors:      "autores",
	TableTestimonials: "depoimentos",
}

// ParseTable resolves a request path segment against the allow-list.
func ParseTable(name string) (Table, error) {
	for t, n := range tableNames {
		if n == name {
			return t, nil
		}
	}
	return 0, errs.NewUnknownTableError(name)
}

func (t Table) String() string {
	return tableNames[t]
}

// CollectionName is the Mongo collection backing the table. Collections are
// named after the external table names.
func (t Table) CollectionName() string {
	return tableNames[t]
}

// PublicFilter returns the extra filter applied to unauthenticated selects,
// or nil when the table is fully public.
func (t Table) PublicFilter() bson.M {
	switch t {
	case TablePosts, TableAuthors:
		return bson.M{"publicado": true}
	case TableTestimonials:
		return bson.M{"ativo": true}
	default:
		return nil
	}
}
