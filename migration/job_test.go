package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obrastudio/site-backend/database"
)

// fakeSource serves fixed tables and records every page fetch.
type fakeSource struct {
	tables  map[string][]Row
	fetches map[string][]int // table -> page sizes returned
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tables:  map[string][]Row{},
		fetches: map[string][]int{},
	}
}

func (f *fakeSource) FetchPage(_ context.Context, table, _ string, offset, limit int) ([]Row, error) {
	rows := f.tables[table]
	if offset >= len(rows) {
		f.fetches[table] = append(f.fetches[table], 0)
		return nil, nil
	}
	end := min(offset+limit, len(rows))

	// Copies, so the job's id-stripping does not mutate the fixture.
	page := make([]Row, 0, end-offset)
	for _, row := range rows[offset:end] {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		page = append(page, copied)
	}
	f.fetches[table] = append(f.fetches[table], len(page))
	return page, nil
}

// fakeTarget simulates the Query Translator HTTP surface with in-memory
// tables, assigning sequential ids on insert.
type fakeTarget struct {
	tables      map[string][]Row
	insertSizes map[string][]int
	events      []string
	nextID      int
	failInserts bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		tables:      map[string][]Row{},
		insertSizes: map[string][]int{},
	}
}

func (f *fakeTarget) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "test-token"})
	})
	mux.HandleFunc("POST /api/db/{table}/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "unauthorized"})
			return
		}

		table := r.PathValue("table")
		var req database.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.events = append(f.events, req.Operation+":"+table)

		switch req.Operation {
		case "delete":
			if len(req.Filters) == 0 && !req.All {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "refusing unfiltered delete"})
				return
			}
			f.tables[table] = nil
			json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": nil})
		case "select":
			rows := f.tables[table]
			if rows == nil {
				rows = []Row{}
			}
			json.NewEncoder(w).Encode(map[string]any{"data": rows, "error": nil})
		case "insert":
			if f.failInserts {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "store exploded"})
				return
			}
			docs := payloadRows(t, req.Payload)
			f.insertSizes[table] = append(f.insertSizes[table], len(docs))
			inserted := make([]Row, 0, len(docs))
			for _, doc := range docs {
				require.NotContains(t, doc, "id", "source ids must be stripped before insert")
				f.nextID++
				doc["id"] = fmt.Sprintf("new-%d", f.nextID)
				f.tables[table] = append(f.tables[table], doc)
				inserted = append(inserted, doc)
			}
			var data any = inserted
			if req.Single {
				data = inserted[0]
			}
			if !req.Returning {
				data = nil
			}
			json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
		default:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "bad operation"})
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func payloadRows(t *testing.T, payload any) []Row {
	t.Helper()
	switch p := payload.(type) {
	case map[string]any:
		return []Row{p}
	case []any:
		rows := make([]Row, 0, len(p))
		for _, item := range p {
			rows = append(rows, item.(map[string]any))
		}
		return rows
	default:
		t.Fatalf("unexpected payload type %T", payload)
		return nil
	}
}

func runJob(t *testing.T, source Source, target *fakeTarget, cfg Config) error {
	t.Helper()
	server := target.server(t)
	cfg.TargetEmail = "admin@site.com"
	cfg.TargetPassword = "segredo"
	return NewJob(source, NewClient(server.URL), cfg).Run(context.Background())
}

func TestJob_RemapsGalleryParents(t *testing.T) {
	source := newFakeSource()
	source.tables["projetos"] = []Row{
		{"id": "p1", "titulo": "Projeto Um"},
		{"id": "p2", "titulo": "Projeto Dois"},
	}
	source.tables["projeto_galeria"] = []Row{
		{"id": "g1", "project_id": "p1", "imagem_url": "a.png", "ordem": 1},
		{"id": "g2", "project_id": "p1", "imagem_url": "b.png", "ordem": 2},
		{"id": "g3", "project_id": "p2", "imagem_url": "c.png", "ordem": 3},
		{"id": "g4", "project_id": "ghost", "imagem_url": "d.png", "ordem": 4},
	}

	target := newFakeTarget()
	err := runJob(t, source, target, Config{BatchSize: 10})
	require.NoError(t, err)

	require.Len(t, target.tables["projetos"], 2)
	newIDs := map[string]string{}
	for _, project := range target.tables["projetos"] {
		newIDs[project["titulo"].(string)] = project["id"].(string)
	}

	gallery := target.tables["projeto_galeria"]
	require.Len(t, gallery, 3, "the row with an unmigrated parent is dropped")
	for _, row := range gallery {
		parent := row["project_id"].(string)
		assert.Contains(t, []string{newIDs["Projeto Um"], newIDs["Projeto Dois"]}, parent,
			"every gallery row must reference a migrated project")
	}

	// The two rows of Projeto Um still point at the same parent.
	var umCount int
	for _, row := range gallery {
		if row["project_id"] == newIDs["Projeto Um"] {
			umCount++
		}
	}
	assert.Equal(t, 2, umCount)
}

func TestJob_BatchBoundaries(t *testing.T) {
	source := newFakeSource()
	for i := 0; i < 5; i++ {
		source.tables["posts"] = append(source.tables["posts"], Row{
			"id": fmt.Sprintf("s%d", i), "titulo": fmt.Sprintf("Post %d", i), "slug": fmt.Sprintf("post-%d", i),
		})
	}

	target := newFakeTarget()
	err := runJob(t, source, target, Config{BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, source.fetches["posts"], "5 rows at batch size 2 means pages of 2,2,1")
	assert.Equal(t, []int{2, 2, 1}, target.insertSizes["posts"], "each page becomes one insert call")

	require.Len(t, target.tables["posts"], 5)
	seen := map[string]bool{}
	for _, row := range target.tables["posts"] {
		seen[row["titulo"].(string)] = true
	}
	assert.Len(t, seen, 5, "every source post arrives exactly once")
}

func TestJob_ResetWipesTargetBeforeInserts(t *testing.T) {
	source := newFakeSource()
	source.tables["projetos"] = []Row{{"id": "p1", "titulo": "Projeto"}}

	target := newFakeTarget()
	target.tables["posts"] = []Row{{"id": "stale", "titulo": "Velho"}}
	target.tables["projetos"] = []Row{{"id": "stale2", "titulo": "Velho tbm"}}

	err := runJob(t, source, target, Config{BatchSize: 10, Reset: true})
	require.NoError(t, err)

	// Every delete (and its verification select) happens before any insert.
	firstInsert := -1
	lastDelete := -1
	for i, event := range target.events {
		switch {
		case firstInsert == -1 && event[:6] == "insert":
			firstInsert = i
		case event[:6] == "delete":
			lastDelete = i
		}
	}
	require.NotEqual(t, -1, firstInsert)
	require.NotEqual(t, -1, lastDelete)
	assert.Less(t, lastDelete, firstInsert)

	// Reset happens children-first.
	var deleteOrder []string
	for _, event := range target.events {
		if event[:6] == "delete" {
			deleteOrder = append(deleteOrder, event[7:])
		}
	}
	assert.Equal(t, []string{"projeto_galeria", "projetos", "posts", "autores", "depoimentos"}, deleteOrder)

	// The stale post is gone; nothing re-inserted it.
	assert.Empty(t, target.tables["posts"])
	require.Len(t, target.tables["projetos"], 1)
	assert.Equal(t, "Projeto", target.tables["projetos"][0]["titulo"])
}

func TestJob_AbortsOnFirstInsertError(t *testing.T) {
	source := newFakeSource()
	source.tables["projetos"] = []Row{{"id": "p1", "titulo": "Projeto"}}

	target := newFakeTarget()
	target.failInserts = true

	err := runJob(t, source, target, Config{BatchSize: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store exploded")
}

func TestJob_LoginFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid email or password"})
	}))
	defer server.Close()

	job := NewJob(newFakeSource(), NewClient(server.URL), Config{
		TargetEmail:    "admin@site.com",
		TargetPassword: "errada",
		BatchSize:      10,
	})

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authenticating against target")
}

func TestSourceID(t *testing.T) {
	assert.Equal(t, "abc", sourceID("abc"))
	assert.Equal(t, "abc", sourceID([]byte("abc")))
	assert.Equal(t, "42", sourceID(int64(42)))
	assert.Equal(t, "", sourceID(nil))
}
