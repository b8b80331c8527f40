package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obrastudio/site-backend/database"
	"github.com/obrastudio/site-backend/errs"
	"github.com/obrastudio/site-backend/services"
)

type fakeValidator struct {
	tokens map[string]*services.TokenClaims
}

func (f fakeValidator) ValidateToken(token string) (*services.TokenClaims, error) {
	if claims, ok := f.tokens[token]; ok {
		return claims, nil
	}
	return nil, errs.NewInvalidTokenError()
}

type fakeExecutor struct {
	lastTable  database.Table
	lastReq    database.Request
	lastAuthed bool
	data       any
	err        error
}

func (f *fakeExecutor) ExecuteQuery(_ context.Context, table database.Table, req database.Request, authed bool) (any, error) {
	f.lastTable = table
	f.lastReq = req
	f.lastAuthed = authed
	return f.data, f.err
}

func newQueryTestRouter(executor queryExecutor) http.Handler {
	validator := fakeValidator{tokens: map[string]*services.TokenClaims{
		"valid-token": {UserID: "u1", Email: "admin@site.com"},
	}}
	am := newAuthMiddleware(validator)
	handler := newQueryHandler(executor)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(am.optional)
		r.Post("/api/db/{table}/query", handler.query())
	})
	return r
}

func postQuery(t *testing.T, router http.Handler, table, token string, req database.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/db/"+table+"/query", bytes.NewReader(body))
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httpReq)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestQueryHandler_UnknownTable(t *testing.T) {
	router := newQueryTestRouter(&fakeExecutor{})

	rec, envelope := postQuery(t, router, "users", "", database.Request{Operation: "select"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotNil(t, envelope["error"])
	assert.Nil(t, envelope["data"])
}

func TestQueryHandler_WriteWithoutTokenRejected(t *testing.T) {
	executor := &fakeExecutor{}
	router := newQueryTestRouter(executor)

	for _, op := range []string{"insert", "update", "delete"} {
		rec, envelope := postQuery(t, router, "posts", "", database.Request{Operation: op})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, op)
		assert.NotNil(t, envelope["error"], op)
	}
	assert.Zero(t, executor.lastReq.Operation, "executor must not run for rejected writes")
}

func TestQueryHandler_InvalidTokenRejectedEvenForSelect(t *testing.T) {
	router := newQueryTestRouter(&fakeExecutor{})

	rec, envelope := postQuery(t, router, "posts", "bogus", database.Request{Operation: "select"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Middleware rejections keep the endpoint's {data, error} shape.
	require.Contains(t, envelope, "data")
	assert.Nil(t, envelope["data"])
	assert.NotNil(t, envelope["error"])
	assert.NotContains(t, envelope, "status")
}

func TestQueryHandler_UnauthenticatedSelectRuns(t *testing.T) {
	executor := &fakeExecutor{data: []map[string]any{{"id": "abc", "titulo": "Post"}}}
	router := newQueryTestRouter(executor)

	rec, envelope := postQuery(t, router, "posts", "", database.Request{Operation: "select"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, executor.lastAuthed)
	assert.Equal(t, database.TablePosts, executor.lastTable)
	assert.Nil(t, envelope["error"])

	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	doc := data[0].(map[string]any)
	assert.Equal(t, "abc", doc["id"])
}

func TestQueryHandler_AuthenticatedWriteRuns(t *testing.T) {
	executor := &fakeExecutor{}
	router := newQueryTestRouter(executor)

	rec, envelope := postQuery(t, router, "projetos", "valid-token", database.Request{
		Operation: "insert",
		Payload:   map[string]any{"titulo": "Novo"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, executor.lastAuthed)
	assert.Equal(t, "insert", executor.lastReq.Operation)
	assert.Nil(t, envelope["error"])
}

func TestQueryHandler_TaxonomyErrorsKeepStatus(t *testing.T) {
	executor := &fakeExecutor{err: errs.NewAlreadyExists("post")}
	router := newQueryTestRouter(executor)

	rec, envelope := postQuery(t, router, "posts", "valid-token", database.Request{
		Operation: "insert",
		Payload:   map[string]any{"slug": "dup"},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, envelope["error"], "already exists")
}

func TestQueryHandler_PlainErrorBecomesInternal(t *testing.T) {
	executor := &fakeExecutor{err: errors.New("boom")}
	router := newQueryTestRouter(executor)

	rec, envelope := postQuery(t, router, "posts", "", database.Request{Operation: "select"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", envelope["error"])
}

func TestQueryHandler_MalformedBody(t *testing.T) {
	router := newQueryTestRouter(&fakeExecutor{})

	req := httptest.NewRequest(http.MethodPost, "/api/db/posts/query", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
