package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obrastudio/site-backend/database"
	"github.com/obrastudio/site-backend/errs"
)

// queryExecutor is the slice of the store the handler needs; tests fake it.
type queryExecutor interface {
	ExecuteQuery(ctx context.Context, table database.Table, req database.Request, authed bool) (any, error)
}

type queryHandler struct {
	responder Responder
	logger    zerolog.Logger
	executor  queryExecutor
}

func newQueryHandler(executor queryExecutor) queryHandler {
	logger := log.With().Str("handlerName", "queryHandler").Logger()
	return queryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		executor:  executor,
	}
}

// query executes a declarative query against an allow-listed table
// @Summary Run a declarative query
// @Description Translates the JSON query descriptor into a document-store operation. Writes require a bearer token; unauthenticated selects on public tables are row-filtered.
// @Tags Query
// @Accept json
// @Produce json
// @Param table path string true "Table name" Enums(projetos, projeto_galeria, posts, autores, depoimentos)
// @Success 200 {object} queryEnvelope "Normalized result set"
// @Failure 400 {object} queryEnvelope "Bad Request - malformed descriptor"
// @Failure 401 {object} queryEnvelope "Unauthorized - write without valid token"
// @Failure 404 {object} queryEnvelope "Not Found - table outside the allow-list"
// @Failure 409 {object} queryEnvelope "Conflict - uniqueness violation"
// @Router /api/db/{table}/query [post]
func (h queryHandler) query() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := database.ParseTable(chi.URLParam(r, "table"))
		if err != nil {
			h.responder.WriteQueryError(w, err)
			return
		}

		var req database.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteQueryError(w, errs.NewInvalidJSONError(err))
			return
		}

		authed := ctxClaims(r.Context()) != nil
		if req.Operation != string(database.OpSelect) && !authed {
			h.responder.WriteQueryError(w, errs.Unauthorized)
			return
		}

		data, err := h.executor.ExecuteQuery(r.Context(), table, req, authed)
		if err != nil {
			if errs.StatusOf(err) >= http.StatusInternalServerError {
				h.logger.Error().
					Str("table", table.String()).
					Str("operation", req.Operation).
					Interface("filters", req.Filters).
					Interface("payload", req.Payload).
					Err(err).
					Msg("query execution failed")
			}
			h.responder.WriteQueryError(w, err)
			return
		}

		h.responder.WriteQueryData(w, data)
	}
}
