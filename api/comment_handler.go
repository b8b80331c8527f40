package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obrastudio/site-backend/errs"
	"github.com/obrastudio/site-backend/models"
)

// commentStore is the slice of the comment repository the handler needs.
type commentStore interface {
	ApprovedForSlug(ctx context.Context, slug string) ([]models.Comment, error)
	FindAll(ctx context.Context) ([]models.Comment, error)
	Add(ctx context.Context, comment *models.Comment) error
	Approve(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	comments  commentStore
}

func newCommentHandler(comments commentStore) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()
	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		comments:  comments,
	}
}

// listApproved returns the approved comments of a post, oldest first.
func (h commentHandler) listApproved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		comments, err := h.comments.ApprovedForSlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, errs.NewStoreError("list", "comments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"comments": comments})
	}
}

type createCommentRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Conteudo string `json:"conteudo"`
	ParentID string `json:"parent_id"`
}

// create stores a new comment; it stays invisible until approved.
func (h commentHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		var req createCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if strings.TrimSpace(req.Nome) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("nome"))
			return
		}
		if strings.TrimSpace(req.Conteudo) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("conteudo"))
			return
		}

		comment := models.Comment{
			PostSlug: slug,
			Nome:     strings.TrimSpace(req.Nome),
			Email:    strings.TrimSpace(req.Email),
			Conteudo: req.Conteudo,
			ParentID: req.ParentID,
		}

		if err := h.comments.Add(r.Context(), &comment); err != nil {
			h.responder.WriteError(w, errs.NewStoreError("create", "comment", err))
			return
		}

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, comment)
	}
}

// listAll returns every comment for the moderation screen.
func (h commentHandler) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := h.comments.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewStoreError("list", "comments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"comments": comments})
	}
}

// approve flips the moderation flag on a comment.
func (h commentHandler) approve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "commentID")

		matched, err := h.comments.Approve(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStoreError("approve", "comment", err))
			return
		}
		if matched == 0 {
			h.responder.WriteError(w, errs.NewNotFound("comment"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"approved": true})
	}
}

// delete removes a comment.
func (h commentHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "commentID")

		deleted, err := h.comments.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStoreError("delete", "comment", err))
			return
		}
		if deleted == 0 {
			h.responder.WriteError(w, errs.NewNotFound("comment"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"deleted": true})
	}
}
