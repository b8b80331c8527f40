package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obrastudio/site-backend/errs"
	"github.com/obrastudio/site-backend/models"
)

// uploadStore is the slice of the upload repository the handler needs.
type uploadStore interface {
	Put(ctx context.Context, upload models.Upload) error
	Get(ctx context.Context, bucket, key string) (*models.Upload, error)
}

type storageHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploads   uploadStore
	maxBytes  int64
}

func newStorageHandler(uploads uploadStore, maxBytes int64) storageHandler {
	logger := log.With().Str("handlerName", "storageHandler").Logger()
	return storageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploads:   uploads,
		maxBytes:  maxBytes,
	}
}

// upload stores a binary payload under bucket/key
// @Summary Upload a file
// @Description Accepts a multipart form with bucket, key and file; the payload is bounded by the configured maximum size
// @Tags Storage
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} queryEnvelope "Stored path"
// @Failure 400 {object} ErrorResponse "Bad Request - missing bucket or file"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 413 {object} ErrorResponse "Payload too large"
// @Router /api/storage/upload [post]
func (h storageHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxBytes))
				return
			}
			h.responder.WriteError(w, errs.Malformed("multipart form"))
			return
		}

		bucket := r.FormValue("bucket")
		if bucket == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("bucket"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("reading upload", err))
			return
		}

		key := r.FormValue("key")
		if key == "" {
			key = uuid.NewString() + path.Ext(header.Filename)
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		upload := models.Upload{
			Bucket:      bucket,
			Key:         key,
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
			CreatedAt:   time.Now().UTC(),
		}

		if err := h.uploads.Put(r.Context(), upload); err != nil {
			h.responder.WriteError(w, errs.NewStoreError("store", "upload", err))
			return
		}

		h.responder.WriteQueryData(w, map[string]string{"path": upload.Path()})
	}
}

// publicFetch serves stored bytes with their original content type
// @Summary Fetch a stored file
// @Description Returns the raw bytes stored under bucket/key; public, no auth
// @Tags Storage
// @Produce octet-stream
// @Success 200 {file} binary "File contents"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/storage/public/{bucket}/{key} [get]
func (h storageHandler) publicFetch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket := chi.URLParam(r, "bucket")
		key := chi.URLParam(r, "key")

		upload, err := h.uploads.Get(r.Context(), bucket, key)
		if err != nil {
			h.responder.WriteError(w, errs.NewStoreError("fetch", "upload", err))
			return
		}
		if upload == nil {
			h.responder.WriteError(w, errs.NewNotFound("upload"))
			return
		}

		w.Header().Set("Content-Type", upload.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := w.Write(upload.Data); err != nil {
			h.logger.Error().Err(err).Msg("error writing upload bytes")
		}
	}
}
