package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obrastudio/site-backend/models"
)

type fakeUploadStore struct {
	stored map[string]models.Upload
}

func newFakeUploadStore() *fakeUploadStore {
	return &fakeUploadStore{stored: map[string]models.Upload{}}
}

func (f *fakeUploadStore) Put(_ context.Context, upload models.Upload) error {
	f.stored[upload.Bucket+"/"+upload.Key] = upload
	return nil
}

func (f *fakeUploadStore) Get(_ context.Context, bucket, key string) (*models.Upload, error) {
	if upload, ok := f.stored[bucket+"/"+key]; ok {
		return &upload, nil
	}
	return nil, nil
}

func newStorageTestRouter(store uploadStore, maxBytes int64) http.Handler {
	handler := newStorageHandler(store, maxBytes)
	r := chi.NewRouter()
	r.Post("/api/storage/upload", handler.upload())
	r.Get("/api/storage/public/{bucket}/{key}", handler.publicFetch())
	return r
}

func multipartUpload(t *testing.T, bucket, key, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if bucket != "" {
		require.NoError(t, writer.WriteField("bucket", bucket))
	}
	if key != "" {
		require.NoError(t, writer.WriteField("key", key))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestStorageUploadAndFetchRoundTrip(t *testing.T) {
	store := newFakeUploadStore()
	router := newStorageTestRouter(store, 1024*1024)

	content := []byte("fake image bytes")
	body, contentType := multipartUpload(t, "imagens", "capa.png", "capa.png", content)

	req := httptest.NewRequest(http.MethodPost, "/api/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "imagens/capa.png", envelope.Data.Path)

	fetch := httptest.NewRequest(http.MethodGet, "/api/storage/public/imagens/capa.png", nil)
	fetchRec := httptest.NewRecorder()
	router.ServeHTTP(fetchRec, fetch)

	require.Equal(t, http.StatusOK, fetchRec.Code)
	assert.Equal(t, content, fetchRec.Body.Bytes())
}

func TestStorageUpload_MissingBucket(t *testing.T) {
	router := newStorageTestRouter(newFakeUploadStore(), 1024*1024)

	body, contentType := multipartUpload(t, "", "capa.png", "capa.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageUpload_GeneratesKeyWhenMissing(t *testing.T) {
	store := newFakeUploadStore()
	router := newStorageTestRouter(store, 1024*1024)

	body, contentType := multipartUpload(t, "imagens", "", "foto.jpg", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.stored, 1)
	for path := range store.stored {
		assert.Contains(t, path, "imagens/")
		assert.Contains(t, path, ".jpg", "generated key keeps the original extension")
	}
}

func TestStorageUpload_TooLarge(t *testing.T) {
	router := newStorageTestRouter(newFakeUploadStore(), 64)

	body, contentType := multipartUpload(t, "imagens", "big.bin", "big.bin", bytes.Repeat([]byte("a"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestStorageFetch_NotFound(t *testing.T) {
	router := newStorageTestRouter(newFakeUploadStore(), 1024)

	req := httptest.NewRequest(http.MethodGet, "/api/storage/public/imagens/nope.png", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
