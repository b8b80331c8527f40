package api

import (
	"time"

	"github.com/obrastudio/site-backend/database"
	"github.com/obrastudio/site-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(store *database.Store, auth *services.AuthService, startupTime time.Time, maxUploadBytes int64) *routeHandlers {
	return &routeHandlers{
		healthHandler:  newHealthHandler(startupTime),
		authHandler:    newAuthHandler(auth),
		queryHandler:   newQueryHandler(store),
		storageHandler: newStorageHandler(store.UploadRepo(), maxUploadBytes),
		commentHandler: newCommentHandler(store.CommentRepo()),
	}
}
