package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obrastudio/site-backend/errs"
	"github.com/obrastudio/site-backend/models"
	"github.com/obrastudio/site-backend/services"
)

// authenticator is the slice of the auth service the handler needs.
type authenticator interface {
	Login(ctx context.Context, email, password string) (string, *models.AdminUser, error)
	SessionUser(ctx context.Context, claims *services.TokenClaims) (*models.AdminUser, error)
}

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      authenticator
}

func newAuthHandler(auth authenticator) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// login exchanges admin credentials for a signed, time-limited token
// @Summary Log in
// @Description Validates email and password against the stored hash and returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse "Token and identity"
// @Failure 400 {object} ErrorResponse "Bad Request - missing email or password"
// @Failure 401 {object} ErrorResponse "Unauthorized - invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, loginResponse{
			Token: token,
			User:  SessionUser{ID: user.ID.Hex(), Email: user.Email},
		})
	}
}

// session introspects the presented token
// @Summary Get session
// @Description Returns the identity behind the bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]SessionUser "Current user"
// @Failure 401 {object} ErrorResponse "Unauthorized - missing or invalid token"
// @Router /api/auth/session [get]
func (h authHandler) session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxClaims(r.Context())
		if claims == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		user, err := h.auth.SessionUser(r.Context(), claims)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]SessionUser{
			"user": {ID: user.ID.Hex(), Email: user.Email},
		})
	}
}
