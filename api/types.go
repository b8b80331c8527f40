package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler  healthHandler
	authHandler    authHandler
	queryHandler   queryHandler
	storageHandler storageHandler
	commentHandler commentHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"titulo"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// SessionUser is the identity shape returned by login and session.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
