package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/pkg/logger"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Page is the envelope payload for list endpoints.
type Page struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	PerPage int         `json:"per_page"`
	Page    int         `json:"page"`
}

// BaseHandler provides common functionality for HTTP handlers.
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in the standard success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// HandleServiceError maps an error returned by a service onto the response
// envelope. AppErrors carry their own status and field details; anything
// else is an internal error and the cause stays out of the body.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		env := Envelope{Success: false, Message: appErr.Message, Error: string(appErr.Code)}
		if appErr.Details != nil {
			env.Errors = appErr.Details
		}
		if appErr.Cause != nil {
			h.Logger.Error("service error", "code", appErr.Code, "error", appErr.Cause)
		} else {
			h.Logger.Warn("service error", "code", appErr.Code, "message", appErr.Message)
		}
		h.WriteJSON(w, appErr.StatusCode, env)
		return
	}

	h.Logger.Error("unexpected service error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// ExtractTokenFromHeader extracts the Bearer token from the Authorization
// header, returning "" when absent or malformed.
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Pagination reads page/per_page query params, clamping to sane bounds.
func (h *BaseHandler) Pagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = DefaultPerPage

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if pp, err := strconv.Atoi(v); err == nil && pp > 0 && pp <= MaxPerPage {
			perPage = pp
		}
	}
	return page, perPage
}
