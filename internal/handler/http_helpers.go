package handler

import (
	"encoding/json"
	"net/http"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie that carries the session id.
const SessionCookieName = "spec_session"

// GetSessionFromContext extracts the request's session loaded by SessionMiddleware
func GetSessionFromContext(r *http.Request) (*domain.Session, bool) {
	sess, ok := r.Context().Value(sessionContextKey).(*domain.Session)
	return sess, ok
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError writes err with its mapped status. Only the user-facing
// message leaves the process; causes stay in the logs.
func writeAppError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": apperrors.UserMessage(err)}
	if appErr, ok := apperrors.As(err); ok {
		body["type"] = string(appErr.Type)
		if appErr.Kind != "" {
			body["kind"] = string(appErr.Kind)
		}
	}
	writeJSON(w, apperrors.GetStatusCode(err), body)
}
