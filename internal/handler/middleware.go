package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"spec-summarizer/internal/domain"
)

// SessionMiddleware loads the caller's session from its cookie, starting a
// new one when the cookie is missing or the session has expired.
func SessionMiddleware(sessions domain.SessionStore, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *domain.Session
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sess, err = sessions.Get(cookie.Value)
				if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
					logger.Error("Failed to load session", err)
					writeError(w, http.StatusInternalServerError, "Session could not be loaded")
					return
				}
			}

			if sess == nil {
				created, err := sessions.Create()
				if err != nil {
					logger.Error("Failed to create session", err)
					writeError(w, http.StatusInternalServerError, "Session could not be created")
					return
				}
				sess = created
				setSessionCookie(w, r, sess.ID)
				logger.Debug("Session started", "session_id", sess.ID)
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request.
func RequestLogger(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
