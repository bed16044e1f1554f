package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rangkum.app/internal/auth"
	"rangkum.app/internal/content"
	"rangkum.app/internal/notify"
	"rangkum.app/internal/user"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	body := map[string]any{"error": msg}
	if rid := requestIDFrom(r); rid != "" {
		body["request_id"] = rid
	}
	writeJSON(w, code, body)
}

// writeDomainError maps sentinel errors from the domain packages onto HTTP
// status codes. Anything unrecognized is a 500 with no internals leaked.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrInvalidInput), errors.Is(err, user.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, trimSentinel(err.Error()))
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, content.ErrNotFound), errors.Is(err, user.ErrNotFound), errors.Is(err, notify.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, "email already registered")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// trimSentinel drops the "pkg:" prefix from sentinel-wrapped messages so
// clients see "invalid input: title is required" instead of package paths.
func trimSentinel(msg string) string {
	if i := strings.Index(msg, ": "); i > 0 && !strings.ContainsAny(msg[:i], " ") {
		return msg[i+2:]
	}
	return msg
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func requestIDFrom(r *http.Request) string {
	if r == nil {
		return ""
	}
	if rid := r.Header.Get(requestIDHeader); rid != "" {
		return rid
	}
	return ""
}
