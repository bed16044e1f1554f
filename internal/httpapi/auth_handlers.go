package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rangkum.app/internal/audit"
	"rangkum.app/internal/auth"
	"rangkum.app/internal/avatar"
	"rangkum.app/internal/user"
)

type userDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ClassCode string `json:"class_code"`
	AvatarURL string `json:"avatar_url"`
}

func toUserDTO(u *user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		ClassCode: u.ClassCode,
		AvatarURL: avatar.PublicURL(u.Avatar),
	}
}

func principalDTO(p auth.Principal) userDTO {
	return userDTO{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		ClassCode: p.ClassCode,
		AvatarURL: avatar.PublicURL(p.Avatar),
	}
}

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ClassCode string `json:"class_code"`
}

func (req *registerRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.ClassCode = strings.TrimSpace(req.ClassCode)
	switch {
	case req.Name == "":
		return errors.New("name is required")
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return errors.New("a valid email is required")
	case len(req.Password) < 6:
		return errors.New("password must be at least 6 characters")
	case req.ClassCode == "":
		return errors.New("class_code is required")
	}
	return nil
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	u := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		ClassCode:    req.ClassCode,
	}
	if err := a.users.Create(r.Context(), u); err != nil {
		writeDomainError(w, r, err)
		return
	}

	token, expiresAt, err := a.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"user_id":    u.ID,
		"class_code": u.ClassCode,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"user":       toUserDTO(u),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Lookup misses and password mismatches answer identically so the
	// endpoint cannot be used to probe registered emails.
	u, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		_ = audit.LogEvent(r.Context(), "auth.login.failed", map[string]any{
			"user_id": u.ID,
		})
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := a.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": u.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"user":       toUserDTO(u),
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": principalDTO(principal)})
}

type profileRequest struct {
	Name string `json:"name"`
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if err := a.users.UpdateName(r.Context(), principal.ID, name); err != nil {
		writeDomainError(w, r, err)
		return
	}
	u, err := a.users.Find(r.Context(), principal.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(u)})
}
