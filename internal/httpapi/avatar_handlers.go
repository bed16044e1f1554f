package httpapi

import (
	"net/http"
	"path/filepath"
	"strings"

	"rangkum.app/internal/audit"
)

const maxAvatarBytes = 2 << 20

var avatarExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

func (a *API) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart form with an avatar file is required")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !avatarExts[ext] {
		writeError(w, r, http.StatusBadRequest, "avatar must be a png, jpg, jpeg, gif or webp image")
		return
	}

	url, err := a.avatars.Replace(r.Context(), principal.ID, file, header.Filename)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "avatar.replaced", map[string]any{
		"user_id": principal.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"avatar_url": url})
}
