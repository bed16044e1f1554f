package httpapi

import (
	"net/http"
	"strings"
	"time"

	"rangkum.app/internal/content"
)

type commentDTO struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	SummaryID  string `json:"summary_id"`
	UserID     string `json:"user_id"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
}

func toCommentDTO(c *content.Comment) commentDTO {
	return commentDTO{
		ID:         c.ID,
		Content:    c.Content,
		SummaryID:  c.SummaryID,
		UserID:     c.UserID,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

// createComment handles POST /api/summaries/{id}/comments.
func (a *API) createComment(w http.ResponseWriter, r *http.Request, summaryID string) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	comment, err := a.content.CreateComment(r.Context(), principal, summaryID, req.Content)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"comment": toCommentDTO(comment)})
}

// handleCommentSubtree routes /api/comments/{...}:
//
//	summary/{summaryId} GET comments of one summary
//	{id}                PUT/DELETE
func (a *API) handleCommentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/comments/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 2 && parts[0] == "summary":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listComments(w, r, parts[1])
	case len(parts) == 1 && parts[0] != "":
		switch r.Method {
		case http.MethodPut:
			a.updateComment(w, r, parts[0])
		case http.MethodDelete:
			a.deleteComment(w, r, parts[0])
		default:
			methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
		}
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request, summaryID string) {
	if _, ok := mustPrincipal(w, r); !ok {
		return
	}
	comments, err := a.content.ListComments(r.Context(), summaryID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dtos := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, toCommentDTO(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": dtos})
}

func (a *API) updateComment(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	comment, err := a.content.UpdateComment(r.Context(), principal, id, req.Content)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": toCommentDTO(comment)})
}

func (a *API) deleteComment(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	if err := a.content.DeleteComment(r.Context(), principal, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
