package httpapi

import (
	"net/http"
	"strings"
	"time"

	"rangkum.app/internal/notify"
)

type notificationDTO struct {
	ID           string `json:"id"`
	SummaryID    string `json:"summary_id,omitempty"`
	CommentID    string `json:"comment_id,omitempty"`
	Type         string `json:"type"`
	Message      string `json:"message"`
	Read         bool   `json:"read"`
	SummaryTitle string `json:"summary_title"`
	SenderName   string `json:"sender_name"`
	CreatedAt    string `json:"created_at"`
}

func toNotificationDTO(n *notify.Notification) notificationDTO {
	return notificationDTO{
		ID:           n.ID,
		SummaryID:    n.SummaryID,
		CommentID:    n.CommentID,
		Type:         n.Type,
		Message:      n.Message,
		Read:         n.Read,
		SummaryTitle: n.SummaryTitle,
		SenderName:   n.SenderName,
		CreatedAt:    n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *API) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	list, err := a.notifications.ListByRecipient(r.Context(), principal.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dtos := make([]notificationDTO, 0, len(list))
	for _, n := range list {
		dtos = append(dtos, toNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": dtos})
}

// handleNotificationSubtree routes /api/notifications/{...}:
//
//	unread/count GET
//	{id}/read    PUT
//	read-all     PUT
func (a *API) handleNotificationSubtree(w http.ResponseWriter, r *http.Request) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 2 && parts[0] == "unread" && parts[1] == "count":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		count, err := a.notifications.UnreadCount(r.Context(), principal.ID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": count})
	case len(parts) == 1 && parts[0] == "read-all":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		if err := a.notifications.MarkAllRead(r.Context(), principal.ID); err != nil {
			writeDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "read":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		if err := a.notifications.MarkRead(r.Context(), parts[0], principal.ID); err != nil {
			writeDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}
