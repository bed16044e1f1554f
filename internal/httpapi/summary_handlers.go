package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rangkum.app/internal/audit"
	"rangkum.app/internal/content"
)

const maxUploadBytes = 5 << 20

var uploadExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".txt":  true,
}

type summaryDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Course        string `json:"course"`
	MeetingNumber int    `json:"meeting_number"`
	Description   string `json:"description"`
	FileURL       string `json:"file_url,omitempty"`
	UserID        string `json:"user_id"`
	AuthorName    string `json:"author_name"`
	ClassCode     string `json:"class_code"`
	CreatedAt     string `json:"created_at"`
}

func toSummaryDTO(s *content.Summary) summaryDTO {
	dto := summaryDTO{
		ID:            s.ID,
		Title:         s.Title,
		Course:        s.Course,
		MeetingNumber: s.MeetingNumber,
		Description:   s.Description,
		UserID:        s.UserID,
		AuthorName:    s.AuthorName,
		ClassCode:     s.ClassCode,
		CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.FilePath != "" {
		dto.FileURL = path.Join("/uploads", s.FilePath)
	}
	return dto
}

func (a *API) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.createSummary(w, r)
}

// handleSummarySubtree routes /api/summaries/{...}:
//
//	class/{classCode}   GET list with filters
//	courses/{classCode} GET distinct courses
//	{id}                GET/PUT/DELETE
//	{id}/comments       POST
func (a *API) handleSummarySubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/summaries/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 2 && parts[0] == "class":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listSummaries(w, r, parts[1])
	case len(parts) == 2 && parts[0] == "courses":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listCourses(w, r, parts[1])
	case len(parts) == 2 && parts[1] == "comments":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.createComment(w, r, parts[0])
	case len(parts) == 1 && parts[0] != "":
		switch r.Method {
		case http.MethodGet:
			a.getSummary(w, r, parts[0])
		case http.MethodPut:
			a.updateSummary(w, r, parts[0])
		case http.MethodDelete:
			a.deleteSummary(w, r, parts[0])
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) createSummary(w http.ResponseWriter, r *http.Request) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart form is required")
		return
	}

	meeting, _ := strconv.Atoi(r.FormValue("meeting_number"))
	in := content.SummaryInput{
		Title:         r.FormValue("title"),
		Course:        r.FormValue("course"),
		MeetingNumber: meeting,
		Description:   r.FormValue("description"),
	}

	var storedName string
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		storedName, err = a.storeUpload(file, header)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		in.FilePath = storedName
	}

	sum, err := a.content.CreateSummary(r.Context(), principal, in)
	if err != nil {
		if storedName != "" {
			_ = os.Remove(filepath.Join(a.uploadDir, storedName))
		}
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "summary.created", map[string]any{
		"summary_id": sum.ID,
		"class_code": sum.ClassCode,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"summary": toSummaryDTO(sum)})
}

// storeUpload validates the attachment extension and writes it under a fresh
// name that is never reused.
func (a *API) storeUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !uploadExts[ext] {
		return "", errInvalidUpload
	}
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(a.uploadDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

var errInvalidUpload = errors.New("attachment must be a pdf, doc, docx, ppt, pptx or txt file")

func (a *API) listSummaries(w http.ResponseWriter, r *http.Request, classCode string) {
	if _, ok := mustPrincipal(w, r); !ok {
		return
	}
	q := r.URL.Query()
	filter := content.ListFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Course: strings.TrimSpace(q.Get("course")),
		SortBy: strings.TrimSpace(q.Get("sortBy")),
	}
	sums, err := a.content.ListSummaries(r.Context(), classCode, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dtos := make([]summaryDTO, 0, len(sums))
	for _, s := range sums {
		dtos = append(dtos, toSummaryDTO(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"summaries": dtos})
}

func (a *API) listCourses(w http.ResponseWriter, r *http.Request, classCode string) {
	if _, ok := mustPrincipal(w, r); !ok {
		return
	}
	courses, err := a.content.ListCourses(r.Context(), classCode)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if courses == nil {
		courses = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func (a *API) getSummary(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := mustPrincipal(w, r); !ok {
		return
	}
	sum, err := a.content.GetSummary(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": toSummaryDTO(sum)})
}

type summaryUpdateRequest struct {
	Title         string `json:"title"`
	Course        string `json:"course"`
	MeetingNumber int    `json:"meeting_number"`
	Description   string `json:"description"`
}

func (a *API) updateSummary(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	var req summaryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := a.content.UpdateSummary(r.Context(), principal, id, content.SummaryInput{
		Title:         req.Title,
		Course:        req.Course,
		MeetingNumber: req.MeetingNumber,
		Description:   req.Description,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": toSummaryDTO(sum)})
}

func (a *API) deleteSummary(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	sum, err := a.content.GetSummary(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := a.content.DeleteSummary(r.Context(), principal, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	// Attachment cleanup mirrors avatar lifecycle: the record delete has
	// committed, a leftover file is logged and tolerated.
	if sum.FilePath != "" {
		if err := os.Remove(filepath.Join(a.uploadDir, sum.FilePath)); err != nil && !os.IsNotExist(err) {
			_ = audit.LogEvent(r.Context(), "upload.cleanup.failed", map[string]any{
				"summary_id": id,
				"file":       sum.FilePath,
				"error":      err.Error(),
			})
		}
	}
	_ = audit.LogEvent(r.Context(), "summary.deleted", map[string]any{
		"summary_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}
