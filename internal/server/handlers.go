package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/profile"
	"github.com/spigell/formfill/internal/resume"
	"github.com/spigell/formfill/internal/tasks"
	"go.uber.org/zap"
)

// maxUploadSize bounds resume uploads. Resumes are short documents; anything
// bigger is rejected outright.
const maxUploadSize = 10 << 20

// fillTimeout bounds a background fill end to end: resume parsing, schema
// fetch, per-entry AI calls and the submission POST.
const fillTimeout = 5 * time.Minute

type analyzeRequest struct {
	FormURL string `json:"form_url"`
}

func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	p, err := s.parser.Parse(r.Context(), content, filename)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   p.Map(),
	})
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if strings.TrimSpace(req.FormURL) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("form_url is required"))
		return
	}

	info, err := s.filler.Analyze(r.Context(), req.FormURL)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"form_id": info.FormID,
		"fields":  info.Fields,
	})
}

// handleFillForm accepts the form URL and the resume file, registers a task
// and runs the fill in the background. Pollers get the outcome from the task
// registry.
func (s *Server) handleFillForm(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	formURL := strings.TrimSpace(r.FormValue("form_url"))
	if formURL == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("form_url is required"))
		return
	}

	task := s.tasks.Create()
	go s.runFill(task.ID, formURL, content, filename)

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"task_id": task.ID,
		"status":  string(task.Status),
	})
}

func (s *Server) runFill(taskID, formURL string, content []byte, filename string) {
	ctx, cancel := context.WithTimeout(context.Background(), fillTimeout)
	defer cancel()

	s.tasks.SetProgress(taskID, 10)

	p, err := s.parser.Parse(ctx, content, filename)
	if err != nil {
		s.logger.Warn("fill task failed at resume parsing",
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		s.tasks.Fail(taskID, err.Error())
		return
	}

	s.tasks.SetProgress(taskID, 40)

	result, err := s.filler.Fill(ctx, formURL, p)
	if err != nil {
		s.logger.Warn("fill task failed",
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		s.tasks.Fail(taskID, err.Error())
		return
	}

	s.tasks.Complete(taskID, result)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, ok := s.tasks.Get(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("task not found"))
		return
	}

	response := map[string]any{
		"status":   wireStatus(task.Status),
		"progress": task.Progress,
	}

	switch task.Status {
	case tasks.StatusCompleted:
		response["result"] = task.Result
	case tasks.StatusError:
		response["error"] = task.Error
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

// wireStatus maps registry states to the external vocabulary, which has no
// separate pending state.
func wireStatus(status tasks.Status) string {
	if status == tasks.StatusPending {
		return string(tasks.StatusProcessing)
	}

	return string(status)
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid multipart request"))
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("resume file is required"))
		return nil, "", false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("reading resume file"))
		return nil, "", false
	}

	return content, header.Filename, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]any{
		"status": "error",
		"error":  err.Error(),
	})
}

// statusFor maps the error taxonomy to HTTP statuses. Unknown errors stay
// internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gforms.ErrInvalidURL),
		errors.Is(err, profile.ErrInvalidProfile),
		errors.Is(err, resume.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, gforms.ErrFormNotFound):
		return http.StatusNotFound
	case errors.Is(err, gforms.ErrSchemaParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
