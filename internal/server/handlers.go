package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/report"
	"github.com/claude/studentup/internal/roster"
)

type createStudentRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Category models.Category `json:"category" validate:"required,oneof=workout swimming boxing other"`
}

type statsRequest struct {
	Height    float64 `json:"height" validate:"gte=0,lte=300"`
	Weight    float64 `json:"weight" validate:"gte=0,lte=500"`
	BodyFat   float64 `json:"bodyFat" validate:"gte=0,lte=100"`
	Injuries  string  `json:"injuries" validate:"max=500"`
	Goals     string  `json:"goals" validate:"max=500"`
	UpdatedAt string  `json:"updatedAt"`
}

type sessionRequest struct {
	Exercises     []models.ExerciseRecord `json:"exercises" validate:"max=100"`
	CoachNotes    string                  `json:"coachNotes" validate:"max=5000"`
	RecordedStats *models.RecordedStats   `json:"recordedStats"`
}

func (req sessionRequest) draft() category.Draft {
	return category.Draft{Exercises: req.Exercises, CoachNotes: req.CoachNotes, RecordedStats: req.RecordedStats}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, category.Catalog())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	c := models.Category(r.URL.Query().Get("category"))
	if c != "" && !c.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category: " + string(c)})
		return
	}
	writeJSON(w, http.StatusOK, s.store.Students(c))
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Student(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if !s.decode(w, r, &req) {
		return
	}
	st, err := s.store.CreateStudent(r.Context(), req.Name, req.Category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleUpdateStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if !s.decode(w, r, &req) {
		return
	}
	st, err := s.store.UpdateStats(r.Context(), chi.URLParam(r, "id"), models.StudentStats(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteStudent(r.Context(), chi.URLParam(r, "id"), confirmFromQuery(r))
	s.writeDeleteResult(w, deleted, err, roster.DeleteStudentPrompt)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ws, err := s.store.Sessions(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.store.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !s.decode(w, r, &req) {
		return
	}
	ws, err := s.store.LogSession(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (s *Server) handleEditSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !s.decode(w, r, &req) {
		return
	}
	ws, err := s.store.EditSession(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteSession(r.Context(), chi.URLParam(r, "id"), confirmFromQuery(r))
	s.writeDeleteResult(w, deleted, err, roster.DeleteSessionPrompt)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Progress(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.store.Student(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sessions, err := s.store.Sessions(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	progress, err := s.store.Progress(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.deps.Reports.Write(&buf, report.Input{Student: st, Sessions: sessions, Progress: progress}); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

const maxImportBytes = 10 << 20

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := s.deps.Importer.Import(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// confirmFromQuery agrees to a destructive operation only when the request
// carries confirm=true.
func confirmFromQuery(r *http.Request) roster.ConfirmFunc {
	ok := r.URL.Query().Get("confirm") == "true"
	return func(string) bool { return ok }
}

func (s *Server) writeDeleteResult(w http.ResponseWriter, deleted bool, err error, prompt string) {
	switch {
	case err != nil:
		s.writeError(w, err)
	case !deleted:
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"error":  "confirmation required: repeat with ?confirm=true",
			"prompt": prompt,
		})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// decode reads a JSON body into v and validates it. It writes a 400 and
// returns false when either step fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request: " + verrs.Error()})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

// writeError maps roster errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
	case errors.Is(err, roster.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, roster.ErrEmptySession):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, roster.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
