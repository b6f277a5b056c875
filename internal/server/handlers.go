package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/integrity/internal/analytics"
	"github.com/hyperjump/integrity/internal/config"
	"github.com/hyperjump/integrity/internal/extract"
	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/pipeline"
	"github.com/hyperjump/integrity/internal/report"
	"github.com/hyperjump/integrity/internal/session"
	"go.uber.org/zap"
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves {sid} and renders 404 for unknown sessions.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.Get(chi.URLParam(r, "sid"))
		if !ok {
			s.respondError(w, http.StatusNotFound, "session not found")
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type serviceHealthResponse struct {
	Online bool                   `json:"online"`
	Health *models.HealthResponse `json:"health,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func (s *Server) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	if s.monitor != nil {
		st := s.monitor.Probe(r.Context())
		resp := serviceHealthResponse{Online: st.Online, Health: st.Health}
		if !st.Online {
			resp.Error = "Backend service unavailable"
		}
		s.respondJSON(w, http.StatusOK, resp)
		return
	}
	h, err := s.service.Health(r.Context())
	if err != nil {
		s.logger.Warn("detection service unavailable", zap.Error(err))
		s.respondJSON(w, http.StatusOK, serviceHealthResponse{Online: false, Error: "Backend service unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, serviceHealthResponse{Online: true, Health: h})
}

func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		s.respondError(w, http.StatusNotImplemented, "health monitor not enabled")
		return
	}
	st, ok := s.monitor.Status()
	if !ok {
		s.respondError(w, http.StatusServiceUnavailable, "no health probe has completed yet")
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleServiceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRebuildIndex(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.RebuildIndex(r.Context())
	if err != nil {
		s.logger.Error("rebuild index failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.logger.Error("create session failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"session_id": sess.ID, "created": sess.Created})
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if sid == s.intakeSession && s.intake != nil {
		s.respondError(w, http.StatusConflict, "intake session cannot be discarded")
		return
	}
	if !s.sessions.Discard(sid) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

type submissionResponse struct {
	Record *models.AnalysisRecord `json:"record"`
	Report *report.Document       `json:"report"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sub, err := s.readSubmission(w, r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("submission request", zap.String("session", sess.ID), zap.Bool("file", sub.IsFile()), zap.String("filename", sub.Filename))
	out, err := sess.Submit(r.Context(), sub)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, pipeline.ErrEmptySubmission) {
			status = http.StatusBadRequest
		}
		resp := map[string]string{"error": err.Error()}
		if out != nil && out.Record != nil {
			resp["id"] = out.Record.ID
			resp["status"] = string(out.Record.Status)
		}
		s.respondJSON(w, status, resp)
		return
	}
	doc, err := report.BuildDocument(out.Record, ReportOptions(s.cfg))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, submissionResponse{Record: out.Record, Report: doc})
}

// readSubmission accepts a multipart "file" field or a JSON {"text": ...} body.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (pipeline.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, extract.DefaultMaxBytes+1<<20)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(extract.DefaultMaxBytes); err != nil {
			return pipeline.Submission{}, errors.New("invalid multipart body")
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return pipeline.Submission{}, errors.New("file field is required")
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return pipeline.Submission{}, errors.New("failed to read file")
		}
		return pipeline.Submission{Filename: filepath.Base(hdr.Filename), Content: content}, nil
	}
	var body models.PasteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return pipeline.Submission{}, errors.New("invalid request body")
	}
	return pipeline.Submission{Text: body.Text}, nil
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, sess.Progress())
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports":  sess.History().List(),
		"capacity": sess.History().Capacity(),
	})
}

func (s *Server) handleClearReports(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.ClearHistory(); err != nil {
		s.logger.Warn("clear report index failed", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) document(w http.ResponseWriter, rec *models.AnalysisRecord, ok bool) (*report.Document, bool) {
	if !ok {
		s.respondError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	doc, err := report.BuildDocument(rec, ReportOptions(s.cfg))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	rec, ok := sess.History().GetByID(chi.URLParam(r, "id"))
	if doc, ok := s.document(w, rec, ok); ok {
		s.respondJSON(w, http.StatusOK, doc)
	}
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	rec, ok := sess.History().GetByID(chi.URLParam(r, "id"))
	doc, ok := s.document(w, rec, ok)
	if !ok {
		return
	}
	displayID, err := strconv.Atoi(chi.URLParam(r, "displayID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	detail, ok := doc.Source(displayID)
	if !ok {
		s.respondError(w, http.StatusNotFound, "source not found")
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	rec := sess.History().Current()
	if rec == nil {
		s.respondError(w, http.StatusNotFound, "no current analysis")
		return
	}
	if doc, ok := s.document(w, rec, true); ok {
		s.respondJSON(w, http.StatusOK, doc)
	}
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, analytics.Compute(sess.History().List(), AnalyticsOptions(s.cfg)))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, analytics.BuildDashboard(sess.History().List(), AnalyticsOptions(s.cfg)))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := sess.Search(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("report search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": q, "reports": recs})
}

func (s *Server) handleIntakeList(w http.ResponseWriter, r *http.Request) {
	if s.intake == nil {
		s.respondError(w, http.StatusNotImplemented, "intake not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"directories": s.intake.Directories(),
		"session_id":  s.intakeSession,
	})
}

func (s *Server) handleIntakeAdd(w http.ResponseWriter, r *http.Request) {
	if s.intake == nil {
		s.respondError(w, http.StatusNotImplemented, "intake not enabled")
		return
	}
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	if err := s.intake.AddDirectory(abs); err != nil {
		s.logger.Error("intake add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistIntake()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleIntakeRemove(w http.ResponseWriter, r *http.Request) {
	if s.intake == nil {
		s.respondError(w, http.StatusNotImplemented, "intake not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if err := s.intake.RemoveDirectory(abs); err != nil {
		s.logger.Error("intake remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistIntake()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistIntake() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.cfg.Intake.Directories = s.intake.Directories()
	if err := config.Save(s.configPath, s.cfg); err != nil {
		s.logger.Warn("failed to persist intake config", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
