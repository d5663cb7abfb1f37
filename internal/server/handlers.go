package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/storage"
)

// userFromRequest returns the authenticated user, writing 401 when absent
func (s *Server) userFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID returns the caller and the {id} path parameter
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		errorResponse(w, s.logger, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// respond writes v with status, or the error
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	jsonResponse(w, status, v)
}

// Resumes

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	var in pipeline.UploadResumeInput
	if err := decodeAndValidate(r, s.validator, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	resume, err := s.pipeline.UploadResume(r.Context(), userID, in)
	s.respond(w, r, http.StatusCreated, resume, err)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	resumes, err := s.pipeline.ListResumes(r.Context(), userID)
	s.respond(w, r, http.StatusOK, resumes, err)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	resume, err := s.pipeline.GetResume(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, resume, err)
}

// Jobs

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	var in pipeline.CreateJobInput
	if err := decodeAndValidate(r, s.validator, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	job, err := s.pipeline.CreateJob(r.Context(), userID, in)
	s.respond(w, r, http.StatusCreated, job, err)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	jobs, err := s.pipeline.ListJobs(r.Context(), userID)
	s.respond(w, r, http.StatusOK, jobs, err)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	job, err := s.pipeline.GetJob(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, job, err)
}

// Customizations

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	var in pipeline.UploadPhotoInput
	if err := decodeAndValidate(r, s.validator, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	obj, err := s.pipeline.UploadPhoto(r.Context(), userID, in)
	if err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]string{"key": obj.Key, "url": obj.URL})
}

func (s *Server) handleCreateCustomization(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	var in pipeline.CreateCustomizationInput
	if err := decodeAndValidate(r, s.validator, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	c, err := s.pipeline.CreateCustomization(r.Context(), userID, in)
	s.respond(w, r, http.StatusCreated, c, err)
}

func (s *Server) handleListCustomizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	list, err := s.pipeline.ListCustomizations(r.Context(), userID)
	s.respond(w, r, http.StatusOK, list, err)
}

// handleLookupCustomization returns the newest customization of a resume and job, or null
func (s *Server) handleLookupCustomization(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resumeID, err := parseUUID("resume_id", query.Get("resume_id"))
	if err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	jobID, err := parseUUID("job_id", query.Get("job_id"))
	if err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	c, err := s.pipeline.GetCustomizationByResumeAndJob(r.Context(), userID, resumeID, jobID)
	s.respond(w, r, http.StatusOK, c, err)
}

func (s *Server) handleGetCustomization(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	c, err := s.pipeline.GetCustomization(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, c, err)
}

func (s *Server) handleDeleteCustomization(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	err := s.pipeline.DeleteCustomization(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, map[string]bool{"success": true}, err)
}

func (s *Server) handleGenerateFiles(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	files, err := s.pipeline.GenerateFiles(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, files, err)
}

func (s *Server) handleAnalyzeATS(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	analysis, err := s.pipeline.AnalyzeATS(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, analysis, err)
}

func (s *Server) handleSafeOptimizations(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	optimized, err := s.pipeline.SafeOptimizations(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, map[string]string{"optimized_resume": optimized}, err)
}

func (s *Server) handleBatchOptimize(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	var in pipeline.BatchOptimizeInput
	if err := decodeJSON(r, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	// Job count is checked by the pipeline so clients get its message
	result, err := s.pipeline.BatchOptimize(r.Context(), userID, in)
	s.respond(w, r, http.StatusOK, result, err)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.pipeline.ListTemplates())
}

// Applications

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	var in pipeline.CreateApplicationInput
	if err := decodeAndValidate(r, s.validator, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	app, err := s.pipeline.CreateApplication(r.Context(), userID, in)
	s.respond(w, r, http.StatusCreated, app, err)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	apps, err := s.pipeline.ListApplications(r.Context(), userID)
	s.respond(w, r, http.StatusOK, apps, err)
}

func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	stats, err := s.pipeline.ApplicationStats(r.Context(), userID)
	s.respond(w, r, http.StatusOK, stats, err)
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var in pipeline.UpdateApplicationStatusInput
	if err := decodeAndValidate(r, s.validator, &in); err != nil {
		errorResponse(w, s.logger, r, err)
		return
	}
	in.ApplicationID = id
	app, err := s.pipeline.UpdateApplicationStatus(r.Context(), userID, in)
	s.respond(w, r, http.StatusOK, app, err)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	err := s.pipeline.DeleteApplication(r.Context(), userID, id)
	s.respond(w, r, http.StatusOK, map[string]bool{"success": true}, err)
}

// Files

// handleFile serves a stored upload or generated document by key
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := storage.ValidateKey(key); err != nil {
		jsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	data, mimeType, err := s.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonResponse(w, http.StatusNotFound, map[string]string{"error": "file not found"})
			return
		}
		errorResponse(w, s.logger, r, err)
		return
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
