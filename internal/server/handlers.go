package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/job-parser/internal/parsing"
	"github.com/jonathan/job-parser/internal/schemas"
)

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	HTML     string `json:"html" validate:"required_without=Identity"`
	Identity string `json:"identity" validate:"omitempty,max=2048"`
}

// DetectRequest is the body of POST /detect.
type DetectRequest struct {
	HTML     string `json:"html" validate:"required"`
	Identity string `json:"identity" validate:"omitempty,max=2048"`
}

// DetectResponse is returned by POST /detect. URLSource is the board named by
// the identity's host and is informational only; Source comes from the markup.
type DetectResponse struct {
	Source    string `json:"source"`
	URLSource string `json:"url_source,omitempty"`
}

// CacheDeleteResponse is returned by DELETE /cache.
type CacheDeleteResponse struct {
	Removed int `json:"removed"`
}

// decodeRequest reads and validates a JSON request body into dst.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: "too large"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validator.Struct(dst); err != nil {
		return fromValidator(err)
	}
	return nil
}

// handleParse extracts a JobPosting from the request markup, or from the
// cache or fetcher when only an identity is supplied.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	posting, err := s.engine.Parse(r.Context(), parsing.Input{
		HTML:     req.HTML,
		Identity: req.Identity,
		Fetcher:  s.fetcher,
	})
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleDetect reports the source kind of the request markup.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	resp := DetectResponse{Source: s.engine.Detect(req.HTML).String()}
	if identity := strings.TrimSpace(req.Identity); identity != "" {
		resp.URLSource = parsing.DetectSourceFromURL(identity).String()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCacheGet returns the cached posting for ?identity=.
func (s *Server) handleCacheGet(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(r.URL.Query().Get("identity"))
	if identity == "" {
		s.errorResponse(w, &ErrValidation{Field: "identity", Message: "required"})
		return
	}
	if s.store == nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "cache disabled"})
		return
	}

	posting, ok, err := s.store.Get(r.Context(), identity)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !ok {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "no cached posting for " + identity})
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleCacheDelete removes one entry when ?identity= is given, otherwise
// clears the whole cache.
func (s *Server) handleCacheDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.jsonResponse(w, http.StatusOK, CacheDeleteResponse{})
		return
	}

	if identity := strings.TrimSpace(r.URL.Query().Get("identity")); identity != "" {
		removed, err := s.store.Delete(r.Context(), identity)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		resp := CacheDeleteResponse{}
		if removed {
			resp.Removed = 1
		}
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	n, err := s.store.Clear(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.logger.Printf("[cache] cleared %d entries", n)
	s.jsonResponse(w, http.StatusOK, CacheDeleteResponse{Removed: n})
}

// handleSchema serves the JobPosting JSON Schema.
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(schemas.JobPostingSchema()))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
