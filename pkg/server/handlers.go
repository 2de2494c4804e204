package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/buildinfo"
	"github.com/matzehuels/vegabundle/pkg/bundle"
	"github.com/matzehuels/vegabundle/pkg/errors"
	"github.com/matzehuels/vegabundle/pkg/pipeline"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

// Request is the body of the POST endpoints.
type Request struct {
	Specs   []bundle.Input `json:"specs"`
	Options RequestOptions `json:"options"`
}

// RequestOptions are the client-controlled pipeline options.
type RequestOptions struct {
	build.Options
	ExcludeSpecs bool `json:"exclude_specs,omitempty"`
	Refresh      bool `json:"refresh,omitempty"`
}

// Response headers describing a pipeline run.
const (
	HeaderCache      = "X-Vegabundle-Cache"
	HeaderModules    = "X-Vegabundle-Modules"
	HeaderSourceHash = "X-Vegabundle-Source-Hash"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Subject string      `json:"subject,omitempty"`
}

type transformsBody struct {
	Version string              `json:"version"`
	Modules []transforms.Module `json:"modules"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleTransforms(w http.ResponseWriter, _ *http.Request) {
	idx := s.Runner.Index
	if idx == nil {
		idx = transforms.Default()
	}
	writeJSON(w, http.StatusOK, transformsBody{Version: transforms.TableVersion, Modules: idx.Modules()})
}

func (s *Server) handleCodegen(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	result, err := s.Runner.Prepare(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(HeaderModules, strconv.Itoa(result.Stats.ModuleCount))
	w.Header().Set(HeaderSourceHash, result.SourceHash)
	writeJS(w, []byte(result.Source))
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheState := "miss"
	if result.CacheInfo.BuildHit {
		cacheState = "hit"
	}
	w.Header().Set(HeaderCache, cacheState)
	w.Header().Set(HeaderModules, strconv.Itoa(result.Stats.ModuleCount))
	w.Header().Set(HeaderSourceHash, result.SourceHash)
	writeJS(w, result.Bundle)
}

// decode reads the request body into pipeline options. On failure it writes
// the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())

	var req Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if stderrors.As(err, new(*http.MaxBytesError)) {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInputTooLarge, err, "request body exceeds %d bytes", s.maxBodyBytes()))
			return pipeline.Options{}, false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return pipeline.Options{}, false
	}

	opts := pipeline.Options{
		Specs:        req.Specs,
		ExcludeSpecs: req.Options.ExcludeSpecs,
		Refresh:      req.Options.Refresh,
		Options:      req.Options.Options,
		Logger:       s.Logger.With("request_id", RequestIDFromContext(r.Context())),
	}
	opts.ResolveDir = s.ResolveDir
	opts.Plugins = s.Plugins
	return opts, true
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnrecognizedTransform:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSpec, errors.ErrCodeInvalidName,
		errors.ErrCodeInvalidFormat, errors.ErrCodeParseFailed:
		return http.StatusBadRequest
	case errors.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeBuildFailed:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err, "request_id", RequestIDFromContext(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg, Subject: errors.GetSubject(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJS(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
