package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/koustreak/ezschema/internal/compiler"
	"github.com/koustreak/ezschema/internal/errs"
)

// maxDocumentSize caps POST /compile bodies.
const maxDocumentSize = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	spec, err := s.Spec()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"error":  err.Error(),
			"kind":   errs.KindOf(err).String(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "models": spec.Len()})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	spec, _ := s.Spec()
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "model")
	spec, _ := s.Spec()

	m, ok := spec.Model(name)
	if !ok {
		writeError(w, http.StatusNotFound, errs.Newf(errs.ErrKindNotFound, "model %s is not defined", name))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errs.Wrap(errs.ErrKindInvalidInput, "document too large", err))
		return
	}

	spec, err := compiler.Compile(string(body))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: errs.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
