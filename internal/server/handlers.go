// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/ledger"
	"github.com/pdiddy/content-extract/pkg/types"
)

const maxBodyBytes = 1 << 20

type adaptersResponse struct {
	Primary   []extractor.Entry `json:"primary"`
	Resources []extractor.Entry `json:"resources"`
}

// listAdapters handles GET /v1/adapters.
func (s *Server) listAdapters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, adaptersResponse{
		Primary:   s.ext.Registry().Entries(),
		Resources: s.ext.ResourceRegistry().Entries(),
	})
}

type extractionRequest struct {
	URL           string `json:"url"`
	SkipResources bool   `json:"skipResources"`
}

func (r extractionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, is.URL),
	)
}

type extractionResponse struct {
	ID string `json:"id,omitempty"`
	types.AggregateResult
}

// createExtraction handles POST /v1/extractions. The extraction runs
// synchronously; a failed primary extraction is still a 200 with
// success=false.
func (s *Server) createExtraction(w http.ResponseWriter, r *http.Request) {
	var req extractionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	unlock := s.lockDir(extractor.ArticleDir(s.outputDir, req.URL))
	agg := s.ext.ExtractURL(r.Context(), req.URL, extractor.Options{
		OutputDir:     s.outputDir,
		SkipResources: req.SkipResources,
	})
	unlock()

	resp := extractionResponse{AggregateResult: agg}
	if s.ledger != nil {
		e, err := s.ledger.Add(r.Context(), agg)
		if err != nil {
			log.Warn().Str("url", req.URL).Err(err).Msg("recording extraction")
		} else {
			resp.ID = e.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// listExtractions handles GET /v1/extractions.
func (s *Server) listExtractions(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "ledger disabled")
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	failed, _ := strconv.ParseBool(q.Get("failed"))

	entries, err := s.ledger.List(r.Context(), ledger.ListOptions{Limit: limit, URL: q.Get("url"), FailedOnly: failed})
	if err != nil {
		log.Error().Err(err).Msg("listing extractions")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"extractions": entries})
}

// getExtraction handles GET /v1/extractions/{id}.
func (s *Server) getExtraction(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "ledger disabled")
		return
	}
	e, err := s.ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "extraction not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("getting extraction")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, e)
}
