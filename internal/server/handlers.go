package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/almanac/pkg/almanac"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
	"github.com/matzehuels/almanac/pkg/pipeline"
	"github.com/matzehuels/almanac/pkg/render/trace"
)

// SolveRequest is the body of POST /solve and POST /trace.
type SolveRequest struct {
	// Almanac is the almanac source text.
	Almanac string `json:"almanac"`
	Mode    string `json:"mode,omitempty"`
	// Format of Almanac: "text" (default) or "toml".
	Format  string `json:"format,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
	// Output selects the /trace rendering: "svg" (default) or "dot".
	Output string `json:"output,omitempty"`
}

// StageCount reports how many ranges one stage produced.
type StageCount struct {
	Name   string `json:"name"`
	Ranges int    `json:"ranges"`
}

// SolveResponse is the body of a successful POST /solve.
type SolveResponse struct {
	RunID   string       `json:"run_id"`
	Min     int64        `json:"min"`
	Mode    string       `json:"mode"`
	Stages  []StageCount `json:"stages"`
	Inputs  int          `json:"inputs"`
	Outputs int          `json:"outputs"`
	Cached  bool         `json:"cached"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, SolveRequest, error) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return pipeline.Options{}, req, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	opts := pipeline.Options{
		Input:   []byte(req.Almanac),
		Mode:    almanac.Mode(req.Mode),
		Format:  almanac.Format(req.Format),
		Refresh: req.Refresh,
	}
	return opts, req, nil
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	opts, _, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := SolveResponse{
		RunID:   res.RunID,
		Min:     res.Min,
		Mode:    string(res.Mode),
		Stages:  make([]StageCount, len(res.StageCounts)),
		Inputs:  res.Stats.Inputs,
		Outputs: res.Stats.Outputs,
		Cached:  res.CacheInfo.Hit,
	}
	for i, n := range res.StageCounts {
		resp.Stages[i] = StageCount{Ranges: n}
		if i < len(res.StageNames) {
			resp.Stages[i].Name = res.StageNames[i]
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) trace(w http.ResponseWriter, r *http.Request) {
	opts, req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := trace.ParseFormat(req.Output)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, hit, err := s.Runner.RenderTrace(r.Context(), opts, format, trace.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "image/svg+xml"
	if format == trace.FormatDOT {
		contentType = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
