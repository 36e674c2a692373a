package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ppiankov/sanket/internal/classify"
	"github.com/ppiankov/sanket/internal/dataset"
	"github.com/ppiankov/sanket/internal/model"
	"github.com/ppiankov/sanket/internal/rag"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// loadRecords reads the dataset fresh on each request so a rebuild of
// the CSV is visible without restarting the server.
func (s *Server) loadRecords() ([]model.AccidentRecord, error) {
	return dataset.ReadCSV(s.cfg.Dataset.CSVPath)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "DGMS Sanket accident statistics API",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ok := true
	var messages []string
	if _, err := os.Stat(s.cfg.Dataset.CSVPath); err != nil {
		ok = false
		messages = append(messages, fmt.Sprintf("dataset not found at %s", s.cfg.Dataset.CSVPath))
	}
	if s.indexer == nil {
		messages = append(messages, "index builder not configured")
	}
	if s.answerer == nil {
		messages = append(messages, "query answerer not configured")
	}
	if messages == nil {
		messages = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"ok":       ok,
		"messages": messages,
	})
}

func (s *Server) handleClassifyByState(w http.ResponseWriter, _ *http.Request) {
	records, err := s.loadRecords()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": classify.ByState(records)})
}

func (s *Server) handleClassifyByYear(w http.ResponseWriter, _ *http.Request) {
	records, err := s.loadRecords()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	counts := classify.ByYear(records, s.cfg.Dataset.DefaultYear)

	// The data object lists years in ascending order.
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, year := range classify.Years(counts) {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", year, counts[year])
	}
	buf.WriteByte('}')
	s.writeJSON(w, http.StatusOK, map[string]any{"data": json.RawMessage(buf.Bytes())})
}

func (s *Server) handleClassifyByCause(w http.ResponseWriter, _ *http.Request) {
	records, err := s.loadRecords()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": classify.ByCause(records)})
}

func (s *Server) handleClassifyByDistrict(w http.ResponseWriter, _ *http.Request) {
	records, err := s.loadRecords()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": classify.ByDistrict(records)})
}

type buildIndexRequest struct {
	CSVPath       string `json:"csv_path"`
	ChunkPerNRows int    `json:"chunk_per_n_rows"`
	ForceRecreate bool   `json:"force_recreate"`
	Namespace     string `json:"namespace"`
}

func (s *Server) handleBuildIndex(w http.ResponseWriter, r *http.Request) {
	if s.indexer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "index builder not configured")
		return
	}

	var req buildIndexRequest
	if r.Body != nil {
		// An empty body means defaults.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	csvPath := req.CSVPath
	if csvPath == "" {
		csvPath = s.cfg.Dataset.CSVPath
	}
	if _, err := os.Stat(csvPath); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("CSV not found at %s", csvPath))
		return
	}

	count, err := s.indexer.Build(r.Context(), rag.BuildOptions{
		CSVPath:       csvPath,
		ChunkPerNRows: req.ChunkPerNRows,
		ForceRecreate: req.ForceRecreate,
		Namespace:     req.Namespace,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("csv", csvPath).Msg("index build failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": fmt.Sprintf("indexed %d chunks from %s", count, csvPath),
	})
}

type queryRequest struct {
	Question  string `json:"question"`
	TopK      int    `json:"top_k"`
	Namespace string `json:"namespace"`
}

func (s *Server) handleQueryRAG(w http.ResponseWriter, r *http.Request) {
	if s.answerer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "query answerer not configured")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	ans, err := s.answerer.WithTopK(req.TopK).Ask(r.Context(), req.Namespace, req.Question)
	if err != nil {
		s.logger.Error().Err(err).Str("question", req.Question).Msg("query failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"question": req.Question,
		"answer":   ans,
	})
}
