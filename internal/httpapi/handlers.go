package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

type voiceRequest struct {
	Enabled *bool `json:"enabled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

func (s *Server) readings(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	perPage, err := intParam(r, "per_page", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.dash.Page(r.Context(), page, perPage)
	if err != nil {
		s.log.Error("api: page %d: %v", page, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) readingsCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.dash.ExportCSV(r.Context(), &buf); err != nil {
		if errors.Is(err, domain.ErrNoReadings) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.log.Error("api: export: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="health_data.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) recommendations(w http.ResponseWriter, _ *http.Request) {
	snap := s.dash.Snapshot()
	recs := snap.Recommendations
	if recs == nil {
		recs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"alert":           snap.Alert,
	})
}

func (s *Server) setVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, errors.New(`body must be {"enabled": true|false}`))
		return
	}
	s.dash.SetVoice(*req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"voice_enabled": *req.Enabled})
}

func (s *Server) readAloud(w http.ResponseWriter, _ *http.Request) {
	n := s.dash.ReadAloud()
	writeJSON(w, http.StatusAccepted, map[string]uint64{"read_requests": n})
}

func (s *Server) refresh(w http.ResponseWriter, _ *http.Request) {
	s.dash.Refresh()
	w.WriteHeader(http.StatusAccepted)
}

// ── helpers ──────────────────────────────────────────────────────

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + ": " + raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
