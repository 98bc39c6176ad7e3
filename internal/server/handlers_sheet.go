package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/claude/studentup/internal/sheet"
)

const maxSheetBytes = 20 << 20

// sheetReply is the tabular endpoint's answer to a save. It is always sent
// with HTTP 200; failures are reported in Status.
type sheetReply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleSheetGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Sheets.Load(r.Context())
	if err != nil {
		s.log.Error("sheet load", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleSheetPost accepts the body under any content type; clients send
// text/plain.
func (s *Server) handleSheetPost(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSheetBytes))
	if err != nil {
		writeJSON(w, http.StatusOK, sheetReply{Status: "error", Message: "reading body: " + err.Error()})
		return
	}

	var p sheet.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		writeJSON(w, http.StatusOK, sheetReply{Status: "error", Message: "invalid JSON: " + err.Error()})
		return
	}

	if err := s.deps.Sheets.Save(r.Context(), p); err != nil {
		s.log.Error("sheet save", "error", err)
		writeJSON(w, http.StatusOK, sheetReply{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sheetReply{Status: "success"})
}
