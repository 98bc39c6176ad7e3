// Package ingest holds what importers of external training exports share.
package ingest

// Result holds the outcome of an import.
type Result struct {
	SessionsReceived  int    `json:"sessions_received"`
	SessionsImported  int    `json:"sessions_imported"`
	SessionsSkipped   int    `json:"sessions_skipped"`
	ExercisesImported int    `json:"exercises_imported"`
	Message           string `json:"message,omitempty"`
}
