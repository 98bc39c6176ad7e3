// Package tabular stores named sheets: a header row followed by data rows,
// the way a spreadsheet does. It is the storage behind the remote tabular
// endpoint.
package tabular

import (
	"context"
	"encoding/json"
	"fmt"
)

// Table is the content of one sheet.
type Table struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`

	// Hidden lists header names that a spreadsheet view should hide.
	Hidden []string `json:"hidden,omitempty"`
}

// Store reads and rewrites whole sheets.
type Store interface {
	// ReadSheet returns the sheet's content. A sheet that does not exist yet
	// reads as an empty Table.
	ReadSheet(ctx context.Context, name string) (Table, error)
	// WriteSheet replaces the header row and every data row of the sheet,
	// creating it when needed.
	WriteSheet(ctx context.Context, name string, t Table) error
	Close() error
}

func encodeRow(row []any, width int) ([]byte, error) {
	cells := make([]any, width)
	copy(cells, row)
	data, err := json.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}
	return data, nil
}

func decodeRow(data []byte) ([]any, error) {
	var cells []any
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}
	return cells, nil
}

func decodeStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding headers: %w", err)
	}
	return out, nil
}
