package sheet

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/tabular"
)

// Row is one data row keyed by header.
type Row map[string]any

// Rows pairs every data row of t with the header row.
func Rows(t tabular.Table) []Row {
	out := make([]Row, 0, len(t.Rows))
	for _, cells := range t.Rows {
		r := make(Row, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(cells) {
				r[h] = cells[j]
			} else {
				r[h] = nil
			}
		}
		out = append(out, r)
	}
	return out
}

// get returns the first non-blank value among f's Chinese and English headers.
func (r Row) get(f field) any {
	for _, key := range labels[f] {
		v, ok := r[key]
		if !ok || blank(v) {
			continue
		}
		return v
	}
	return nil
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

func (r Row) str(f field) string {
	return cellString(r.get(f))
}

func (r Row) num(f field) (float64, bool) {
	return models.ParseNumber(r.get(f))
}

func (r Row) date(f field) string {
	switch v := r.get(f).(type) {
	case time.Time:
		return models.Day(v.UTC())
	case nil:
		return ""
	default:
		return models.NormalizeDate(cellString(v))
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func floatCell(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringCell(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
