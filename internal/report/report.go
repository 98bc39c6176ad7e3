// Package report renders a student's training history as a PDF.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

// Options configures rendering.
type Options struct {
	// FontPath is a TrueType font with CJK glyphs. Without it the core Arial
	// font is used and characters outside Latin-1 print as '?'.
	FontPath string
}

// Renderer writes PDF reports.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Unicode reports whether text outside Latin-1 renders. It is false when no
// font is configured.
func (r *Renderer) Unicode() bool {
	return r.opts.FontPath != ""
}

// Input is everything one report shows.
type Input struct {
	Student  models.Student
	Sessions []models.WorkoutSession // most recent first
	Progress roster.Progress
}

type doc struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (r *Renderer) newDoc() *doc {
	pdf := fpdf.New("P", "mm", "A4", "")
	d := &doc{pdf: pdf, family: "Arial", tr: latin1}
	if r.Unicode() {
		pdf.AddUTF8Font("report", "", r.opts.FontPath)
		pdf.AddUTF8Font("report", "B", r.opts.FontPath)
		d.family = "report"
		d.tr = func(s string) string { return s }
	}
	return d
}

func (d *doc) font(style string, size float64) {
	d.pdf.SetFont(d.family, style, size)
}

func (d *doc) line(h float64, s string) {
	d.pdf.Cell(0, h, d.tr(s))
	d.pdf.Ln(h)
}

// Write renders in as a PDF to w.
func (r *Renderer) Write(w io.Writer, in Input) error {
	d := r.newDoc()
	pdf := d.pdf
	pdf.SetTitle("Training report: "+in.Student.Name, true)
	pdf.AddPage()

	st := in.Student
	d.font("B", 16)
	d.line(10, fmt.Sprintf("Training report: %s", st.Name))
	pdf.Ln(2)

	d.font("", 11)
	d.line(6, fmt.Sprintf("Category: %s (%s)", st.Category, category.Tag(st.Category, category.LangChinese)))
	d.line(6, fmt.Sprintf("Height %s cm · Weight %s kg · Body fat %s%%",
		category.FormatNumber(st.Stats.Height),
		category.FormatNumber(st.Stats.Weight),
		category.FormatNumber(st.Stats.BodyFat)))
	d.line(6, "Injuries: "+st.Stats.Injuries)
	if st.Stats.Goals != "" {
		d.line(6, "Goals: "+st.Stats.Goals)
	}
	if st.Stats.UpdatedAt != "" {
		d.line(6, "Stats updated: "+st.Stats.UpdatedAt)
	}
	d.line(6, fmt.Sprintf("Progress: %s (%d sessions)", in.Progress.Status, in.Progress.Sessions))
	pdf.Ln(4)

	if len(in.Sessions) == 0 {
		d.font("", 12)
		d.line(8, "No sessions logged.")
	}

	for _, s := range in.Sessions {
		d.font("B", 13)
		d.line(8, s.Date)

		d.font("", 11)
		for _, e := range s.Exercises {
			d.line(6, "  - "+category.Display(e))
		}
		if rs := s.RecordedStats; !rs.Empty() {
			var parts []string
			if rs.Weight != nil {
				parts = append(parts, "weight "+category.FormatNumber(*rs.Weight)+"kg")
			}
			if rs.BodyFat != nil {
				parts = append(parts, "body fat "+category.FormatNumber(*rs.BodyFat)+"%")
			}
			if rs.Injuries != nil {
				parts = append(parts, "status "+*rs.Injuries)
			}
			d.line(6, "  Recorded: "+strings.Join(parts, ", "))
		}
		if s.CoachNotes != "" {
			pdf.MultiCell(0, 6, d.tr("  Notes: "+s.CoachNotes), "", "", false)
		}
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// latin1 keeps what the core fonts can show (cp1252 for the Latin-1 range)
// and replaces everything else with '?'.
func latin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r <= 0xFF:
			b.WriteByte(byte(r))
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
