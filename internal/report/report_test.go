package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

// TestWriteProducesPDF verifies that the demo student renders with the core
// font.
func TestWriteProducesPDF(t *testing.T) {
	snap := models.DemoSnapshot(time.Now())
	st := snap.Students[0]
	sessions := snap.Workouts
	roster.SortNewestFirst(sessions)

	var buf bytes.Buffer
	err := New(Options{}).Write(&buf, Input{
		Student:  st,
		Sessions: sessions,
		Progress: roster.ComputeProgress(st, sessions),
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

// TestRendererUnicode verifies that only a configured font renders CJK text.
func TestRendererUnicode(t *testing.T) {
	if New(Options{}).Unicode() {
		t.Error("Unicode() = true without a font")
	}
	if !New(Options{FontPath: "/fonts/NotoSansTC.ttf"}).Unicode() {
		t.Error("Unicode() = false with a font")
	}
	if got := latin1("陳小明 Squat"); got != "??? Squat" {
		t.Errorf("latin1 = %q, want ??? Squat", got)
	}
}

// TestWriteMissingFont verifies that an unreadable font is reported.
func TestWriteMissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := New(Options{FontPath: "/nonexistent/font.ttf"}).Write(&buf, Input{Student: models.Student{Name: "x"}})
	if err == nil {
		t.Error("expected error for missing font")
	}
}

// TestLatin1 verifies the fallback transliteration of the core font.
func TestLatin1(t *testing.T) {
	if got := latin1("Bench 42.5kg · 陳"); got != "Bench 42.5kg \xb7 ?" {
		t.Errorf("latin1 = %q", got)
	}
}
