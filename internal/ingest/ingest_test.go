package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalPDF assembles a one-page PDF with a correct xref table.
func minimalPDF() []byte {
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		buf.WriteString(obj)
	}

	xrefOffset := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", len(objects)+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return buf.Bytes()
}

func dirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("reading %s: %v", dir, err)
	}
	return len(entries)
}

func TestSaveValidPDF(t *testing.T) {
	base := t.TempDir()
	s := NewSaver(base, nil)

	res, err := s.Save(Request{
		Filename: "session.pdf",
		Reader:   bytes.NewReader(minimalPDF()),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", res.PageCount)
	}
	if res.Filename != "session.pdf" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if res.JobID == "" {
		t.Error("empty JobID")
	}
	if _, err := os.Stat(res.PDFPath); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
	if got := filepath.Join(base, res.JobID, "session.pdf"); res.PDFPath != got {
		t.Errorf("PDFPath = %q, want %q", res.PDFPath, got)
	}
}

func TestSaveStripsPathComponents(t *testing.T) {
	base := t.TempDir()
	s := NewSaver(base, nil)

	res, err := s.Save(Request{
		Filename: "../../escape.pdf",
		Reader:   bytes.NewReader(minimalPDF()),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Filename != "escape.pdf" {
		t.Errorf("Filename = %q, want escape.pdf", res.Filename)
	}
	if !strings.HasPrefix(res.PDFPath, base) {
		t.Errorf("PDFPath %q escaped base dir", res.PDFPath)
	}
}

func TestSaveRejectsNonPDF(t *testing.T) {
	s := NewSaver(t.TempDir(), nil)
	_, err := s.Save(Request{Filename: "notes.txt", Reader: strings.NewReader("hi")})
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("err = %v, want ErrNotPDF", err)
	}
}

func TestSaveRejectsMissingFilename(t *testing.T) {
	s := NewSaver(t.TempDir(), nil)
	if _, err := s.Save(Request{Filename: "  ", Reader: strings.NewReader("hi")}); err == nil {
		t.Fatal("expected error for missing filename")
	}
}

func TestSaveRejectsOversize(t *testing.T) {
	base := t.TempDir()
	s := NewSaver(base, nil)

	_, err := s.Save(Request{
		Filename: "big.pdf",
		Reader:   bytes.NewReader(minimalPDF()),
		MaxBytes: 10,
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if n := dirEntries(t, base); n != 0 {
		t.Errorf("base dir has %d entries after failed upload, want 0", n)
	}
}

func TestSaveRejectsGarbageContent(t *testing.T) {
	base := t.TempDir()
	s := NewSaver(base, nil)

	_, err := s.Save(Request{
		Filename: "broken.pdf",
		Reader:   strings.NewReader("this is not a pdf"),
	})
	if err == nil {
		t.Fatal("expected error for garbage content")
	}
	if n := dirEntries(t, base); n != 0 {
		t.Errorf("base dir has %d entries after failed upload, want 0", n)
	}
}

func TestDiscardRemovesJobDir(t *testing.T) {
	base := t.TempDir()
	s := NewSaver(base, nil)

	res, err := s.Save(Request{Filename: "gone.pdf", Reader: bytes.NewReader(minimalPDF())})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Discard(res)
	if n := dirEntries(t, base); n != 0 {
		t.Errorf("base dir has %d entries after Discard, want 0", n)
	}
	s.Discard(nil)
}
