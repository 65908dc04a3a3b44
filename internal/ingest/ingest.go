// Package ingest handles upload intake for session plan PDFs. Each
// upload is stored under its own job directory so concurrent uploads
// with the same filename cannot clobber each other, and the file is
// verified to be a readable PDF before the pipeline ever sees it.
package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DefaultMaxBytes caps uploads at 50 MB.
const DefaultMaxBytes int64 = 50 << 20

var (
	// ErrNotPDF is returned when the uploaded filename does not carry
	// a .pdf extension.
	ErrNotPDF = fmt.Errorf("only .pdf files are accepted")

	// ErrTooLarge is returned when the upload exceeds the configured
	// size limit.
	ErrTooLarge = fmt.Errorf("upload exceeds size limit")
)

// Request describes a single PDF upload.
type Request struct {
	// Filename is the client-supplied name. Only the base name is
	// used; any path components are stripped.
	Filename string

	// Reader streams the PDF bytes.
	Reader io.Reader

	// MaxBytes caps the upload size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// Result describes a saved upload ready for processing.
type Result struct {
	JobID     string `json:"job_id"`
	PDFPath   string `json:"pdf_path"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	PageCount int    `json:"page_count"`
}

// Saver writes uploads into a base directory and validates them.
type Saver struct {
	baseDir string
	logger  *slog.Logger
}

// NewSaver returns a Saver rooted at baseDir. The directory is created
// on first use.
func NewSaver(baseDir string, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{baseDir: baseDir, logger: logger}
}

// Save streams the upload to disk under a fresh job directory and
// validates that the result is a parseable PDF. On any failure the job
// directory is removed.
func (s *Saver) Save(req Request) (*Result, error) {
	name := filepath.Base(strings.TrimSpace(req.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("missing filename")
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, ErrNotPDF
	}

	maxBytes := req.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	jobID := uuid.New().String()
	jobDir := filepath.Join(s.baseDir, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	dst := filepath.Join(jobDir, name)
	size, err := s.write(dst, req.Reader, maxBytes)
	if err != nil {
		os.RemoveAll(jobDir)
		return nil, err
	}

	pages, err := pageCount(dst)
	if err != nil {
		os.RemoveAll(jobDir)
		return nil, fmt.Errorf("invalid PDF %q: %w", name, err)
	}

	s.logger.Info("upload saved",
		"job_id", jobID,
		"filename", name,
		"size_bytes", size,
		"pages", pages)

	return &Result{
		JobID:     jobID,
		PDFPath:   dst,
		Filename:  name,
		SizeBytes: size,
		PageCount: pages,
	}, nil
}

// Discard removes the job directory for a saved upload. Used when
// downstream processing fails and the file should not linger.
func (s *Saver) Discard(res *Result) {
	if res == nil {
		return
	}
	if err := os.RemoveAll(filepath.Dir(res.PDFPath)); err != nil {
		s.logger.Warn("failed to remove upload", "job_id", res.JobID, "error", err)
	}
}

func (s *Saver) write(dst string, r io.Reader, maxBytes int64) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	// Read one byte past the limit so we can tell exactly-at-limit
	// from over-limit.
	n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return 0, fmt.Errorf("writing upload: %w", err)
	}
	if n > maxBytes {
		return 0, ErrTooLarge
	}
	return n, nil
}

func pageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pages, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("reading page count: %w", err)
	}
	if pages < 1 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return pages, nil
}
