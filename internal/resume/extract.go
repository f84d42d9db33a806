// Package resume turns an uploaded resume into candidate contact details
// and validates details typed in by hand.
package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// ErrExtraction is returned when no usable text could be read.
var ErrExtraction = errors.New("resume: no text could be extracted")

// MinTextLength is the yield below which the OCR fallback runs.
const MinTextLength = 5

// Runner executes an external tool and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Extractor reads text from .txt and .pdf resumes. PDFs go through
// pdftotext; scanned PDFs fall back to pdftoppm and tesseract.
type Extractor struct {
	run Runner
	log zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner replaces the external command runner.
func WithRunner(r Runner) Option { return func(e *Extractor) { e.run = r } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(e *Extractor) { e.log = l } }

// NewExtractor returns an Extractor that shells out to poppler-utils and
// tesseract.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{run: execRunner, log: zerolog.Nop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract returns the text of the resume at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	case ".pdf":
		text, err = e.extractPDF(ctx, path)
	default:
		return "", fmt.Errorf("resume: unsupported file type %q", ext)
	}
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(text)) < MinTextLength {
		return "", ErrExtraction
	}
	return text, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	out, err := e.run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("pdftotext failed, trying OCR")
	}
	text := string(out)
	if len(strings.TrimSpace(text)) >= MinTextLength {
		return text, nil
	}

	ocr, ocrErr := e.ocr(ctx, path)
	if ocrErr != nil {
		e.log.Warn().Err(ocrErr).Str("path", path).Msg("OCR failed")
		return "", fmt.Errorf("%w: %w", ErrExtraction, ocrErr)
	}
	return ocr, nil
}

// ocr rasterizes every page and runs tesseract over the images in page
// order.
func (e *Extractor) ocr(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "resume-ocr-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	if _, err := e.run(ctx, "pdftoppm", "-r", "300", "-png", path, filepath.Join(dir, "page")); err != nil {
		return "", err
	}
	pages, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return "", err
	}
	slices.Sort(pages)

	var b strings.Builder
	for _, p := range pages {
		out, err := e.run(ctx, "tesseract", p, "stdout")
		if err != nil {
			return "", err
		}
		b.Write(out)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
