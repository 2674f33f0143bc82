package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// TextExtractor pulls plain text out of a PDF file. Pages are each followed
// by a blank line.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// NewTextExtractor returns the extractor for the named backend: "fitz"
// (MuPDF through go-fitz) or "native" (pure Go).
func NewTextExtractor(backend string) (TextExtractor, error) {
	switch backend {
	case "", "fitz":
		return FitzExtractor{}, nil
	case "native":
		return NativeExtractor{}, nil
	default:
		return nil, domain.ConfigError(fmt.Sprintf("unknown pdf backend %q", backend), nil)
	}
}

// ValidatePDFPath checks that path names a readable, non-directory .pdf file.
func ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	return nil
}

// FitzExtractor extracts text with MuPDF.
type FitzExtractor struct{}

// ExtractText implements TextExtractor.
func (FitzExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ValidatePDFPath(path); err != nil {
		return "", err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", domain.ExtractionError("failed to open PDF", err)
	}
	defer doc.Close()

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(page)
		if err != nil {
			return "", domain.ExtractionError(fmt.Sprintf("failed to extract page %d", page+1), err)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// NativeExtractor extracts text with ledongthuc/pdf and needs no C toolchain.
type NativeExtractor struct{}

// ExtractText implements TextExtractor.
func (NativeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ValidatePDFPath(path); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", domain.ExtractionError("failed to open PDF", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			b.WriteString("\n\n")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.ExtractionError(fmt.Sprintf("failed to extract page %d", i), err)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
