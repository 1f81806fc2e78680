// Package extract turns uploaded document bytes into raw text.
package extract

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/pkg/logger"
)

// Extractor dispatches a document to the reader for its declared type.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	logger   logger.Logger
	maxPages int
}

// New returns an Extractor configured by opts.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the raw text of doc. Plain text comes back byte-for-byte;
// every other type goes through its document library. Any type that is not
// plain text, DOCX or HTML is read as a PDF. A zero-byte document yields
// empty text whatever its type.
func (e *Extractor) Extract(ctx context.Context, doc model.Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", nil
	}

	switch ResolveType(doc.Name, doc.Type) {
	case model.TypePlainText:
		return extractPlainText(doc.Data)
	case model.TypeDOCX:
		return e.extractDOCX(ctx, doc.Data)
	case model.TypeHTML:
		return extractHTML(doc.Data)
	default:
		return e.extractPDF(ctx, doc.Data)
	}
}

// ResolveType returns the media type a document is read as: plain text,
// DOCX, HTML or PDF. Parameters such as charset are dropped. An empty or
// generic declared type is inferred from the file name extension, and
// anything else falls back to PDF.
func ResolveType(name, declared string) string {
	mediaType := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	if mediaType == "" || mediaType == model.TypeUnknown {
		mediaType = typeFromExtension(name)
	}

	switch mediaType {
	case model.TypePlainText, "text/markdown":
		return model.TypePlainText
	case model.TypeHTML, "application/xhtml+xml":
		return model.TypeHTML
	case model.TypeDOCX:
		return model.TypeDOCX
	}
	return model.TypePDF
}

func typeFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md":
		return model.TypePlainText
	case ".pdf":
		return model.TypePDF
	case ".docx":
		return model.TypeDOCX
	case ".html", ".htm":
		return model.TypeHTML
	case "":
		return model.TypeUnknown
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if parsed, _, err := mime.ParseMediaType(t); err == nil {
			return parsed
		}
	}
	return model.TypeUnknown
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", model.NewKind("extract.PlainText", model.ErrDecode)
	}
	return string(data), nil
}

// recoverExtraction turns a library panic into an extraction error.
func recoverExtraction(op string, err *error) {
	if r := recover(); r != nil {
		*err = model.WrapKind(op, model.ErrExtraction, fmt.Errorf("panic: %v", r))
	}
}
