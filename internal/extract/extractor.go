// Package extract turns submitted documents into plain text when extraction runs locally.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrUnsupportedFormat is returned for extensions the extractor cannot read.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// DefaultMaxBytes caps the size of a single submitted file.
const DefaultMaxBytes = 10 << 20

// Document is the text of one submitted file, shaped like the remote upload response.
type Document struct {
	Filename       string
	Format         string
	Size           int64
	Text           string
	CharacterCount int
	WordCount      int
}

// Extractor extracts plain text from submitted files.
type Extractor struct {
	maxBytes int64
}

// NewExtractor returns an Extractor. maxBytes <= 0 uses DefaultMaxBytes.
func NewExtractor(maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{maxBytes: maxBytes}
}

// Supported reports whether files with the given extension can be extracted.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".xlsx", ".txt", ".md", ".rst":
		return true
	}
	return false
}

// Extract reads the file at path and returns its text.
func (e *Extractor) Extract(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > e.maxBytes {
		return nil, fmt.Errorf("file %s is %d bytes, limit is %d", filepath.Base(path), info.Size(), e.maxBytes)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(filepath.Base(path), content)
}

// ExtractBytes extracts text from content, choosing the format from filename's extension.
func (e *Extractor) ExtractBytes(filename string, content []byte) (*Document, error) {
	if int64(len(content)) > e.maxBytes {
		return nil, fmt.Errorf("file %s is %d bytes, limit is %d", filename, len(content), e.maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".xlsx":
		text, err = extractExcel(content)
	case ".txt", ".md", ".rst":
		text = extractPlain(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	return &Document{
		Filename:       filename,
		Format:         strings.TrimPrefix(ext, "."),
		Size:           int64(len(content)),
		Text:           text,
		CharacterCount: len([]rune(text)),
		WordCount:      len(strings.FieldsFunc(text, unicode.IsSpace)),
	}, nil
}
