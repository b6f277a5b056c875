package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

const (
	docxDefaultBody  = "word/document.xml"
	docxContentTypes = "[Content_Types].xml"
	docxMainType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	// runText matches <w:t> nodes with or without attributes.
	runText = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

	// paragraphEnd marks paragraph boundaries so they survive as newlines.
	paragraphEnd = regexp.MustCompile(`</w:p>`)

	overrideTag  = regexp.MustCompile(`<Override[^>]*/?>`)
	partNameAttr = regexp.MustCompile(`PartName="([^"]+)"`)
)

// extractDOCX reads the main document part of a .docx package. Runs within a
// paragraph are joined by spaces, paragraphs by newlines.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}

	bodyPath := docxDefaultBody
	if types, err := readZipEntry(zr, docxContentTypes); err == nil {
		if p := mainPartName(string(types)); p != "" {
			bodyPath = p
		}
	}
	body, err := readZipEntry(zr, bodyPath)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}

	var out strings.Builder
	for _, para := range paragraphEnd.Split(string(body), -1) {
		runs := runText.FindAllStringSubmatch(para, -1)
		if len(runs) == 0 {
			continue
		}
		words := make([]string, 0, len(runs))
		for _, r := range runs {
			if s := strings.TrimSpace(html.UnescapeString(r[1])); s != "" {
				words = append(words, s)
			}
		}
		if len(words) == 0 {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(strings.Join(words, " "))
	}
	return out.String(), nil
}

// mainPartName returns the main document part declared in [Content_Types].xml, without the leading slash.
func mainPartName(types string) string {
	for _, tag := range overrideTag.FindAllString(types, -1) {
		if !strings.Contains(tag, `ContentType="`+docxMainType+`"`) {
			continue
		}
		if m := partNameAttr.FindStringSubmatch(tag); len(m) > 1 {
			return strings.TrimPrefix(m[1], "/")
		}
	}
	return ""
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found", name)
}
