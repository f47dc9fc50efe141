package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docnav/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files, one section per page. It tries the Go
// library first and falls back to pdftotext when enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

// maxPageTitle is the longest first line used as a page heading.
const maxPageTitle = 80

func (p *PDFParser) Parse(r io.Reader, filename string) (*outline.Outline, error) {
	tmpPath, err := spool(r, "docnav-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	o := &outline.Outline{Title: baseTitle(filename)}
	anchors := outline.Anchors{}
	for i, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		o.Sections = append(o.Sections, &outline.Section{
			Title:  pageTitle(page, i+1),
			Anchor: anchors.Unique(fmt.Sprintf("page-%d", i+1)),
			Level:  2,
			Text:   page,
			Page:   i + 1,
		})
	}
	o.HTML = renderSections(o.Sections)

	return o, nil
}

// spool copies r into a temp file for libraries that need random access.
func spool(r io.Reader, pattern string) (string, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return tmp.Name(), nil
}

// pageTitle uses the first line of a page when it is short enough to read
// as a heading.
func pageTitle(page string, n int) string {
	first, _, _ := strings.Cut(page, "\n")
	first = strings.Join(strings.Fields(first), " ")
	if first == "" || len(first) > maxPageTitle {
		return fmt.Sprintf("Page %d", n)
	}
	return first
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
