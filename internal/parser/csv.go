package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/outline"
	"golang.org/x/net/html"
)

// CSVParser renders CSV files as a table page. Rows are grouped into
// batches, each with its own anchor.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*outline.Outline, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	o := &outline.Outline{
		Title: baseTitle(filename),
	}

	if len(records) == 0 {
		return o, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var b strings.Builder
	b.WriteString("<table>\n<thead><tr>")
	for _, h := range headers {
		b.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	b.WriteString("</tr></thead>\n")

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))
		batch := dataRows[i:end]

		sec := &outline.Section{
			Title:  fmt.Sprintf("Rows %d-%d", i+2, end+1), // 1-indexed, skip header
			Anchor: fmt.Sprintf("rows-%d-%d", i+2, end+1),
			Level:  2,
		}
		o.Sections = append(o.Sections, sec)

		fmt.Fprintf(&b, "<tbody id=\"%s\">\n", sec.Anchor)
		var text strings.Builder
		for _, row := range batch {
			b.WriteString("<tr>")
			for j, cell := range row {
				b.WriteString("<td>" + html.EscapeString(cell) + "</td>")
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			b.WriteString("</tr>\n")
			text.WriteString("\n")
		}
		b.WriteString("</tbody>\n")
		sec.Text = text.String()
	}
	b.WriteString("</table>\n")
	o.HTML = b.String()

	return o, nil
}
