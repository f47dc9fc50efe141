package outline

// Outline is the parsed form of one source page.
type Outline struct {
	Title    string     // Page title (from metadata, first heading or filename)
	Sections []*Section // Top-level sections
	HTML     string     // Rendered page body
}

// Section is a recursive heading-delimited part of a page.
type Section struct {
	Title    string     // Heading text (empty for leading text)
	Anchor   string     // Fragment id of the heading
	Level    int        // Heading level, 1-6 (0 for text without a heading)
	Text     string     // Text content of this section
	Page     int        // Source page (0 if N/A)
	Children []*Section // Subsections
}

// Headings returns the sections that carry a heading. A single top-level
// heading is treated as the page title and its children are returned instead.
func (o *Outline) Headings() []*Section {
	secs := titled(o.Sections)
	if len(secs) == 1 && secs[0].Level == 1 {
		return titled(secs[0].Children)
	}
	return secs
}

func titled(secs []*Section) []*Section {
	var out []*Section
	for _, s := range secs {
		if s.Title != "" {
			out = append(out, s)
		}
	}
	return out
}
