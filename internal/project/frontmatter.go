package project

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the optional YAML header of a Markdown page.
type FrontMatter struct {
	Title   string   `yaml:"title"`
	Aliases []string `yaml:"aliases"`
	Weight  int      `yaml:"weight"`
	Draft   bool     `yaml:"draft"`
}

var fmDelim = []byte("---")

// splitFrontMatter separates a leading "---" delimited YAML block from the
// document body. Documents without one are returned unchanged.
func splitFrontMatter(data []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	rest, ok := bytes.CutPrefix(data, fmDelim)
	if !ok {
		return fm, data, nil
	}
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if !bytes.HasPrefix(rest, []byte("\n")) {
		// A thematic break or text starting with dashes.
		return fm, data, nil
	}
	rest = rest[1:]

	header, body, found := cutDelimLine(rest)
	if !found {
		return fm, data, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, nil, err
	}
	return fm, body, nil
}

// cutDelimLine splits data at the first line consisting only of "---".
func cutDelimLine(data []byte) (before, after []byte, found bool) {
	off := 0
	for off <= len(data) {
		end := bytes.IndexByte(data[off:], '\n')
		var line []byte
		next := len(data) + 1
		if end < 0 {
			line = data[off:]
		} else {
			line = data[off : off+end]
			next = off + end + 1
		}
		if bytes.Equal(bytes.TrimRight(line, " \r"), fmDelim) {
			if next > len(data) {
				return data[:off], nil, true
			}
			return data[:off], data[next:], true
		}
		off = next
	}
	return nil, nil, false
}
