// Package submodule parses .gitmodules manifests.
package submodule

import (
	"bytes"

	"github.com/go-git/go-git/v5/config"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/pkg/errors"
)

const sectionName = "submodule"

// Module is one [submodule "name"] section of a manifest.
type Module struct {
	Name string
	Path string
	URL  string
}

// Parse decodes a manifest and returns its valid sections in manifest order.
// Each section is decoded on its own, so a malformed section does not hide the
// others. Undecodable sections, sections missing a path or url, and paths escaping
// the repository are returned as skipped errors. err is only set when no section
// of a non-empty manifest can be decoded.
func Parse(data []byte) (modules []Module, skipped []error, err error) {
	chunks := splitSections(data)

	var decoded int
	for _, chunk := range chunks {
		raw := format.New()
		if err := format.NewDecoder(bytes.NewReader(chunk)).Decode(raw); err != nil {
			skipped = append(skipped, errors.Wrapf(err, "section %q", header(chunk)))
			continue
		}
		decoded++

		for _, sub := range raw.Section(sectionName).Subsections {
			m := &config.Submodule{
				Name: sub.Name,
				Path: sub.Options.Get("path"),
				URL:  sub.Options.Get("url"),
			}
			if err := m.Validate(); err != nil {
				skipped = append(skipped, errors.Wrapf(err, "submodule %q", sub.Name))
				continue
			}
			modules = append(modules, Module{Name: m.Name, Path: m.Path, URL: m.URL})
		}
	}

	if len(chunks) > 0 && decoded == 0 {
		return nil, skipped, errors.New("error decoding submodule manifest: no decodable section")
	}
	return modules, skipped, nil
}

// splitSections cuts data before every line opening a section header. Text ahead of
// the first header is kept as its own chunk when it holds more than blanks and comments.
func splitSections(data []byte) [][]byte {
	var chunks [][]byte
	var current []byte
	flush := func() {
		if len(current) > 0 && hasContent(current) {
			chunks = append(chunks, current)
		}
		current = nil
	}

	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("[")) {
			flush()
		}
		current = append(current, line...)
	}
	flush()
	return chunks
}

func hasContent(chunk []byte) bool {
	for _, line := range bytes.Split(chunk, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && line[0] != '#' && line[0] != ';' {
			return true
		}
	}
	return false
}

// header is the first line of a chunk, used to name it in errors.
func header(chunk []byte) string {
	if idx := bytes.IndexByte(chunk, '\n'); idx >= 0 {
		chunk = chunk[:idx]
	}
	return string(bytes.TrimSpace(chunk))
}
