// Package pagehint reads the markers of a code hosting page that the resolver relies on.
package pagehint

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Selectors locate the markers in a page.
type Selectors struct {
	NotFound       string
	RawContent     string
	SelectedBranch string
	// BranchAttr is the attribute of the SelectedBranch element holding the branch name.
	BranchAttr string
	BaseRef    string
}

// GitHub selectors
var GitHub = Selectors{
	NotFound:       "#parallax_wrapper",
	RawContent:     "body > pre",
	SelectedBranch: ".branch-select-menu .select-menu-item.selected",
	BranchAttr:     "data-name",
	BaseRef:        ".commit-ref.base-ref",
}

// Document answers hint queries against a parsed HTML page.
type Document struct {
	doc *goquery.Document
	sel Selectors
}

// NewDocument wraps an already parsed page.
func NewDocument(doc *goquery.Document, sel Selectors) *Document {
	return &Document{doc: doc, sel: sel}
}

// Parse reads an HTML page.
func Parse(r io.Reader, sel Selectors) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing page")
	}
	return NewDocument(doc, sel), nil
}

// NotFound ...
func (d *Document) NotFound() bool {
	return d.exists(d.sel.NotFound)
}

// RawContent ...
func (d *Document) RawContent() bool {
	return d.exists(d.sel.RawContent)
}

// SelectedBranch ...
func (d *Document) SelectedBranch() string {
	if d.sel.SelectedBranch == "" {
		return ""
	}
	name, _ := d.doc.Find(d.sel.SelectedBranch).First().Attr(d.sel.BranchAttr)
	return strings.TrimSpace(name)
}

// BaseRef ...
func (d *Document) BaseRef() string {
	if d.sel.BaseRef == "" {
		return ""
	}
	title, _ := d.doc.Find(d.sel.BaseRef).First().Attr("title")
	return strings.TrimSpace(title)
}

func (d *Document) exists(selector string) bool {
	return selector != "" && d.doc.Find(selector).Length() > 0
}

// Static holds fixed marker values, for callers that already know them.
type Static struct {
	IsNotFound   bool
	IsRawContent bool
	Branch       string
	BaseRefTitle string
}

// NotFound ...
func (s Static) NotFound() bool { return s.IsNotFound }

// RawContent ...
func (s Static) RawContent() bool { return s.IsRawContent }

// SelectedBranch ...
func (s Static) SelectedBranch() string { return s.Branch }

// BaseRef ...
func (s Static) BaseRef() string { return s.BaseRefTitle }
