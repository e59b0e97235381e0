package codetree

import (
	"net/url"
	"regexp"
	"strings"
)

// Node is a tree entry placed in its folder hierarchy.
type Node struct {
	TreeEntry
	// Href is the page path of the node, or the submodule URL for submodules.
	Href     string
	Children []*Node
}

var (
	gitSchemeRe = regexp.MustCompile(`^git(://|@)`)
	gitSuffixRe = regexp.MustCompile(`\.git$`)
)

// BuildNodes nests a flat listing into folders, keeping backend order within each folder.
// Entries whose parent folder is not part of the listing (e.g. a lazily loaded subtree)
// are returned at the top level.
func BuildNodes(repo RepoContext, entries []TreeEntry, submodules []SubmoduleEntry) []*Node {
	modules := make(map[string]SubmoduleEntry, len(submodules))
	for _, m := range submodules {
		modules[m.Path] = m
	}

	var roots []*Node
	folders := make(map[string]*Node)
	for _, entry := range entries {
		node := &Node{TreeEntry: entry}
		switch entry.Type {
		case EntryFolder:
			node.Href = itemHref(repo, "tree", entry.Path)
			folders[entry.Path] = node
		case EntryFile:
			node.Href = itemHref(repo, "blob", entry.Path)
		case EntrySubmodule:
			if m, ok := modules[entry.Path]; ok {
				node.Href = SubmoduleHref(m.URL)
			}
		}

		idx := strings.LastIndex(entry.Path, "/")
		if idx < 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := folders[entry.Path[:idx]]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// itemHref links a file or folder to its page; in pull requests, files link to the files tab.
func itemHref(repo RepoContext, kind, path string) string {
	if repo.IsPull() && kind == "blob" {
		return "/" + repo.Owner + "/" + repo.Name + "/pull/" + repo.PullID + "/files"
	}
	return "/" + repo.Owner + "/" + repo.Name + "/" + kind + "/" + escapeSegments(repo.Branch) + "/" + escapeSegments(path)
}

// escapeSegments escapes each segment of a slash separated path, keeping the slashes.
func escapeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// SubmoduleHref turns a submodule URL into a browsable link. GitHub git and ssh URLs are
// rewritten to https without the .git suffix; other URLs are returned unchanged.
func SubmoduleHref(moduleURL string) string {
	if !strings.Contains(moduleURL, "github.com") {
		return moduleURL
	}
	href := gitSchemeRe.ReplaceAllString(moduleURL, "https://")
	href = strings.Replace(href, "github.com:", "github.com/", 1)
	return gitSuffixRe.ReplaceAllString(href, "")
}
