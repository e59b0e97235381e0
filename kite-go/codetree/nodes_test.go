package codetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNodes(t *testing.T) {
	entries := []TreeEntry{
		{Path: "docs", Type: EntryFolder},
		{Path: "docs/a b.md", Type: EntryFile},
		{Path: "docs/guides", Type: EntryFolder},
		{Path: "docs/guides/intro.md", Type: EntryFile},
		{Path: "main.go", Type: EntryFile},
		{Path: "vendor", Type: EntryFolder},
		{Path: "vendor/lib", Type: EntrySubmodule},
		{Path: "vendor/ext", Type: EntrySubmodule},
	}
	submodules := []SubmoduleEntry{
		{Name: "lib", Path: "vendor/lib", URL: "git@github.com:octo/lib.git"},
		{Name: "ext", Path: "vendor/ext", URL: "https://gitlab.com/octo/ext.git"},
	}
	repo := RepoContext{Owner: "octo", Name: "repo", Branch: "main"}

	roots := BuildNodes(repo, entries, submodules)
	require.Len(t, roots, 3)

	docs := roots[0]
	assert.Equal(t, "docs", docs.Name())
	assert.Equal(t, "/octo/repo/tree/main/docs", docs.Href)
	require.Len(t, docs.Children, 2)
	assert.Equal(t, "/octo/repo/blob/main/docs/a%20b.md", docs.Children[0].Href)
	require.Len(t, docs.Children[1].Children, 1)
	assert.Equal(t, "intro.md", docs.Children[1].Children[0].Name())

	assert.Equal(t, "/octo/repo/blob/main/main.go", roots[1].Href)

	vendor := roots[2]
	require.Len(t, vendor.Children, 2)
	assert.Equal(t, "https://github.com/octo/lib", vendor.Children[0].Href)
	assert.Equal(t, "https://gitlab.com/octo/ext.git", vendor.Children[1].Href)
}

func TestBuildNodesSubtree(t *testing.T) {
	entries := []TreeEntry{
		{Path: "a/b/x.txt", Type: EntryFile},
		{Path: "a/b/c", Type: EntryFolder},
	}
	roots := BuildNodes(RepoContext{Owner: "o", Name: "n", Branch: "b"}, entries, nil)
	require.Len(t, roots, 2)
}

func TestBuildNodesPullRequest(t *testing.T) {
	repo := RepoContext{Owner: "o", Name: "n", Branch: "b", PullID: "5"}
	roots := BuildNodes(repo, []TreeEntry{{Path: "f.go", Type: EntryFile}, {Path: "d", Type: EntryFolder}}, nil)
	require.Len(t, roots, 2)
	assert.Equal(t, "/o/n/pull/5/files", roots[0].Href)
	assert.Equal(t, "/o/n/tree/b/d", roots[1].Href)
}

func TestSubmoduleHref(t *testing.T) {
	assert.Equal(t, "https://github.com/octo/lib", SubmoduleHref("git://github.com/octo/lib.git"))
	assert.Equal(t, "https://github.com/octo/lib", SubmoduleHref("git@github.com:octo/lib.git"))
	assert.Equal(t, "https://github.com/octo/lib", SubmoduleHref("https://github.com/octo/lib"))
	assert.Equal(t, "ssh://example.com/lib.git", SubmoduleHref("ssh://example.com/lib.git"))
}

func TestBuildNodesEscapesBranch(t *testing.T) {
	entries := []TreeEntry{{Path: "docs", Type: EntryFolder}, {Path: "docs/a b.md", Type: EntryFile}}

	roots := BuildNodes(RepoContext{Owner: "o", Name: "n", Branch: "fix #12 now"}, entries, nil)
	require.Len(t, roots, 1)
	assert.Equal(t, "/o/n/tree/fix%20%2312%20now/docs", roots[0].Href)
	assert.Equal(t, "/o/n/blob/fix%20%2312%20now/docs/a%20b.md", roots[0].Children[0].Href)

	roots = BuildNodes(RepoContext{Owner: "o", Name: "n", Branch: "feature/x"}, entries[:1], nil)
	assert.Equal(t, "/o/n/tree/feature/x/docs", roots[0].Href)
}
