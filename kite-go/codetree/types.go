package codetree

import (
	"fmt"
	"strings"
)

// RepoContext identifies a repository, the branch being browsed and an optional pull request.
type RepoContext struct {
	Owner  string
	Name   string
	Branch string
	PullID string
}

// Key is the owner/name pair used to cache default branches.
func (r RepoContext) Key() string {
	return r.Owner + "/" + r.Name
}

// IsPull reports whether the context points at a pull request.
func (r RepoContext) IsPull() bool {
	return r.PullID != ""
}

// Resolved reports whether the branch is known, i.e. whether a tree can be fetched.
func (r RepoContext) Resolved() bool {
	return r.Owner != "" && r.Name != "" && r.Branch != ""
}

// Equal reports whether both contexts would load the same tree. Callers use it to skip
// reloading an unchanged page and to drop responses for a superseded context.
func (r *RepoContext) Equal(other *RepoContext) bool {
	if r == nil || other == nil {
		return r == other
	}
	return *r == *other
}

func (r RepoContext) String() string {
	s := fmt.Sprintf("%s/%s@%s", r.Owner, r.Name, r.Branch)
	if r.IsPull() {
		s += "#" + r.PullID
	}
	return s
}

// EntryType is the kind of a tree entry
type EntryType string

const (
	// EntryFile is a blob
	EntryFile EntryType = "file"
	// EntryFolder is a sub tree
	EntryFolder EntryType = "folder"
	// EntrySubmodule is a commit pointer into another repository
	EntrySubmodule EntryType = "submodule"
)

// TreeEntry is a single node of the flat listing returned by the backend.
type TreeEntry struct {
	Path string
	Type EntryType
	// SHA identifies the blob, sub tree or submodule commit.
	SHA  string
	Size int64
	// Patch is only set for pull request contexts.
	Patch *DiffInfo
}

// Name is the last segment of the entry path.
func (e TreeEntry) Name() string {
	return e.Path[strings.LastIndex(e.Path, "/")+1:]
}

// Subtree selects a single folder to list on demand. An empty SHA lists the top level of the branch.
type Subtree struct {
	Path string
	SHA  string
}

// ChangedFile is one entry of a pull request's file listing.
type ChangedFile struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	SHA       string
}

// DiffInfo describes the changes to a file, or the rollup of changes below a folder.
type DiffInfo struct {
	// Action, Filename and SHA are only set for files.
	Action    string
	Filename  string
	SHA       string
	Additions int
	Deletions int
	// Changes counts the changed files below a folder; it is zero for files.
	Changes int
}

// IsFolder reports whether the info is a folder rollup.
func (d DiffInfo) IsFolder() bool {
	return d.Changes > 0
}

// Summary renders the badge shown next to a node, e.g. "added +3" or "2 files +5 -1".
func (d DiffInfo) Summary() string {
	var parts []string
	switch d.Action {
	case "added", "renamed", "removed":
		parts = append(parts, d.Action)
	}
	if d.Changes > 0 {
		noun := "files"
		if d.Changes == 1 {
			noun = "file"
		}
		parts = append(parts, fmt.Sprintf("%d %s", d.Changes, noun))
	}
	if d.Additions != 0 {
		parts = append(parts, fmt.Sprintf("+%d", d.Additions))
	}
	if d.Deletions != 0 {
		parts = append(parts, fmt.Sprintf("-%d", d.Deletions))
	}
	return strings.Join(parts, " ")
}

// DiffMap maps changed file paths and all of their ancestor folders to their DiffInfo.
type DiffMap map[string]*DiffInfo

// SubmoduleEntry is a section of the .gitmodules manifest.
type SubmoduleEntry struct {
	Name string
	Path string
	URL  string
}

// Tree is the result of LoadTree.
type Tree struct {
	Entries    []TreeEntry
	Submodules []SubmoduleEntry
	// Diff is only set when the entries were filtered to a pull request's changes.
	Diff DiffMap
}
