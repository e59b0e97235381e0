package codetree

import "context"

// Backend is the read API of a hosting provider. Every method accepts an optional
// access token; an empty token issues unauthenticated requests.
// Failures are returned as *BackendError, a truncated tree listing as ErrTruncated.
type Backend interface {
	// DefaultBranch returns the default branch of owner/name.
	DefaultBranch(ctx context.Context, owner, name, token string) (string, error)
	// Tree lists the tree at ref, which is a branch name or a tree SHA. Paths are
	// relative to ref. The listing is recursive when recursive is set.
	Tree(ctx context.Context, repo RepoContext, ref string, recursive bool, token string) ([]TreeEntry, error)
	// PullRequestFiles lists the files changed by a pull request, in backend order.
	PullRequestFiles(ctx context.Context, repo RepoContext, pull int, token string) ([]ChangedFile, error)
	// Blob returns the decoded content of a blob.
	Blob(ctx context.Context, repo RepoContext, sha, token string) ([]byte, error)
}

// Hints exposes the markers of the current page the resolver relies on.
// Implementations never fail; absent markers read as false or empty.
type Hints interface {
	// NotFound reports whether the page is an error/not-found page.
	NotFound() bool
	// RawContent reports whether the page displays raw file content.
	RawContent() bool
	// SelectedBranch is the branch picked in the page's branch selector.
	SelectedBranch() string
	// BaseRef is the title of a pull request's base ref widget, formatted "owner:branch".
	BaseRef() string
}

// Page is the location the user is looking at.
type Page struct {
	// Path is the URL path, e.g. "/owner/name/tree/main/dir".
	Path string
	// Hints may be nil when no page markup is available.
	Hints Hints
}

type noHints struct{}

func (noHints) NotFound() bool         { return false }
func (noHints) RawContent() bool       { return false }
func (noHints) SelectedBranch() string { return "" }
func (noHints) BaseRef() string        { return "" }
