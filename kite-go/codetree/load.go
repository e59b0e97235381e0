package codetree

import (
	"context"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kiteco/codetree/kite-go/codetree/submodule"
)

var manifestRe = regexp.MustCompile(`(?i)^\.gitmodules$`)

// LoadTree lists the tree of a resolved context. With a nil sub the whole branch is listed
// recursively; otherwise only the given folder is listed and its path is prepended to the
// returned entries. Pull request contexts are filtered to the changed files when diffs are
// enabled, falling back to the full tree when no diff is available. ErrTruncated is
// returned as is so the caller can switch to listing folders on demand.
func (e *Engine) LoadTree(ctx context.Context, repo RepoContext, sub *Subtree, token string) (*Tree, error) {
	if !repo.Resolved() {
		return nil, ErrUnresolved
	}

	ref, recursive := repo.Branch, true
	if sub != nil {
		recursive = false
		if sub.SHA != "" {
			ref = sub.SHA
		}
	}

	entries, err := e.backend.Tree(ctx, repo, ref, recursive, token)
	switch {
	case errors.Is(err, ErrTruncated):
		e.logger.Info("tree truncated", repoFields(repo)...)
		return nil, err
	case err != nil:
		return nil, errors.Wrapf(err, "error listing tree of %s", repo)
	}

	if sub != nil && sub.Path != "" {
		for i := range entries {
			entries[i].Path = sub.Path + "/" + entries[i].Path
		}
	}

	tree := &Tree{Entries: entries}
	if repo.IsPull() && e.opts.PullRequestDiff {
		if diff := e.pullDiff(ctx, repo, token); len(diff) > 0 {
			tree.Diff = diff
			tree.Entries = FilterTree(entries, diff)
		}
	}

	tree.Submodules, err = e.submodules(ctx, repo, tree.Entries, token)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// pullDiff returns the DiffMap of the context's pull request, or nil when the
// changed files cannot be listed.
func (e *Engine) pullDiff(ctx context.Context, repo RepoContext, token string) DiffMap {
	pull, err := strconv.Atoi(repo.PullID)
	if err != nil || pull <= 0 {
		e.logger.Warn("invalid pull request id, showing full tree",
			append(repoFields(repo), zap.Error(&ParseError{
				What: "pull request id",
				Err:  errors.Errorf("%q is not a pull request number", repo.PullID),
			}))...)
		return nil
	}

	files, err := e.backend.PullRequestFiles(ctx, repo, pull, token)
	if err != nil {
		e.logger.Warn("error listing pull request files, showing full tree",
			append(repoFields(repo), zap.Error(err))...)
		return nil
	}
	if len(files) == 0 {
		e.logger.Debug("pull request has no changed files, showing full tree", repoFields(repo)...)
		return nil
	}
	return BuildDiffMap(files)
}

// submodules parses the .gitmodules manifest found among entries. A missing or
// malformed manifest yields no submodules; failing to fetch it is an error.
func (e *Engine) submodules(ctx context.Context, repo RepoContext, entries []TreeEntry, token string) ([]SubmoduleEntry, error) {
	var manifest *TreeEntry
	for i := range entries {
		if manifestRe.MatchString(entries[i].Path) {
			manifest = &entries[i]
			break
		}
	}
	if manifest == nil {
		return nil, nil
	}

	data, err := e.backend.Blob(ctx, repo, manifest.SHA, token)
	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		e.logger.Warn("undecodable submodule manifest", append(repoFields(repo), zap.Error(err))...)
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(err, "error fetching %s of %s", manifest.Path, repo)
	}

	modules, skipped, err := submodule.Parse(data)
	if err != nil {
		e.logger.Warn("malformed submodule manifest",
			append(repoFields(repo), zap.Error(&ParseError{What: manifest.Path, Err: err}))...)
		return nil, nil
	}
	for _, s := range skipped {
		e.logger.Debug("skipped submodule section", append(repoFields(repo), zap.Error(s))...)
	}

	var result []SubmoduleEntry
	for _, m := range modules {
		result = append(result, SubmoduleEntry{Name: m.Name, Path: m.Path, URL: m.URL})
	}
	return result, nil
}
