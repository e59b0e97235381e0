package codetree

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Platform level pages that look like /owner/... but are not repositories.
var reservedOwners = map[string]bool{
	"settings": true, "orgs": true, "organizations": true,
	"site": true, "blog": true, "about": true, "explore": true,
	"styleguide": true, "showcases": true, "trending": true,
	"stars": true, "dashboard": true, "notifications": true,
	"search": true, "developer": true, "account": true,
	"pulls": true, "issues": true, "features": true, "contact": true,
	"security": true, "join": true, "login": true, "watching": true,
	"new": true, "integrations": true, "gist": true, "business": true,
	"mirrors": true, "open-source": true, "personal": true,
	"pricing": true,
}

// User level pages that look like /owner/name.
var reservedNames = map[string]bool{
	"followers":    true,
	"following":    true,
	"repositories": true,
}

// Sections that display code.
const (
	sectionTree = "tree"
	sectionBlob = "blob"
	sectionPull = "pull"
)

// (owner)/(name)[/(section)][/(id)]
var pathRe = regexp.MustCompile(`([^/]+)/([^/]+)(?:/([^/]+))?(?:/([^/]+))?`)

// IsReservedOwner reports whether owner names a platform page rather than a user or organization.
func IsReservedOwner(owner string) bool {
	return reservedOwners[owner]
}

// IsReservedName reports whether name names a user page rather than a repository.
func IsReservedName(name string) bool {
	return reservedNames[name]
}

// ResolveContext derives the repository context of page. prior is the context resolved
// for the previous page, if any. It returns (nil, nil) when the page is not a browsable
// repository page; an error is only returned when the default branch lookup fails.
func (e *Engine) ResolveContext(ctx context.Context, page Page, prior *RepoContext, token string) (*RepoContext, error) {
	hints := page.Hints
	if hints == nil {
		hints = noHints{}
	}

	if hints.NotFound() || hints.RawContent() {
		return nil, nil
	}

	match := pathRe.FindStringSubmatch(page.Path)
	if match == nil {
		return nil, nil
	}
	owner, name, section, id := match[1], match[2], match[3], match[4]

	if IsReservedOwner(owner) || IsReservedName(name) {
		return nil, nil
	}

	if !e.opts.ShowInNonCodePage && section != "" &&
		section != sectionTree && section != sectionBlob && section != sectionPull {
		return nil, nil
	}

	repo := &RepoContext{Owner: owner, Name: name}
	if section == sectionPull {
		repo.PullID = id
	}

	repo.Branch = e.pageBranch(hints, repo, prior)
	if repo.Branch != "" {
		return repo, nil
	}

	branch, err := e.backend.DefaultBranch(ctx, owner, name, token)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting default branch of %s", repo.Key())
	}
	if branch == "" {
		branch = "master"
	}
	repo.Branch = e.branches.SetIfAbsent(repo.Key(), branch)
	e.logger.Debug("resolved default branch", repoFields(*repo)...)
	return repo, nil
}

// pageBranch tries, in order, the branch selector, the pull request base ref,
// the prior context and the default branch cache.
func (e *Engine) pageBranch(hints Hints, repo *RepoContext, prior *RepoContext) string {
	if branch := hints.SelectedBranch(); branch != "" {
		return branch
	}
	if branch := baseRefBranch(hints.BaseRef()); branch != "" {
		return branch
	}
	if prior != nil && prior.Owner == repo.Owner && prior.Name == repo.Name && prior.Branch != "" {
		return prior.Branch
	}
	if branch, ok := e.branches.Get(repo.Key()); ok {
		e.logger.Debug("default branch cache hit", zap.String("repo", repo.Key()))
		return branch
	}
	return ""
}

// baseRefBranch extracts the branch from a base ref title such as "owner:feature/x".
func baseRefBranch(title string) string {
	idx := strings.Index(title, ":")
	if idx < 0 {
		return ""
	}
	return title[idx+1:]
}
