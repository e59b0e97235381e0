package codetree

import (
	"go.uber.org/zap"
)

// Options controls which pages are browsable and how pull requests are displayed.
type Options struct {
	// ShowInNonCodePage allows repository pages other than tree, blob and pull views.
	ShowInNonCodePage bool
	// PullRequestDiff filters pull request trees to the changed files.
	PullRequestDiff bool
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{PullRequestDiff: true}
}

// Engine resolves repository contexts from pages and loads their trees.
// It does not track which context is current; callers compare contexts with
// RepoContext.Equal before applying a result.
type Engine struct {
	opts     Options
	backend  Backend
	branches BranchCache
	logger   *zap.Logger
}

// NewEngine creates an Engine. branches is typically shared by every Engine in the
// process; a nil cache or logger is replaced by an empty cache or a no-op logger.
func NewEngine(backend Backend, branches BranchCache, logger *zap.Logger, opts Options) *Engine {
	if branches == nil {
		branches = NewBranchCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		opts:     opts,
		backend:  backend,
		branches: branches,
		logger:   logger,
	}
}

func repoFields(repo RepoContext) []zap.Field {
	fields := []zap.Field{
		zap.String("owner", repo.Owner),
		zap.String("name", repo.Name),
		zap.String("branch", repo.Branch),
	}
	if repo.IsPull() {
		fields = append(fields, zap.String("pull", repo.PullID))
	}
	return fields
}
