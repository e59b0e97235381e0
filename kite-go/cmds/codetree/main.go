package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	arg "github.com/alexflint/go-arg"
	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kiteco/codetree/kite-go/codetree"
	"github.com/kiteco/codetree/kite-go/codetree/config"
	"github.com/kiteco/codetree/kite-go/codetree/githubapi"
	"github.com/kiteco/codetree/kite-go/codetree/pagehint"
	"github.com/kiteco/codetree/kite-golib/kitelog"
)

type args struct {
	URL     string   `arg:"positional,required" help:"page URL, e.g. https://github.com/owner/name/tree/main"`
	Token   string   `arg:"--token" help:"access token, overrides the config file and GITHUB_AUTH_TOKEN"`
	Config  string   `arg:"--config" help:"YAML config file"`
	HTML    string   `arg:"--html" help:"saved page markup to read hints from instead of fetching the page"`
	NoFetch bool     `arg:"--no-fetch" help:"resolve from the URL alone"`
	NonCode bool     `arg:"--non-code" help:"also resolve non-code pages such as issues"`
	Expand  []string `arg:"--expand" help:"folders to list when the tree is loaded lazily"`
	Verbose bool     `arg:"-v" help:"debug logging"`
}

func (args) Description() string {
	return "codetree resolves the repository behind a page URL and prints its file tree"
}

// report prints err for the user and returns the exit code.
func report(logger *zap.Logger, stderr io.Writer, err error) int {
	title, message, status := codetree.Describe(err)
	logger.Debug("failed", zap.Error(err))
	fmt.Fprintf(stderr, "%s (%d): %s\n", title, status, message)
	return 1
}

func main() {
	var a args
	arg.MustParse(&a)

	logger := kitelog.NewStderr(a.Verbose)
	code := run(a, logger, os.Stdout, os.Stderr)
	logger.Sync()
	os.Exit(code)
}

func run(a args, logger *zap.Logger, stdout, stderr io.Writer) int {
	var durations kitelog.Durations
	defer durations.Flush(logger, "codetree timings")

	cfg, err := config.Load(a.Config)
	if err != nil {
		return report(logger, stderr, err)
	}
	if a.Token != "" {
		cfg.Token = a.Token
	}
	if a.NonCode {
		cfg.ShowInNonCodePage = true
	}

	pageURL, err := url.Parse(a.URL)
	if err != nil {
		return report(logger, stderr, errors.Wrapf(err, "invalid url %s", a.URL))
	}
	site, ok := githubapi.SiteFor(pageURL, cfg.EnterpriseURLs)
	if !ok {
		fmt.Fprintln(stdout, "not a repository page")
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	start := time.Now()
	hints, err := pageHints(ctx, a, pageURL)
	if err != nil {
		logger.Warn("page hints unavailable, resolving from the url", zap.Error(err))
	}
	durations.Since("hints", start)

	backend, err := githubapi.NewBackend(site, githubapi.Options{CacheSize: cfg.CacheSize, Logger: logger})
	if err != nil {
		return report(logger, stderr, err)
	}
	engine := codetree.NewEngine(backend, codetree.NewBranchCache(), logger, cfg.EngineOptions())

	start = time.Now()
	page := codetree.Page{Path: pageURL.Path}
	if hints != nil {
		page.Hints = hints
	}
	repo, err := engine.ResolveContext(ctx, page, nil, cfg.Token)
	durations.Since("resolve", start)
	if err != nil {
		return report(logger, stderr, err)
	}
	if repo == nil {
		fmt.Fprintln(stdout, "not a repository page")
		return 0
	}

	start = time.Now()
	tree, lazy, err := loadTree(ctx, engine, *repo, cfg, a.Expand, logger)
	durations.Since("load", start)
	if err != nil {
		return report(logger, stderr, err)
	}

	fmt.Fprintf(stdout, "%s %s\n", repo, site.Web)
	if lazy {
		fmt.Fprintln(stdout, "(tree listed on demand)")
	}
	printNodes(stdout, codetree.BuildNodes(*repo, tree.Entries, tree.Submodules), 0)
	if summary := diffSummary(tree.Diff); summary != "" {
		fmt.Fprintln(stdout, summary)
	}
	return 0
}

// pageHints reads hints from saved markup or the live page. A nil result means none are available.
func pageHints(ctx context.Context, a args, pageURL *url.URL) (*pagehint.Document, error) {
	if a.HTML != "" {
		f, err := os.Open(a.HTML)
		if err != nil {
			return nil, errors.Wrapf(err, "error opening %s", a.HTML)
		}
		defer f.Close()
		return pagehint.Parse(f, pagehint.GitHub)
	}
	if a.NoFetch {
		return nil, nil
	}

	req, err := http.NewRequest("GET", pageURL.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching %s", pageURL)
	}
	defer resp.Body.Close()

	// not-found pages still carry the markup the resolver looks for
	return pagehint.Parse(resp.Body, pagehint.GitHub)
}

// loadTree lists the whole branch, switching to the top level plus the expanded
// folders when the tree is too large or whole-tree loading is disabled.
func loadTree(ctx context.Context, engine *codetree.Engine, repo codetree.RepoContext, cfg config.Config, expand []string, logger *zap.Logger) (*codetree.Tree, bool, error) {
	if cfg.LoadEntireTree {
		tree, err := engine.LoadTree(ctx, repo, nil, cfg.Token)
		if err != codetree.ErrTruncated {
			return tree, false, err
		}
		logger.Info("tree too large, listing on demand", zap.Stringer("repo", repo))
	}

	tree, err := engine.LoadTree(ctx, repo, &codetree.Subtree{}, cfg.Token)
	if err != nil {
		return nil, true, err
	}

	folders := make(map[string]codetree.TreeEntry)
	for _, e := range tree.Entries {
		if e.Type == codetree.EntryFolder {
			folders[e.Path] = e
		}
	}
	for _, path := range expand {
		path = strings.Trim(path, "/")
		folder, ok := folders[path]
		if !ok {
			logger.Warn("cannot expand folder", zap.String("path", path))
			continue
		}
		sub, err := engine.LoadTree(ctx, repo, &codetree.Subtree{Path: folder.Path, SHA: folder.SHA}, cfg.Token)
		if err != nil {
			return nil, true, err
		}
		tree.Entries = append(tree.Entries, sub.Entries...)
		for _, e := range sub.Entries {
			if e.Type == codetree.EntryFolder {
				folders[e.Path] = e
			}
		}
	}
	return tree, true, nil
}

func printNodes(w io.Writer, nodes []*codetree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		line := indent + n.Name()
		switch n.Type {
		case codetree.EntryFolder:
			line += "/"
		case codetree.EntrySubmodule:
			line += " @ " + n.Href
		case codetree.EntryFile:
			line += " (" + humanize.Bytes(uint64(n.Size)) + ")"
		}
		if n.Patch != nil {
			line += " [" + n.Patch.Summary() + "]"
		}
		fmt.Fprintln(w, line)
		printNodes(w, n.Children, depth+1)
	}
}

func diffSummary(diff codetree.DiffMap) string {
	var files, additions, deletions int
	for _, d := range diff {
		if d.IsFolder() {
			continue
		}
		files++
		additions += d.Additions
		deletions += d.Deletions
	}
	if files == 0 {
		return ""
	}
	return fmt.Sprintf("%s files changed, +%s -%s",
		humanize.Comma(int64(files)), humanize.Comma(int64(additions)), humanize.Comma(int64(deletions)))
}
