// Package githubapi implements codetree.Backend over the GitHub REST v3 API.
package githubapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/github"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/kiteco/codetree/kite-go/codetree"
)

var (
	defaultPerPage   = 100
	defaultCacheSize = 64
)

// Options ...
type Options struct {
	// Transport is used for every request; http.DefaultTransport when nil.
	Transport http.RoundTripper
	// PerPage is the page size of pull request file listings.
	PerPage int
	// CacheSize bounds the number of API clients (one per token) and blobs kept in memory.
	CacheSize int
	Logger    *zap.Logger
}

// Backend reads trees, pull requests and blobs from a GitHub deployment.
type Backend struct {
	site      Site
	transport http.RoundTripper
	perPage   int
	clients   *lru.Cache
	blobs     *lru.Cache
	logger    *zap.Logger
}

// NewBackend creates a Backend for site.
func NewBackend(site Site, opts Options) (*Backend, error) {
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	clients, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	blobs, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Backend{
		site:      site,
		transport: opts.Transport,
		perPage:   opts.PerPage,
		clients:   clients,
		blobs:     blobs,
		logger:    opts.Logger,
	}, nil
}

// client returns the API client for token, sending it as a bearer credential when non-empty.
func (b *Backend) client(token string) *github.Client {
	if c, ok := b.clients.Get(token); ok {
		return c.(*github.Client)
	}

	httpClient := &http.Client{Transport: b.transport}
	if token != "" {
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
				Base:   b.transport,
			},
		}
	}

	c := github.NewClient(httpClient)
	api := *b.site.API
	c.BaseURL = &api
	b.clients.Add(token, c)
	return c
}

// DefaultBranch implements codetree.Backend
func (b *Backend) DefaultBranch(ctx context.Context, owner, name, token string) (string, error) {
	repo, resp, err := b.client(token).Repositories.Get(ctx, owner, name)
	if err != nil {
		return "", b.translate(resp, err)
	}
	return repo.GetDefaultBranch(), nil
}

type treeResponse struct {
	SHA       string      `json:"sha"`
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type treeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

var entryTypes = map[string]codetree.EntryType{
	"blob":   codetree.EntryFile,
	"tree":   codetree.EntryFolder,
	"commit": codetree.EntrySubmodule,
}

// Tree implements codetree.Backend
func (b *Backend) Tree(ctx context.Context, repo codetree.RepoContext, ref string, recursive bool, token string) ([]codetree.TreeEntry, error) {
	u := fmt.Sprintf("repos/%s/%s/git/trees/%s", url.PathEscape(repo.Owner), url.PathEscape(repo.Name), EscapeRef(ref))
	if recursive {
		u += "?recursive=1"
	}

	c := b.client(token)
	req, err := c.NewRequest("GET", u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error building tree request for %s", repo)
	}

	var tree treeResponse
	resp, err := c.Do(ctx, req, &tree)
	if err != nil {
		return nil, b.translate(resp, err)
	}
	if tree.Truncated || resp.StatusCode == http.StatusPartialContent {
		return nil, codetree.ErrTruncated
	}

	entries := make([]codetree.TreeEntry, 0, len(tree.Tree))
	for _, e := range tree.Tree {
		typ, ok := entryTypes[e.Type]
		if !ok {
			b.logger.Debug("skipping tree entry", zap.String("path", e.Path), zap.String("type", e.Type))
			continue
		}
		entries = append(entries, codetree.TreeEntry{
			Path: e.Path,
			Type: typ,
			SHA:  e.SHA,
			Size: e.Size,
		})
	}
	return entries, nil
}

// PullRequestFiles implements codetree.Backend
func (b *Backend) PullRequestFiles(ctx context.Context, repo codetree.RepoContext, pull int, token string) ([]codetree.ChangedFile, error) {
	c := b.client(token)
	listOpts := &github.ListOptions{Page: 1, PerPage: b.perPage}

	var files []codetree.ChangedFile
	for {
		page, resp, err := c.PullRequests.ListFiles(ctx, repo.Owner, repo.Name, pull, listOpts)
		if err != nil {
			return nil, b.translate(resp, err)
		}
		for _, f := range page {
			files = append(files, codetree.ChangedFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				SHA:       f.GetSHA(),
			})
		}
		if resp.NextPage == 0 || len(page) == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}
	return files, nil
}

// Blob implements codetree.Backend
func (b *Backend) Blob(ctx context.Context, repo codetree.RepoContext, sha, token string) ([]byte, error) {
	key := blobKey{repo: repo.Key(), sha: sha, token: token}
	if data, ok := b.blobs.Get(key); ok {
		return data.([]byte), nil
	}

	blob, resp, err := b.client(token).Git.GetBlob(ctx, repo.Owner, repo.Name, sha)
	if err != nil {
		return nil, b.translate(resp, err)
	}

	data, err := decodeBlob(blob)
	if err != nil {
		return nil, &codetree.ParseError{What: "blob " + sha, Err: err}
	}
	b.blobs.Add(key, data)
	return data, nil
}

type blobKey struct {
	repo  string
	sha   string
	token string
}

func decodeBlob(blob *github.Blob) ([]byte, error) {
	content := blob.GetContent()
	switch blob.GetEncoding() {
	case "base64":
		return base64.StdEncoding.DecodeString(strings.Replace(content, "\n", "", -1))
	case "", "utf-8":
		return []byte(content), nil
	default:
		return nil, errors.Errorf("unsupported blob encoding %s", blob.GetEncoding())
	}
}

// EscapeRef encodes a branch name or SHA as a single path segment. Refs that are
// already escaped are decoded first so they are not escaped twice.
func EscapeRef(ref string) string {
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	return url.PathEscape(ref)
}
