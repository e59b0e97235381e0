package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kiteco/codetree/kite-go/codetree"
)

func TestPrintNodes(t *testing.T) {
	repo := codetree.RepoContext{Owner: "octo", Name: "repo", Branch: "main"}
	entries := []codetree.TreeEntry{
		{Path: "src", Type: codetree.EntryFolder, Patch: &codetree.DiffInfo{Action: "modified", Additions: 3, Deletions: 1, Changes: 2}},
		{Path: "src/main.go", Type: codetree.EntryFile, Size: 2048, Patch: &codetree.DiffInfo{Action: "added", Filename: "src/main.go", Additions: 3}},
		{Path: "lib", Type: codetree.EntrySubmodule},
	}
	modules := []codetree.SubmoduleEntry{{Name: "lib", Path: "lib", URL: "git@github.com:octo/lib.git"}}

	var buf bytes.Buffer
	printNodes(&buf, codetree.BuildNodes(repo, entries, modules), 0)

	assert.Equal(t, "src/ [2 files +3 -1]\n  main.go (2.0 kB) [added +3]\nlib @ https://github.com/octo/lib\n", buf.String())
}

func TestDiffSummary(t *testing.T) {
	assert.Equal(t, "", diffSummary(nil))

	diff := codetree.BuildDiffMap([]codetree.ChangedFile{
		{Filename: "a/x.go", Status: "modified", Additions: 1200, Deletions: 2},
		{Filename: "README.md", Status: "added", Additions: 4},
	})
	assert.Equal(t, "2 files changed, +1,204 -2", diffSummary(diff))
}

func writeFile(t *testing.T, name, contents string) string {
	dir, err := ioutil.TempDir("", "codetree-cmd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestRunNotRepositoryPage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(args{URL: "https://gitlab.com/octo/repo", NoFetch: true}, zap.NewNop(), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, "not a repository page\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunInvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := writeFile(t, "codetree.yaml", "timeout: [\n")
	code := run(args{URL: "https://github.com/octo/repo", Config: cfg, NoFetch: true}, zap.NewNop(), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "error parsing config")
}

func TestRunPrintsTree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v3/repos/octo/repo":
			fmt.Fprint(w, `{"default_branch":"main"}`)
		case "/api/v3/repos/octo/repo/git/trees/main":
			fmt.Fprint(w, `{"sha":"root","tree":[
				{"path":"src","type":"tree","sha":"t1"},
				{"path":"src/main.go","type":"blob","sha":"b1","size":2048}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
	defer server.Close()

	cfg := writeFile(t, "codetree.yaml", fmt.Sprintf("enterprise_urls: [%q]\nload_entire_tree: true\n", server.URL))

	var stdout, stderr bytes.Buffer
	code := run(args{URL: server.URL + "/octo/repo", Config: cfg, NoFetch: true}, zap.NewNop(), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "octo/repo@main "+server.URL+"\nsrc/\n  main.go (2.0 kB)\n", stdout.String())
}

func TestRunReportsBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer server.Close()

	cfg := writeFile(t, "codetree.yaml", fmt.Sprintf("enterprise_urls: [%q]\n", server.URL))

	var stdout, stderr bytes.Buffer
	code := run(args{URL: server.URL + "/octo/repo", Config: cfg, NoFetch: true}, zap.NewNop(), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Private repository (404)")
}
