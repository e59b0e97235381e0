package codetree

import (
	"context"
	"sync"
)

type treeCall struct {
	ref       string
	recursive bool
	token     string
}

type fakeBackend struct {
	m sync.Mutex

	defaultBranch string
	defaultErr    error
	defaultCalls  int

	tree      []TreeEntry
	treeErr   error
	treeCalls []treeCall

	files      []ChangedFile
	filesErr   error
	filesCalls int

	blobs     map[string][]byte
	blobErr   error
	blobCalls int
}

func (f *fakeBackend) DefaultBranch(ctx context.Context, owner, name, token string) (string, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.defaultCalls++
	return f.defaultBranch, f.defaultErr
}

func (f *fakeBackend) Tree(ctx context.Context, repo RepoContext, ref string, recursive bool, token string) ([]TreeEntry, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.treeCalls = append(f.treeCalls, treeCall{ref: ref, recursive: recursive, token: token})
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return append([]TreeEntry(nil), f.tree...), nil
}

func (f *fakeBackend) PullRequestFiles(ctx context.Context, repo RepoContext, pull int, token string) ([]ChangedFile, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.filesCalls++
	return f.files, f.filesErr
}

func (f *fakeBackend) Blob(ctx context.Context, repo RepoContext, sha, token string) ([]byte, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.blobCalls++
	if f.blobErr != nil {
		return nil, f.blobErr
	}
	return f.blobs[sha], nil
}
