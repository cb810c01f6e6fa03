package gitref

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luciano-fiandesio/proto-events-release/errors"
)

func newRepoWithCommit(t *testing.T) (*git.Repository, plumbing.Hash) {
	t.Helper()

	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fs, "events.proto", []byte(`syntax = "proto3";`), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("events.proto")
	require.NoError(t, err)

	hash, err := wt.Commit("add events schema", &git.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return repo, hash
}

func TestHeadTagLightweight(t *testing.T) {
	repo, hash := newRepoWithCommit(t)
	_, err := repo.CreateTag("product/my-service/release/1.2.3", hash, nil)
	require.NoError(t, err)

	name, err := headTag(repo)
	require.NoError(t, err)
	assert.Equal(t, "product/my-service/release/1.2.3", name)
}

func TestHeadTagAnnotated(t *testing.T) {
	repo, hash := newRepoWithCommit(t)
	_, err := repo.CreateTag("my-service/release/2.0.0-beta", hash, &git.CreateTagOptions{
		Message: "release 2.0.0-beta",
		Tagger:  &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	name, err := headTag(repo)
	require.NoError(t, err)
	assert.Equal(t, "my-service/release/2.0.0-beta", name)
}

func TestHeadTagNoTags(t *testing.T) {
	repo, _ := newRepoWithCommit(t)

	_, err := headTag(repo)
	require.Error(t, err)
	assert.Equal(t, errors.CodeGitFailed, errors.GetCode(err))
}

func TestHeadTagAmbiguous(t *testing.T) {
	repo, hash := newRepoWithCommit(t)
	_, err := repo.CreateTag("product/a/release/1.0.0", hash, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("product/b/release/1.0.0", hash, nil)
	require.NoError(t, err)

	_, err = headTag(repo)
	require.Error(t, err)
	assert.Equal(t, errors.CodeGitFailed, errors.GetCode(err))
	assert.Contains(t, err.Error(), "expected exactly one")
}

func TestHeadTagNotARepo(t *testing.T) {
	_, err := HeadTag(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errors.CodeGitFailed, errors.GetCode(err))
}
