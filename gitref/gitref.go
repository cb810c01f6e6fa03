// Package gitref resolves the release tag from a git repository, for runs
// where the caller passes "@" instead of a literal tag string. The tag the CI
// system hands to the pipeline always originates as a git tag, so a local run
// can read it straight from HEAD.
package gitref

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/luciano-fiandesio/proto-events-release/errors"
)

// HeadTag returns the name of the tag pointing at HEAD of the repository
// containing dir. Exactly one tag must point at HEAD; zero or several is an
// error, because the release flow cannot guess which release is meant.
func HeadTag(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeGitFailed, "opening git repository")
	}
	return headTag(repo)
}

func headTag(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeGitFailed, "resolving HEAD")
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeGitFailed, "listing tags")
	}

	var matches []string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		// Annotated tags point at a tag object; follow it to the commit.
		if obj, tagErr := repo.TagObject(ref.Hash()); tagErr == nil {
			target = obj.Target
		}
		if target == head.Hash() {
			matches = append(matches, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeGitFailed, "iterating tags")
	}

	switch len(matches) {
	case 0:
		return "", errors.New(errors.CodeGitFailed, "no tag points at HEAD")
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf(errors.CodeGitFailed,
			"%d tags point at HEAD, expected exactly one", len(matches))
	}
}
