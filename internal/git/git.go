// Package git clones the installer repository with go-git. No git binary is
// needed for HTTPS and SSH remotes.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Common Git errors
var (
	ErrEmptyURL    = errors.New("repository URL cannot be empty")
	ErrCloneFailed = errors.New("git clone failed")
	ErrNotAGitRepo = errors.New("not a git repository")
	ErrInvalidRepo = errors.New("invalid git repository")
)

// Git is the interface for the repository operations the bootstrap needs.
type Git interface {
	ShallowClone(ctx context.Context, url, branch string) error
	GetHeadCommit(ctx context.Context) (string, error)
	IsGitRepo(ctx context.Context) (bool, error)
}

// Client implements Git for a single working directory.
type Client struct {
	repoPath string
	progress io.Writer
}

// NewClient creates a new Git client for the given repository path.
func NewClient(repoPath string) *Client {
	return &Client{repoPath: repoPath}
}

// WithProgress sets where remote progress messages are written.
func (c *Client) WithProgress(w io.Writer) *Client {
	c.progress = w
	return c
}

// ShallowClone clones the tip of branch from url into the client's path.
// An empty branch follows the remote HEAD. Only one commit is fetched and
// tags are skipped.
func (c *Client) ShallowClone(ctx context.Context, url, branch string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if url == "" {
		return ErrEmptyURL
	}

	opts := &gogit.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         gogit.NoTags,
		Progress:     c.progress,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	if _, err := gogit.PlainCloneContext(ctx, c.repoPath, false, opts); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("context cancelled: %w", ctxErr)
		}
		return fmt.Errorf("%w: %s (branch %q): %w", ErrCloneFailed, url, branch, err)
	}
	return nil
}

// GetHeadCommit returns the commit hash of HEAD.
func (c *Client) GetHeadCommit(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := gogit.PlainOpen(c.repoPath)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return "", fmt.Errorf("%w: %s", ErrNotAGitRepo, c.repoPath)
	}
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}

	return ref.Hash().String(), nil
}

// IsGitRepo checks if the path is a valid git repository.
// Returns (true, nil) if valid, (false, nil) if not exists, (false, err) if corrupted.
func (c *Client) IsGitRepo(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	_, err := gogit.PlainOpen(c.repoPath)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidRepo, err.Error())
	}
	return true, nil
}
