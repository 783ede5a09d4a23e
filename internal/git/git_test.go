package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// newSourceRepo creates a repository with two commits on branch "main" and
// returns its path and the tip hash.
func newSourceRepo(t *testing.T) (string, string) {
	t.Helper()

	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not available for local transport")
		}
	}

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}

	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}
	var head plumbing.Hash
	for i, content := range []string{"#!/bin/sh\necho one\n", "#!/bin/sh\necho two\n"} {
		if err := os.WriteFile(filepath.Join(dir, "install.sh"), []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add("install.sh"); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		head, err = wt.Commit("commit", &gogit.CommitOptions{Author: sig})
		if err != nil {
			t.Fatalf("Commit(%d) error = %v", i, err)
		}
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), head)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("SetReference() error = %v", err)
	}
	return dir, head.String()
}

func TestClient_ShallowClone(t *testing.T) {
	src, tip := newSourceRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")
	ctx := context.Background()

	client := NewClient(dest)
	if err := client.ShallowClone(ctx, src, "main"); err != nil {
		t.Fatalf("ShallowClone() error = %v", err)
	}

	got, err := client.GetHeadCommit(ctx)
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}
	if got != tip {
		t.Errorf("GetHeadCommit() = %s, want %s", got, tip)
	}

	data, err := os.ReadFile(filepath.Join(dest, "install.sh"))
	if err != nil {
		t.Fatalf("cloned install.sh missing: %v", err)
	}
	if string(data) != "#!/bin/sh\necho two\n" {
		t.Errorf("install.sh = %q, want tip content", data)
	}
}

func TestClient_ShallowClone_Errors(t *testing.T) {
	ctx := context.Background()

	if err := NewClient(t.TempDir()).ShallowClone(ctx, "", "main"); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("ShallowClone(empty url) error = %v, want ErrEmptyURL", err)
	}

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	dest := filepath.Join(t.TempDir(), "clone")
	err := NewClient(dest).ShallowClone(ctx, missing, "main")
	if !errors.Is(err, ErrCloneFailed) {
		t.Errorf("ShallowClone(missing repo) error = %v, want ErrCloneFailed", err)
	}
	// The go-git cause stays reachable for errors.Is/As.
	if multi, ok := err.(interface{ Unwrap() []error }); !ok || len(multi.Unwrap()) != 2 || multi.Unwrap()[1] == nil {
		t.Errorf("ShallowClone(missing repo) error = %v, want ErrCloneFailed wrapping the clone cause", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := NewClient(dest).ShallowClone(cancelled, "https://example.com/x.git", ""); !errors.Is(err, context.Canceled) {
		t.Errorf("ShallowClone(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestClient_ShallowClone_UnknownBranch(t *testing.T) {
	src, _ := newSourceRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")

	err := NewClient(dest).ShallowClone(context.Background(), src, "no-such-branch")
	if !errors.Is(err, ErrCloneFailed) {
		t.Errorf("ShallowClone(unknown branch) error = %v, want ErrCloneFailed", err)
	}
}

func TestClient_IsGitRepo(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	ok, err := NewClient(dir).IsGitRepo(ctx)
	if err != nil || ok {
		t.Errorf("IsGitRepo(empty dir) = %v, %v; want false, nil", ok, err)
	}

	if _, err := gogit.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	ok, err = NewClient(dir).IsGitRepo(ctx)
	if err != nil || !ok {
		t.Errorf("IsGitRepo(repo) = %v, %v; want true, nil", ok, err)
	}
}

func TestClient_GetHeadCommit_NotARepo(t *testing.T) {
	_, err := NewClient(t.TempDir()).GetHeadCommit(context.Background())
	if !errors.Is(err, ErrNotAGitRepo) {
		t.Errorf("GetHeadCommit() error = %v, want ErrNotAGitRepo", err)
	}
}
