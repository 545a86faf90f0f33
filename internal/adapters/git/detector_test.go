package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("focus"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := worktree.Add("notes.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}
	hash, err := worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return dir, hash.String()
}

func TestDetector_Detect(t *testing.T) {
	dir, hash := initRepo(t)
	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	info, err := NewDetector().Detect(context.Background(), sub)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Commit != hash {
		t.Errorf("Commit = %v, want %v", info.Commit, hash)
	}
	if info.Branch != "master" && info.Branch != "main" {
		t.Errorf("Branch = %v, want master or main", info.Branch)
	}
}

func TestDetector_NotARepo(t *testing.T) {
	if _, err := NewDetector().Detect(context.Background(), t.TempDir()); err == nil {
		t.Error("Detect() outside a repository should fail")
	}
}

func TestDetector_DetachedHead(t *testing.T) {
	dir, hash := initRepo(t)
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatal(err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(hash)}); err != nil {
		t.Fatalf("Failed to detach HEAD: %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := "detached@" + hash[:7]; info.Branch != want {
		t.Errorf("Branch = %v, want %v", info.Branch, want)
	}
}

func TestDetector_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDetector().Detect(ctx, t.TempDir()); err == nil {
		t.Error("Detect() with a canceled context should fail")
	}
}

func TestShortCommit(t *testing.T) {
	if got := ShortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("ShortCommit() = %v, want 0123456", got)
	}
	if got := ShortCommit("abc"); got != "abc" {
		t.Errorf("ShortCommit() = %v, want abc", got)
	}
}
