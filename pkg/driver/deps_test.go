package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/GiGurra/fl/pkg/runtime"
)

// initGitFixture creates a repo with one committed .fl file and returns the
// commit hash.
func initGitFixture(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
		if _, err := worktree.Add(rel); err != nil {
			t.Fatalf("Add %s: %v", rel, err)
		}
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Fluffy CLI",
			Email: "fluffy@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestFetchDependenciesClonesGitDep(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "mathx")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	initGitFixture(t, repoDir, map[string]string{
		"main.fl": "fn double(n: Int) -> Int { n * 2 }\n",
	})

	projectDir := t.TempDir()
	manifestPath := writeManifest(t, projectDir, `
name: demo
entry: main.fl
dependencies:
  mathx:
    git: `+repoDir+`
`)
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	results, err := FetchDependencies(manifest)
	if err != nil {
		t.Fatalf("FetchDependencies: %v", err)
	}
	if len(results) != 1 || results[0].Skipped {
		t.Fatalf("expected one fetched dependency, got %+v", results)
	}
	cloned := filepath.Join(projectDir, filepath.FromSlash(DepsDirName), "mathx", "main.fl")
	if _, err := os.Stat(cloned); err != nil {
		t.Fatalf("clone missing %s: %v", cloned, err)
	}

	// Second fetch is a no-op.
	results, err = FetchDependencies(manifest)
	if err != nil {
		t.Fatalf("FetchDependencies again: %v", err)
	}
	if len(results) != 1 || !results[0].Skipped {
		t.Fatalf("expected idempotent skip, got %+v", results)
	}
}

func TestFetchDependenciesPinsRev(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "lib")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	first := initGitFixture(t, repoDir, map[string]string{
		"main.fl": "let version = 1\n",
	})
	// Advance the repo past the pinned commit.
	advanceFixture := func() {
		repo, err := git.PlainOpen(repoDir)
		if err != nil {
			t.Fatalf("PlainOpen: %v", err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			t.Fatalf("Worktree: %v", err)
		}
		if err := os.WriteFile(filepath.Join(repoDir, "main.fl"), []byte("let version = 2\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := worktree.Add("main.fl"); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := worktree.Commit("bump", &git.CommitOptions{
			Author: &object.Signature{Name: "Fluffy CLI", Email: "fluffy@example.com", When: time.Now()},
		}); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}
	advanceFixture()

	projectDir := t.TempDir()
	manifestPath := writeManifest(t, projectDir, `
name: demo
dependencies:
  lib:
    git: `+repoDir+`
    rev: `+first+`
`)
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if _, err := FetchDependencies(manifest); err != nil {
		t.Fatalf("FetchDependencies: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(projectDir, filepath.FromSlash(DepsDirName), "lib", "main.fl"))
	if err != nil {
		t.Fatalf("read checkout: %v", err)
	}
	if string(data) != "let version = 1\n" {
		t.Fatalf("checkout not pinned to rev, got %q", string(data))
	}
}

func TestFetchedDependencyIsImportable(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "mathx")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	initGitFixture(t, repoDir, map[string]string{
		"main.fl": "fn triple(n: Int) -> Int { n * 3 }\n",
	})

	projectDir := t.TempDir()
	manifestPath := writeManifest(t, projectDir, `
name: demo
entry: main.fl
dependencies:
  mathx:
    git: `+repoDir+`
`)
	entry := writeSource(t, projectDir, "main.fl", `
import "mathx"

mathx.triple(14)
`)

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if _, err := FetchDependencies(manifest); err != nil {
		t.Fatalf("FetchDependencies: %v", err)
	}

	program, err := NewLoader(manifest).Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value, err := program.Run(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runtime.Stringify(value) != "42" {
		t.Fatalf("entry evaluated to %s", runtime.Stringify(value))
	}
}
