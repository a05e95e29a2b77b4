package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchResult reports what happened to one declared dependency.
type FetchResult struct {
	Name    string
	Dir     string
	Skipped bool
}

// FetchDependencies clones every git dependency under .fluffy/deps/<name>.
// Existing checkouts are left alone, so the operation is idempotent; path
// dependencies need no fetching and are skipped.
func FetchDependencies(manifest *Manifest) ([]FetchResult, error) {
	if manifest == nil {
		return nil, fmt.Errorf("driver: manifest is nil")
	}

	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []FetchResult
	for _, name := range names {
		dep := manifest.Dependencies[name]
		if dep == nil || dep.Git == "" {
			results = append(results, FetchResult{Name: name, Skipped: true})
			continue
		}
		dir := filepath.Join(manifest.Dir(), filepath.FromSlash(DepsDirName), name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			results = append(results, FetchResult{Name: name, Dir: dir, Skipped: true})
			continue
		}
		if err := cloneDependency(dir, dep); err != nil {
			return results, fmt.Errorf("driver: fetch %s: %w", name, err)
		}
		results = append(results, FetchResult{Name: name, Dir: dir})
	}
	return results, nil
}

func cloneDependency(dir string, dep *DependencySpec) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return err
	}

	options := &git.CloneOptions{URL: dep.Git}
	switch {
	case dep.Tag != "":
		options.ReferenceName = plumbing.NewTagReferenceName(dep.Tag)
		options.SingleBranch = true
		options.Depth = 1
	case dep.Branch != "":
		options.ReferenceName = plumbing.NewBranchReferenceName(dep.Branch)
		options.SingleBranch = true
		options.Depth = 1
	case dep.Rev == "":
		options.Depth = 1
	}

	repo, err := git.PlainClone(dir, false, options)
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("git clone %s: %w", dep.Git, err)
	}

	// An explicit rev needs full history, then a detached checkout.
	if dep.Rev != "" {
		hash, err := repo.ResolveRevision(plumbing.Revision(dep.Rev))
		if err != nil {
			_ = os.RemoveAll(dir)
			return fmt.Errorf("resolve revision %s: %w", dep.Rev, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			_ = os.RemoveAll(dir)
			return err
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
			_ = os.RemoveAll(dir)
			return fmt.Errorf("git checkout %s: %w", dep.Rev, err)
		}
	}
	return nil
}
