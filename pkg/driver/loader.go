package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/parser"
)

// DepsDirName is where fetched git dependencies are checked out, relative to
// the project root.
const DepsDirName = ".fluffy/deps"

// Module is one parsed source file addressed by its import path.
type Module struct {
	ImportPath string
	File       string
	AST        *ast.Module
}

// Program is a set of modules in dependency order, entry last.
type Program struct {
	Modules []*Module
	Entry   *Module
}

// Loader resolves import paths against the project root and its declared
// dependencies, parses each file once, and orders the result.
type Loader struct {
	manifest *Manifest
	root     string
	cache    map[string]*Module
}

// NewLoader builds a loader for the project owning the manifest. A nil
// manifest loads single files with imports resolved against their directory.
func NewLoader(manifest *Manifest) *Loader {
	root := ""
	if manifest != nil {
		root = manifest.Dir()
	}
	return &Loader{
		manifest: manifest,
		root:     root,
		cache:    make(map[string]*Module),
	}
}

// Load parses the entry file and every transitive import, returning modules
// in topological order with the entry last. Import cycles are errors.
func (l *Loader) Load(entryFile string) (*Program, error) {
	abs, err := filepath.Abs(entryFile)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", entryFile, err)
	}
	if l.root == "" {
		l.root = filepath.Dir(abs)
	}

	program := &Program{}
	visiting := make(map[string]bool)
	entry, err := l.load(entryImportPath(l.root, abs), abs, visiting, program)
	if err != nil {
		return nil, err
	}
	program.Entry = entry
	return program, nil
}

func entryImportPath(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".fl")
}

func (l *Loader) load(importPath, file string, visiting map[string]bool, program *Program) (*Module, error) {
	if module, ok := l.cache[importPath]; ok {
		return module, nil
	}
	if visiting[importPath] {
		return nil, fmt.Errorf("driver: import cycle detected at %s", importPath)
	}
	visiting[importPath] = true
	defer delete(visiting, importPath)

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", file, err)
	}
	parsed, err := parser.ParseModule(string(src))
	if err != nil {
		return nil, fmt.Errorf("driver: %s: %w", file, err)
	}

	for _, imp := range parsed.Imports {
		depFile, err := l.resolveImport(imp.Path)
		if err != nil {
			return nil, fmt.Errorf("driver: %s: %w", file, err)
		}
		if _, err := l.load(imp.Path, depFile, visiting, program); err != nil {
			return nil, err
		}
	}

	module := &Module{ImportPath: importPath, File: file, AST: parsed}
	l.cache[importPath] = module
	program.Modules = append(program.Modules, module)
	return module, nil
}

// resolveImport maps an import path to a source file. The first path segment
// may name a declared dependency; otherwise the path is relative to the
// project root.
func (l *Loader) resolveImport(importPath string) (string, error) {
	if importPath == "" {
		return "", fmt.Errorf("empty import path")
	}
	if strings.HasPrefix(importPath, "/") || strings.Contains(importPath, "..") {
		return "", fmt.Errorf("import %q must be a clean project-relative path", importPath)
	}

	segments := strings.Split(importPath, "/")
	if l.manifest != nil {
		if dep, ok := l.manifest.Dependencies[segments[0]]; ok {
			depRoot, err := l.dependencyRoot(segments[0], dep)
			if err != nil {
				return "", err
			}
			return l.fileFor(depRoot, segments[1:], importPath)
		}
	}
	return l.fileFor(l.root, segments, importPath)
}

func (l *Loader) fileFor(root string, segments []string, importPath string) (string, error) {
	if len(segments) == 0 {
		// Importing a bare dependency name loads its entry module.
		segments = []string{"main"}
	}
	file := filepath.Join(append([]string{root}, segments...)...) + ".fl"
	if _, err := os.Stat(file); err != nil {
		return "", fmt.Errorf("import %q: no module at %s", importPath, file)
	}
	return file, nil
}

func (l *Loader) dependencyRoot(name string, dep *DependencySpec) (string, error) {
	if dep.Path != "" {
		root := dep.Path
		if !filepath.IsAbs(root) {
			root = filepath.Join(l.root, root)
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return "", fmt.Errorf("dependency %q: path %s is not a directory", name, root)
		}
		return root, nil
	}
	root := filepath.Join(l.root, filepath.FromSlash(DepsDirName), name)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("dependency %q is not fetched; run 'fluffy deps' first", name)
	}
	return root, nil
}
