package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GiGurra/fl/pkg/runtime"
)

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func TestLoaderOrdersImportsBeforeImporters(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "util/strings.fl", `
fn shout(s: String) -> String { s + "!" }
`)
	entry := writeSource(t, root, "main.fl", `
import "util/strings"

strings.shout("hey")
`)

	program, err := NewLoader(nil).Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(program.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(program.Modules))
	}
	if program.Modules[0].ImportPath != "util/strings" {
		t.Fatalf("dependency should come first, got %s", program.Modules[0].ImportPath)
	}
	if program.Entry != program.Modules[1] {
		t.Fatalf("entry should be last")
	}
}

func TestLoaderSharedImportParsedOnce(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "shared.fl", `let version = 1`)
	writeSource(t, root, "a.fl", "import \"shared\"\nlet a = 1\n")
	writeSource(t, root, "b.fl", "import \"shared\"\nlet b = 2\n")
	entry := writeSource(t, root, "main.fl", "import \"a\"\nimport \"b\"\nnil\n")

	program, err := NewLoader(nil).Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(program.Modules) != 4 {
		t.Fatalf("shared module duplicated: %d modules", len(program.Modules))
	}
}

func TestLoaderDetectsImportCycle(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.fl", "import \"b\"\nlet a = 1\n")
	writeSource(t, root, "b.fl", "import \"a\"\nlet b = 2\n")
	entry := writeSource(t, root, "main.fl", "import \"a\"\nnil\n")

	_, err := NewLoader(nil).Load(entry)
	if err == nil || !strings.Contains(err.Error(), "import cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoaderRejectsEscapingImport(t *testing.T) {
	root := t.TempDir()
	entry := writeSource(t, root, "main.fl", "import \"../outside\"\nnil\n")

	_, err := NewLoader(nil).Load(entry)
	if err == nil || !strings.Contains(err.Error(), "project-relative") {
		t.Fatalf("expected path escape error, got %v", err)
	}
}

func TestLoaderMissingImport(t *testing.T) {
	root := t.TempDir()
	entry := writeSource(t, root, "main.fl", "import \"nowhere\"\nnil\n")

	_, err := NewLoader(nil).Load(entry)
	if err == nil || !strings.Contains(err.Error(), "no module at") {
		t.Fatalf("expected missing module error, got %v", err)
	}
}

func TestLoaderResolvesPathDependency(t *testing.T) {
	root := t.TempDir()
	depRoot := filepath.Join(root, "vendor", "mathx")
	writeSource(t, depRoot, "main.fl", `
fn double(n: Int) -> Int { n * 2 }
`)
	manifestPath := writeManifest(t, root, `
name: demo
entry: main.fl
dependencies:
  mathx:
    path: vendor/mathx
`)
	entry := writeSource(t, root, "main.fl", `
import "mathx"

mathx.double(21)
`)

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
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

func TestProgramRunWiresImports(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "util/strings.fl", `
fn shout(s: String) -> String { s + "!" }
`)
	entry := writeSource(t, root, "main.fl", `
import "util/strings"

strings.shout("hey")
`)

	program, err := NewLoader(nil).Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value, err := program.Run(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runtime.Stringify(value) != "hey!" {
		t.Fatalf("entry evaluated to %s", runtime.Stringify(value))
	}
}

func TestProgramCheckReportsDiagnostics(t *testing.T) {
	root := t.TempDir()
	entry := writeSource(t, root, "main.fl", `
let n: Int = "nope"
`)
	program, err := NewLoader(nil).Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	results, err := program.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(results) != 1 || len(results[0].Diagnostics) == 0 {
		t.Fatalf("expected diagnostics for entry module, got %v", results)
	}
}
