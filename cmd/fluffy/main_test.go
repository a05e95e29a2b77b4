package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
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

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI("version")
	if code != 0 || !strings.Contains(out, "fluffy") {
		t.Fatalf("version: code=%d out=%q", code, out)
	}
	code, out, _ = runCLI("--help")
	if code != 0 || !strings.Contains(out, "Usage: fluffy") {
		t.Fatalf("help: code=%d out=%q", code, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI("frobnicate")
	if code != 1 || !strings.Contains(errOut, "unknown command") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestNoArgsPrintsUsage(t *testing.T) {
	code, _, errOut := runCLI()
	if code != 1 || !strings.Contains(errOut, "Usage: fluffy") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestRunSingleFile(t *testing.T) {
	root := t.TempDir()
	entry := writeFile(t, root, "main.fl", `
fn greet(name: String) -> String { "hello " + name }
print(greet("fluffy"))
`)
	code, out, errOut := runCLI("run", entry)
	if code != 0 {
		t.Fatalf("run failed: %s", errOut)
	}
	if out != "hello fluffy\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	root := t.TempDir()
	entry := writeFile(t, root, "main.fl", `
let n: Int = "nope"
`)
	code, _, errOut := runCLI("run", entry)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "not assignable") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestCheckDoesNotExecute(t *testing.T) {
	root := t.TempDir()
	entry := writeFile(t, root, "main.fl", `
print("side effect")
`)
	code, out, errOut := runCLI("check", entry)
	if code != 0 {
		t.Fatalf("check failed: %s", errOut)
	}
	if strings.Contains(out, "side effect") {
		t.Fatalf("check must not execute the program, stdout = %q", out)
	}
	if !strings.Contains(out, "checked") {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunUsesManifestEntry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "fluffy.yml", "name: demo\nentry: src/app.fl\n")
	writeFile(t, root, "src/app.fl", "print(\"from manifest entry\")\n")
	chdir(t, root)

	code, out, errOut := runCLI("run")
	if code != 0 {
		t.Fatalf("run failed: %s", errOut)
	}
	if out != "from manifest entry\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunWithImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "util/strings.fl", `
fn shout(s: String) -> String { s + "!" }
`)
	entry := writeFile(t, root, "main.fl", `
import "util/strings"

print(strings.shout("hey"))
`)
	code, out, errOut := runCLI("run", entry)
	if code != 0 {
		t.Fatalf("run failed: %s", errOut)
	}
	if out != "hey!\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunRuntimeErrorExitsNonZero(t *testing.T) {
	root := t.TempDir()
	entry := writeFile(t, root, "main.fl", `
let zero = 0
print(1 / zero)
`)
	code, _, errOut := runCLI("run", entry)
	if code != 1 || !strings.Contains(errOut, "division by zero") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestDepsWithoutManifest(t *testing.T) {
	chdir(t, t.TempDir())
	code, _, errOut := runCLI("deps")
	if code != 1 || !strings.Contains(errOut, "fluffy.yml") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestDepsSkipsPathDependencies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "fluffy.yml", `
name: demo
dependencies:
  local_lib:
    path: vendor/lib
`)
	writeFile(t, root, "vendor/lib/main.fl", "let v = 1\n")
	chdir(t, root)

	code, out, errOut := runCLI("deps")
	if code != 0 {
		t.Fatalf("deps failed: %s", errOut)
	}
	if !strings.Contains(out, "skipped local_lib") {
		t.Fatalf("stdout = %q", out)
	}
}
