package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GiGurra/fl/pkg/driver"
)

const cliVersion = "fluffy 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliVersion)
		return 0
	case "run":
		return runProgram(args[1:], stdout, stderr, true)
	case "check":
		return runProgram(args[1:], stdout, stderr, false)
	case "deps":
		return runDeps(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: fluffy <command> [arguments]

Commands:
  run [file]    typecheck and execute a program (default: manifest entry)
  check [file]  typecheck without executing
  deps          fetch git dependencies declared in fluffy.yml
  version       print the CLI version
  help          print this message
`)
}

// resolveEntry locates the entry file and, when present, the owning
// manifest. An explicit file wins; otherwise the manifest's entry is used.
func resolveEntry(args []string, stderr io.Writer) (string, *driver.Manifest, bool) {
	if len(args) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", args[1:])
		return "", nil, false
	}

	if len(args) == 1 {
		entry := args[0]
		abs, err := filepath.Abs(entry)
		if err != nil {
			fmt.Fprintf(stderr, "resolve %s: %v\n", entry, err)
			return "", nil, false
		}
		var manifest *driver.Manifest
		if manifestPath, err := driver.FindManifest(filepath.Dir(abs)); err == nil {
			manifest, err = driver.LoadManifest(manifestPath)
			if err != nil {
				fmt.Fprintf(stderr, "%v\n", err)
				return "", nil, false
			}
		}
		return abs, manifest, true
	}

	manifestPath, err := driver.FindManifest(".")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return "", nil, false
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return "", nil, false
	}
	entry := manifest.Entry
	if entry == "" {
		entry = "main.fl"
	}
	return filepath.Join(manifest.Dir(), filepath.FromSlash(entry)), manifest, true
}

func runProgram(args []string, stdout, stderr io.Writer, execute bool) int {
	entry, manifest, ok := resolveEntry(args, stderr)
	if !ok {
		return 1
	}

	program, err := driver.NewLoader(manifest).Load(entry)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	results, err := program.Check()
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if len(results) > 0 {
		for _, result := range results {
			for _, diag := range result.Diagnostics {
				fmt.Fprintf(stderr, "%s: %s\n", result.Module.File, diag.Message)
			}
		}
		return 1
	}
	if !execute {
		fmt.Fprintf(stdout, "ok: %d module(s) checked\n", len(program.Modules))
		return 0
	}

	if _, err := program.Run(stdout); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

func runDeps(args []string, stdout, stderr io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return 1
	}
	manifestPath, err := driver.FindManifest(".")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	results, err := driver.FetchDependencies(manifest)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	for _, result := range results {
		if result.Skipped {
			fmt.Fprintf(stdout, "skipped %s\n", result.Name)
			continue
		}
		fmt.Fprintf(stdout, "fetched %s -> %s\n", result.Name, result.Dir)
	}
	return 0
}
