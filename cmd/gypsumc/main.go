// Command gypsumc drives the Gypsum-to-CodeSwitch compiler core: build
// one package, write its binary encoding to a file. Dispatch is
// adapted from the teacher's cmd/sentra/main.go (alias map, --help/
// --version handling) cut down to the single verb spec.md's CLI note
// describes: "one compile invocation per package; inputs are source
// paths; output is one binary path."
//
// The lexer, parser, and declaration/type analysis that would turn
// source paths into the annotated AST internal/cfg consumes are out of
// scope (spec.md: "Deliberately OUT of scope ... source driver and
// CLI"). Until a real front end exists, gypsumc always lowers the
// fixed sample package built by buildSamplePackage, so the remaining
// pipeline stages — layout, CFG construction, serialization — still
// have a concrete, runnable entry point to exercise end to end.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"gypsumc/internal/errors"
	"gypsumc/internal/serialize"
)

const version = "0.4.0"

var commandAliases = map[string]string{
	"c": "compile",
	"d": "dump-ir",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is gypsumc's entry point, factored out of main so
// testscript.RunMain (cmd/gypsumc/cli_test.go) can register it as the
// "gypsumc" command that the re-executed test binary runs, instead of
// calling os.Exit directly.
func run(args []string) int {
	if len(args) == 0 {
		showUsage()
		return 1
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
		return 0
	case "--version", "-v", "version":
		fmt.Println("gypsumc " + version)
		return 0
	case "compile":
		return runCompile(args[1:])
	case "dump-ir":
		return runDumpIR(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "gypsumc: unknown command %q\n\n", args[0])
		showUsage()
		return 1
	}
}

func showUsage() {
	fmt.Println(`usage: gypsumc <command> [arguments]

commands:
  compile <output>   compile the package and write its binary encoding
  dump-ir            print the package's IR in human-readable form
  help                show this message
  version             print the compiler version`)
}

// runCompile writes the sample package's binary encoding to outPath, or
// to standard output when outPath is "-" (serialize.py: `if fileName ==
// "-": outFile = sys.stdout`).
func runCompile(args []string) int {
	if len(args) != 1 {
		return fatalf("compile: expected exactly one output path")
	}
	outPath := args[0]

	pkg, err := buildSamplePackage()
	if err != nil {
		return fatalCompileError(err)
	}

	if outPath == "-" {
		if err := serialize.Write(pkg, os.Stdout); err != nil {
			return fatalf("compile: %v", err)
		}
		return 0
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fatalf("compile: creating %s: %v", outPath, err)
	}
	defer out.Close()

	if err := serialize.Write(pkg, out); err != nil {
		return fatalf("compile: %v", err)
	}

	info, err := out.Stat()
	if err != nil {
		return fatalf("compile: stat %s: %v", outPath, err)
	}
	fmt.Printf("wrote %s (%s)\n", outPath, humanize.Bytes(uint64(info.Size())))
	return 0
}

func runDumpIR(args []string) int {
	if len(args) != 0 {
		return fatalf("dump-ir: takes no arguments")
	}
	pkg, err := buildSamplePackage()
	if err != nil {
		return fatalCompileError(err)
	}
	fmt.Print(pkg.String())
	return 0
}

// fatalCompileError prints err to stderr: colorized when err is a
// *errors.CompileError and stderr is a terminal (go-isatty), plain
// otherwise (e.g. when piped to a file in CI).
func fatalCompileError(err error) int {
	msg := err.Error()
	if _, ok := err.(*errors.CompileError); ok && isatty.IsTerminal(os.Stderr.Fd()) {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(os.Stderr, msg)
	return 1
}

func fatalf(format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return 1
}
