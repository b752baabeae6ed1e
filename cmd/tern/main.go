package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tern-lang/tern/internal/diag"
	"github.com/tern-lang/tern/internal/scanner"
	"github.com/tern-lang/tern/internal/source"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tern <command> [arguments]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  scan <file>     Tokenize a Tern source file and dump the tokens\n")
		fmt.Fprintf(os.Stderr, "  version         Show version information\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "scan":
		runScan(flag.Args()[1:])
	case "version", "-v", "--version":
		runVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

func runScan(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tern scan <file>\n")
		os.Exit(1)
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %v\n", err)
		os.Exit(1)
	}

	file := source.NewFile(filename, string(data))
	s := scanner.New(file.Content)
	toks := s.Scan()

	for _, tok := range toks {
		line, col := file.Position(tok.Span.Start)
		fmt.Printf("%s:%d:%d\t%s\t%q\n", filename, line, col, tok.Type, tok.Raw)
	}

	if len(s.Errors) > 0 {
		formatter := diag.NewFormatter(os.Stderr)
		formatter.AddFile(file)
		for _, e := range s.Errors {
			formatter.Format(e.ToDiagnostic(filename))
		}
		os.Exit(1)
	}
}

func runVersion() {
	// The TERN_VERSION environment variable overrides the default.
	version := "dev"
	if v := os.Getenv("TERN_VERSION"); v != "" {
		version = v
	}
	fmt.Printf("tern version %s\n", version)
}
