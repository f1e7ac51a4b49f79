// Package main provides the CLI entry point for gotypst.
//
// Usage:
//
//	gotypst compile input.typ -o output.pdf
//	gotypst compile input.typ                   # outputs to input.pdf
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gotypst "typstcore"
	"typstcore/eval"
	"typstcore/kit"
	"typstcore/pdf"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile", "c":
		if err := runCompile(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		printVersion()
	default:
		// Assume single argument is input file for compile
		if err := runCompile(os.Args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println(`gotypst - A Go implementation of Typst

Usage:
  gotypst compile <input.typ> [-o <output.pdf>]
  gotypst <input.typ> [-o <output.pdf>]
  gotypst help
  gotypst version

Commands:
  compile, c    Compile a Typst document to PDF
  help          Show this help message
  version       Show version information

Options:
  -o, --output  Output file path (default: input file with .pdf extension)
  --root        Project root directory (default: input file directory)
  --font-path   Additional font directories (can be specified multiple times)`)
}

func printVersion() {
	fmt.Println("gotypst version 0.1.0")
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	output := fs.String("o", "", "Output file path")
	outputLong := fs.String("output", "", "Output file path (long form)")
	root := fs.String("root", "", "Project root directory")
	var fontPaths []string
	fs.Func("font-path", "Additional font directory", func(s string) error {
		fontPaths = append(fontPaths, s)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("missing input file")
	}

	input := fs.Arg(0)

	// Determine output path
	outPath := *output
	if outPath == "" {
		outPath = *outputLong
	}
	if outPath == "" {
		// Default to input file with .pdf extension
		ext := filepath.Ext(input)
		outPath = strings.TrimSuffix(input, ext) + ".pdf"
	}

	// Determine project root
	projectRoot := *root
	if projectRoot == "" {
		projectRoot = filepath.Dir(input)
	}

	return compile(input, outPath, projectRoot, fontPaths)
}

// compile performs the full compilation pipeline:
// Parse -> Evaluate -> Layout -> Render
// compile resolves a FileWorld for the input and hands it to the shared
// library entry point, which owns the parse/evaluate/converge pipeline;
// this function is left with only CLI-specific concerns: path resolution,
// diagnostic printing, and PDF export.
func compile(inputPath, outputPath, projectRoot string, fontPaths []string) error {
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("cannot resolve input path: %w", err)
	}

	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("cannot resolve project root: %w", err)
	}

	opts := []kit.FileWorldOption{kit.WithLibrary(eval.Library())}
	if len(fontPaths) > 0 {
		opts = append(opts, kit.WithFontDirs(fontPaths...))
	}

	mainPath, err := filepath.Rel(absRoot, absInput)
	if err != nil {
		mainPath = absInput
	}

	world, err := kit.NewFileWorld(absRoot, mainPath, opts...)
	if err != nil {
		return fmt.Errorf("cannot create world: %w", err)
	}

	result := gotypst.Compile(world)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}
	if !result.Success() {
		return formatDiagnostics(result.Errors)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer outFile.Close()

	if err := pdf.Export(result.Document, outFile); err != nil {
		return fmt.Errorf("PDF export failed: %w", err)
	}

	fmt.Printf("Compiled %s -> %s\n", inputPath, outputPath)
	return nil
}

// formatDiagnostics joins compile errors into a single reportable error.
func formatDiagnostics(diags []gotypst.SourceDiagnostic) error {
	if len(diags) == 0 {
		return fmt.Errorf("compilation failed")
	}

	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}

	return fmt.Errorf("%s", strings.Join(msgs, "\n  "))
}
