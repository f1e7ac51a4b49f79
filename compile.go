// Package gotypst provides a Go implementation of the Typst typesetting system.
//
// This file implements the compile pipeline that wires together:
// Parse -> Evaluate -> Realize -> Layout -> Render

package gotypst

import (
	"fmt"

	"typstcore/eval"
	"typstcore/introspect"
	"typstcore/layout/pages"
	"typstcore/memo"
	"typstcore/realize"
	"typstcore/syntax"
)

// CompileResult holds the result of a compilation.
type CompileResult struct {
	// Document is the laid out document, nil if compilation failed.
	Document *pages.PagedDocument

	// Warnings contains non-fatal warnings generated during compilation.
	Warnings []SourceDiagnostic

	// Errors contains fatal errors that prevented compilation.
	Errors []SourceDiagnostic
}

// Success returns true if compilation completed without errors.
func (r *CompileResult) Success() bool {
	return len(r.Errors) == 0 && r.Document != nil
}

// SourceDiagnostic represents a diagnostic message with source location.
type SourceDiagnostic struct {
	// Span is the source location of the diagnostic.
	Span syntax.Span

	// Severity indicates error or warning.
	Severity DiagnosticSeverity

	// Message is the diagnostic message.
	Message string

	// Hints are optional suggestions for resolving the issue.
	Hints []string
}

// DiagnosticSeverity indicates the severity of a diagnostic.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota
	SeverityWarning
)

// Compile compiles a Typst document from the given world.
//
// The compilation pipeline consists of:
//  1. Parse: Read and parse the main source file
//  2. Evaluate: Execute the source to produce content
//  3. Converge: repeatedly Realize (show/set rules, location assignment,
//     counter/state registration) and Layout against a growing
//     introspector snapshot until element positions stop moving
//
// The World interface provides access to source files, the standard library,
// and other resources needed during compilation.
func Compile(world eval.World) *CompileResult {
	result := &CompileResult{}

	// Step 1: Get the main source file
	mainFile := world.MainFile()
	source, err := world.Source(mainFile)
	if err != nil {
		result.Errors = append(result.Errors, SourceDiagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("cannot read main file: %v", err),
		})
		return result
	}

	// Step 2/3: Evaluate, realize, and layout the content, converging on a
	// stable set of element locations and counter/state values.
	// Evaluation is re-run on every pass (not just realization) because
	// contextual calls like counter(..).final() or query(..) resolve
	// against the introspector snapshot carried on the evaluation
	// context, which only grows richer as passes proceed.
	measureCache.Advance()
	layoutEngine := &pages.Engine{World: world, MeasureCache: measureCache}
	locator := introspect.Root(0)

	// Each pass replaces the previous pass's evaluation warnings, so only
	// the pass whose result Converge returns contributes them.
	var passWarnings []SourceDiagnostic

	run := func(ins *introspect.Introspector, iteration int) (*pages.PagedDocument, *introspect.Registry, error) {
		registry := introspect.NewRegistry()

		content, warnings, err := evaluate(world, source, mainFile, ins)
		passWarnings = warnings
		if err != nil {
			return nil, registry, err
		}

		realizeEngine := eval.NewEngine(world)
		located, err := realize.RealizeDocument(
			realize.LayoutDocument{},
			realizeEngine,
			content,
			realize.EmptyStyleChain(),
			locator,
			registry,
			ins,
		)
		if err != nil {
			return nil, registry, err
		}

		elements := make([]eval.ContentElement, 0, len(located))
		for _, lp := range located {
			switch lp.Element.(type) {
			case nil, *eval.CounterStepElem, *eval.StateUpdateElem:
				continue
			}
			elements = append(elements, lp.Element)
		}
		pageContent := &pages.Content{Elements: elements}
		styles := pages.StyleChain{Styles: map[string]interface{}{}}

		doc, err := pages.LayoutDocument(layoutEngine, pageContent, styles)
		if err != nil {
			return nil, registry, err
		}
		return doc, registry, nil
	}

	doc, convWarnings, err := introspect.Converge(run, introspect.ConvergeOptions{})
	result.Warnings = append(result.Warnings, passWarnings...)
	for _, w := range convWarnings {
		result.Warnings = append(result.Warnings, SourceDiagnostic{
			Severity: SeverityWarning,
			Message:  w.Message,
		})
	}
	if err != nil {
		result.Errors = append(result.Errors, diagnosticFromError(err))
		return result
	}

	result.Document = doc
	measureCache.Evict(measureCacheMaxAge)
	return result
}

// evaluate parses and evaluates a source file. ins is the introspector
// snapshot from the previous convergence pass (nil on the first pass),
// made available to contextual calls such as counter(..).final() and
// query(..) through the evaluation context.
func evaluate(world eval.World, source *syntax.Source, fileID eval.FileID, ins *introspect.Introspector) (*eval.Content, []SourceDiagnostic, error) {
	var warnings []SourceDiagnostic

	// Check for parser errors
	root := source.Root()
	if root == nil {
		return nil, warnings, fmt.Errorf("source has no root")
	}

	if errs := root.Errors(); len(errs) > 0 {
		return nil, warnings, fmt.Errorf("parse error: %v", errs[0])
	}

	// Create the evaluation engine
	engine := eval.NewEngine(world)

	// Create scopes with the standard library
	scopes := eval.NewScopes(world.Library())

	// Create the VM for evaluation
	ctx := eval.NewContext()
	ctx.Introspector = ins
	vm := eval.NewVm(engine, ctx, scopes, root.Span())

	// Get markup from root
	markup := syntax.MarkupNodeFromNode(root)
	if markup == nil {
		return nil, warnings, fmt.Errorf("source root is not markup")
	}

	// Evaluate the markup content
	value, err := eval.EvalMarkup(vm, markup)
	if err != nil {
		return nil, warnings, err
	}

	// Check for forbidden flow events at top level
	if vm.HasFlow() {
		flow := vm.Flow
		switch flow.(type) {
		case eval.BreakEvent:
			return nil, warnings, fmt.Errorf("break is not allowed at the top level")
		case eval.ContinueEvent:
			return nil, warnings, fmt.Errorf("continue is not allowed at the top level")
		case eval.ReturnEvent:
			return nil, warnings, fmt.Errorf("return is not allowed at the top level")
		}
	}

	// Extract content value
	if cv, ok := value.(eval.ContentValue); ok {
		// Collect warnings from the engine sink
		for _, w := range engine.Sink.Warnings {
			warnings = append(warnings, SourceDiagnostic{
				Span:     w.Span,
				Severity: SeverityWarning,
				Message:  w.Message,
				Hints:    w.Hints,
			})
		}
		return &cv.Content, warnings, nil
	}

	return nil, warnings, fmt.Errorf("evaluation did not produce content")
}

// diagnosticFromError creates a SourceDiagnostic from an error.
func diagnosticFromError(err error) SourceDiagnostic {
	// Check for typed errors with span information
	if spanErr, ok := err.(interface{ Span() syntax.Span }); ok {
		return SourceDiagnostic{
			Span:     spanErr.Span(),
			Severity: SeverityError,
			Message:  err.Error(),
		}
	}

	return SourceDiagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
}

// measureCache is the process-wide store for memoized paragraph
// measurement. Its generation advances once per top-level Compile, and
// entries untouched for several compiles are evicted.
var measureCache = memo.NewCache()

// measureCacheMaxAge is how many compile generations an entry survives
// without being hit.
const measureCacheMaxAge = 8

// CompileOptions configures the compilation process.
type CompileOptions struct {
	// TraceSpans enables tracing for the given spans (for IDE support).
	TraceSpans []syntax.Span
}

// CompileWithOptions compiles a Typst document with the given options.
func CompileWithOptions(world eval.World, opts CompileOptions) *CompileResult {
	// For now, ignore options and use the basic compile
	// TODO: Support tracing and other options
	return Compile(world)
}

// CreateStandardLibrary creates a standard library scope with all built-in
// functions, types, and prelude values.
//
// This should be called once and passed to NewFileWorld via WithLibrary option.
func CreateStandardLibrary() *eval.Scope {
	return eval.Library()
}
