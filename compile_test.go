package gotypst

import (
	"fmt"
	"testing"

	"typstcore/eval"
	"typstcore/layout/pages"
	"typstcore/library/foundations"
	"typstcore/syntax"
)

// mockWorld is a simple World implementation for testing.
type mockWorld struct {
	mainFile eval.FileID
	sources  map[eval.FileID]*syntax.Source
	library  *eval.Scope
}

func newMockWorld(mainText string) *mockWorld {
	mainFile := eval.FileID(1)
	sources := map[eval.FileID]*syntax.Source{
		mainFile: syntax.NewSource(mainFile, mainText),
	}

	return &mockWorld{
		mainFile: mainFile,
		sources:  sources,
		library:  CreateStandardLibrary(),
	}
}

func (w *mockWorld) Library() *eval.Scope {
	return w.library
}

func (w *mockWorld) MainFile() eval.FileID {
	return w.mainFile
}

func (w *mockWorld) Source(id eval.FileID) (*syntax.Source, error) {
	src, ok := w.sources[id]
	if !ok {
		return nil, &fileNotFoundError{id: id}
	}
	return src, nil
}

func (w *mockWorld) File(id eval.FileID) ([]byte, error) {
	return nil, &fileNotFoundError{id: id}
}

func (w *mockWorld) Today(offset *int) *foundations.Datetime {
	year, month, day := 2026, 1, 19
	dt, _ := foundations.NewDatetime(&year, &month, &day, nil, nil, nil)
	return dt
}

type fileNotFoundError struct {
	id eval.FileID
}

func (e *fileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %v", e.id)
}

func TestCompileHelloWorld(t *testing.T) {
	world := newMockWorld(`Hello World`)

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}

	if result.Document == nil {
		t.Fatal("No document produced")
	}

	if len(result.Document.Pages) == 0 {
		t.Error("No pages in document")
	}
}

func TestCompileWithVariable(t *testing.T) {
	world := newMockWorld(`#let x = "World"
Hello #x`)

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}

	if result.Document == nil {
		t.Fatal("No document produced")
	}
}

func TestCompileWithFunction(t *testing.T) {
	world := newMockWorld(`#let greet(name) = [Hello #name!]
#greet("World")`)

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}
}

func TestCompileParseError(t *testing.T) {
	// Unclosed bracket should cause parse error
	world := newMockWorld(`#let x = [unclosed`)

	result := Compile(world)

	if result.Success() {
		t.Error("Expected compilation to fail with parse error")
	}

	if len(result.Errors) == 0 {
		t.Error("Expected at least one error")
	}
}

func TestCompileFileNotFound(t *testing.T) {
	// Create a world that returns file not found
	world := &mockWorld{
		mainFile: eval.FileID(9),
		sources:  make(map[eval.FileID]*syntax.Source),
		library:  CreateStandardLibrary(),
	}

	result := Compile(world)

	if result.Success() {
		t.Error("Expected compilation to fail with file not found")
	}

	if len(result.Errors) == 0 {
		t.Error("Expected at least one error")
	}
}

func TestCompileResultSuccess(t *testing.T) {
	result := &CompileResult{}
	if result.Success() {
		t.Error("Empty result should not be successful")
	}

	result.Document = &pages.PagedDocument{}
	if !result.Success() {
		t.Error("Result with document and no errors should be successful")
	}

	result.Errors = append(result.Errors, SourceDiagnostic{
		Severity: SeverityError,
		Message:  "test error",
	})
	if result.Success() {
		t.Error("Result with errors should not be successful")
	}
}

func TestCreateStandardLibrary(t *testing.T) {
	lib := CreateStandardLibrary()

	if lib == nil {
		t.Fatal("CreateStandardLibrary returned nil")
	}

	// Check that element functions are registered
	funcs := []string{"raw", "par", "parbreak", "box", "block"}
	for _, name := range funcs {
		binding := lib.Get(name)
		if binding == nil {
			t.Errorf("Standard library should contain %q function", name)
		}
	}
}

func TestCompileEmptyContent(t *testing.T) {
	world := newMockWorld(``)

	result := Compile(world)

	// Empty content should still compile successfully
	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Empty content should compile successfully")
	}
}

func TestCompileWithBasicExpression(t *testing.T) {
	// Test simple math expression that the evaluator supports
	world := newMockWorld(`#let x = 42
#x`)

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}
}

func TestCompileWithStyledContent(t *testing.T) {
	// Test strong and emphasis markup
	world := newMockWorld(`*bold* and _italic_ text`)

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}
}

func TestCompileWithRaw(t *testing.T) {
	// Test raw code block
	world := newMockWorld("```python\nprint('hello')\n```")

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}
}

func TestCompileCounterDisplay(t *testing.T) {
	// Two headings followed by a counter display: convergence resolves
	// the deferred display against the snapshot carrying both steps.
	world := newMockWorld("= A\n= B\n#counter(heading).display()")

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}
	for _, w := range result.Warnings {
		if w.Message == "introspection did not converge after 5 iterations" {
			t.Error("counter display should converge well within the iteration cap")
		}
	}
}

func TestCompileContextHere(t *testing.T) {
	world := newMockWorld("Before\n#context here()\nAfter")

	result := Compile(world)

	if !result.Success() {
		for _, err := range result.Errors {
			t.Errorf("Compile error: %s", err.Message)
		}
		t.Fatal("Compilation failed")
	}
}
