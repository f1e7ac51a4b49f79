// Package gotypst provides a Go implementation of the Typst typesetting system.
//
// Typst is a modern typesetting system designed for creating documents
// with a clean syntax and powerful features. This package provides the
// compile entry point and re-exports the types an embedder needs.
//
// To compile a document, implement the World interface (or use
// kit.FileWorld) to provide access to sources, files,
// fonts, and the current date, then call Compile.
package gotypst

import (
	"typstcore/eval"
	"typstcore/layout/pages"
	"typstcore/syntax"
)

// World provides access to the external environment during compilation.
// All file, font, and package reads go through it; implementations must
// return immediately with cached data or an error.
type World = eval.World

// FileID uniquely identifies a file in the World.
type FileID = syntax.FileId

// Source represents parsed source content.
type Source = syntax.Source

// Document is a compiled, paginated Typst document: an ordered list of
// page frames plus metadata. It is the sole input to the output
// encoders.
type Document = pages.PagedDocument

// Page is a single laid-out page of a document.
type Page = pages.Page
