// Package math lays out mathematical equations: fragment runs with
// class-based spacing, fractions, radicals, attachments, stretched
// delimiters, and matrices. The input is the equation element tree the
// evaluator produces; the output is a fragment tree that block and
// inline layout convert into frames.
package math
