// Package changelog defines the changelog entry model used by the docs build.
//
// This package implements:
//   - the entry taxonomy (feature, bug-fix, breaking-change, ...) and its parsing
//   - Entry, ProductTarget, Source and Bundle, the immutable values every later
//     stage (blocking, ordering, classification, rendering) consumes
//   - small read-only queries over bundles
//   - terminal formatting for previewing bundles
//
// Values are built once by the bundle loader and never mutated afterwards.
// Stages that need to attach information (visibility, sections) pair entries
// with that information instead of changing them.
package changelog
