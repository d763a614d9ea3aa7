// Package domain defines the core business entities for Parasol.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A Markdown specification file read from the corpus
//   - DuplicateCluster: Documents sharing one display name
//   - ClassificationResult: The recommended sharing layer of a document
//   - MigrationPlan: The phased restructuring plan for a corpus
//   - Snapshot: A backup of the corpus taken before migration
//   - Record: A row handed to the external record sink
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
