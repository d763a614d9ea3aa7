// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusFS: Read access to the corpus directory tree
//   - CorpusWriter: Write access to the corpus (migrator only)
//   - SnapshotStore: Corpus backup and restore
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RecordSink: Receives records after migration. Without it, publish is disabled.
//   - RecordReader: Supplies persisted rows. Without it, the tree view is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
