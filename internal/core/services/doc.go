// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline is Scanner → {Analyzer, Classifier} → Planner → Migrator.
// Only the Migrator writes to the corpus; every other service is a
// read-only function of the documents it is given. The TreeBuilder is
// independent of the pipeline and works on persisted rows.
package services
