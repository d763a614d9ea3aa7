package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
)

// Ensure Migrator implements the interface.
var _ driving.Migrator = (*Migrator)(nil)

// Migrator restructures every operation into usecases/<slug>/{usecase.md,page.md}.
// It is the only service that writes to the corpus.
type Migrator struct {
	corpus    driven.CorpusWriter
	snapshots driven.SnapshotStore
	scanner   *Scanner
	deriver   *IdealDeriver
	matcher   *Matcher
	now       func() time.Time

	mu      sync.Mutex
	running bool
}

// NewMigrator creates a migrator. Snapshots may be nil only for runs
// with backup disabled.
func NewMigrator(corpus driven.CorpusWriter, snapshots driven.SnapshotStore, matcher *Matcher) *Migrator {
	if matcher == nil {
		matcher = NewMatcher(domain.DefaultMatchThreshold)
	}
	return &Migrator{
		corpus:    corpus,
		snapshots: snapshots,
		scanner:   NewScanner(corpus, 1),
		deriver:   NewIdealDeriver(),
		matcher:   matcher,
		now:       time.Now,
	}
}

// Migrate normalises the operations under root. The result is always
// returned; the error is non-nil only when the run stopped early (missing
// root, backup failure, cancellation). Per-operation failures are in
// result.Errors.
func (m *Migrator) Migrate(
	ctx context.Context, root string, opts domain.MigrationOptions,
) (*domain.MigrationResult, error) {
	result := &domain.MigrationResult{
		Success:    true,
		DryRun:     opts.DryRun,
		Errors:     []*domain.MigrationError{},
		StartedAt:  m.now().UTC(),
		Operations: []domain.OperationMigration{},
	}
	defer func() { result.FinishedAt = m.now().UTC() }()

	if err := m.acquire(); err != nil {
		result.AddError(&domain.MigrationError{Path: root, Err: err})
		return result, err
	}
	defer m.release()

	if !m.corpus.IsDir(root) {
		err := fmt.Errorf("%w: corpus root %s", domain.ErrNotFound, root)
		result.AddError(&domain.MigrationError{Path: root, Err: err})
		return result, err
	}

	logger.Section("Migrate " + root)
	refs, scanErrs := m.scanner.Operations(root)
	for _, e := range scanErrs {
		logger.Warn("Skipping branch: %s", e.Error())
	}

	var pending []domain.OperationRef
	for _, ref := range refs {
		if opts.Includes(ref.Key()) {
			pending = append(pending, ref)
		}
	}

	needsWork := false
	for _, ref := range pending {
		if !m.isOneToOne(ref) {
			needsWork = true
			break
		}
	}

	if needsWork && !opts.DryRun && opts.BackupOriginal {
		if err := m.backup(ctx, root, opts, result); err != nil {
			return result, err
		}
	}

	for _, ref := range pending {
		// Abort only between operations.
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrAborted, err)
			result.AddError(&domain.MigrationError{Path: root, Err: err})
			logger.Warn("Migration aborted before %s", ref.Key())
			return result, err
		}

		if m.isOneToOne(ref) {
			logger.Debug("Skipping %s: already one-to-one", ref.Key())
			result.OperationsSkipped++
			result.Operations = append(result.Operations, operationFor(ref, domain.StateSkipped))
			continue
		}

		result.OperationsProcessed++
		op, merr := m.migrateOperation(ref, opts.DryRun, result)
		if merr != nil {
			logger.Error("Migration of %s failed: %v", ref.Key(), merr)
			result.AddError(merr)
		}
		result.Operations = append(result.Operations, op)
	}

	logger.Info("Processed %d operations, skipped %d, created %d directories, %d errors",
		result.OperationsProcessed, result.OperationsSkipped, result.DirectoriesCreated, len(result.Errors))
	return result, nil
}

// Restore rolls the corpus back to a snapshot.
func (m *Migrator) Restore(ctx context.Context, snapshotID string) error {
	if m.snapshots == nil {
		return fmt.Errorf("%w: no snapshot store configured", domain.ErrNotFound)
	}
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()
	logger.Info("Restoring snapshot %s", snapshotID)
	return m.snapshots.Restore(ctx, snapshotID)
}

func (m *Migrator) acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return domain.ErrMigrationInProgress
	}
	m.running = true
	return nil
}

func (m *Migrator) release() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func (m *Migrator) backup(ctx context.Context, root string, opts domain.MigrationOptions, result *domain.MigrationResult) error {
	if m.snapshots == nil {
		err := fmt.Errorf("%w: no snapshot store configured", domain.ErrBackupFailure)
		result.AddError(&domain.MigrationError{Path: root, Err: err})
		return err
	}
	description := opts.Description
	if description == "" {
		description = "before one-to-one migration"
	}

	snap, err := m.snapshots.Create(ctx, root, description)
	if err != nil {
		if !errors.Is(err, domain.ErrBackupFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrBackupFailure, err)
		}
		result.AddError(&domain.MigrationError{Path: root, Err: err})
		logger.Error("Backup failed, nothing was changed: %v", err)
		return err
	}
	result.SnapshotID = snap.ID
	result.BackupPath = snap.Location
	logger.Info("Backed up %d files to %s", snap.FileCount, snap.Location)
	return nil
}

// isOneToOne reports whether an operation already has the target layout:
// at least one usecases/<dir>/, each holding usecase.md and page.md, with no
// pages/ directory and no loose Markdown under usecases/.
func (m *Migrator) isOneToOne(ref domain.OperationRef) bool {
	if m.corpus.IsDir(filepath.Join(ref.Path, pagesDir)) {
		return false
	}
	entries, err := m.corpus.ReadDir(filepath.Join(ref.Path, useCasesDir))
	if err != nil {
		return false
	}
	dirs := 0
	for _, e := range entries {
		if !e.IsDir {
			if isMarkdown(e.Name) {
				return false
			}
			continue
		}
		dir := filepath.Join(ref.Path, useCasesDir, e.Name)
		if !m.corpus.Exists(filepath.Join(dir, useCaseFile)) || !m.corpus.Exists(filepath.Join(dir, pageFile)) {
			return false
		}
		dirs++
	}
	return dirs > 0
}

func (m *Migrator) migrateOperation(
	ref domain.OperationRef, dryRun bool, result *domain.MigrationResult,
) (domain.OperationMigration, *domain.MigrationError) {
	op := operationFor(ref, domain.StateMigrating)
	fail := func(path string, err error) (domain.OperationMigration, *domain.MigrationError) {
		op.State = domain.StateFailed
		return op, &domain.MigrationError{
			ServiceID:    ref.ServiceID,
			CapabilityID: ref.CapabilityID,
			OperationID:  ref.OperationID,
			Path:         path,
			Err:          err,
		}
	}

	docs, scanErrs := m.scanner.ScanOperation(ref)
	if len(scanErrs) > 0 {
		errs := make([]error, len(scanErrs))
		for i, e := range scanErrs {
			errs[i] = e
		}
		return fail(ref.Path, errors.Join(errs...))
	}

	opDoc, useCases, pages := partition(ref, docs)
	ideal := m.deriver.Derive(opDoc, useCases)
	op.Mappings = m.matcher.MatchIdeal(opDoc, ideal, useCases, pages)

	if dryRun {
		for _, mp := range op.Mappings {
			logger.Info("[dry-run] %s: usecases/%s (use case from %s, page from %s)",
				ref.Key(), mp.NewDirectoryName, origin(&mp.UseCase, mp.SynthesizedUseCase), origin(mp.Page, mp.Page == nil))
		}
		logger.Info("[dry-run] %s: remove pages/ and loose usecases/*.md", ref.Key())
		op.State = domain.StateNotMigrated
		return op, nil
	}

	created, written, relocated, synthesized, err := m.writeMappings(ref, op.Mappings)
	if err != nil {
		m.rollback(created, written)
		return fail(ref.Path, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err))
	}
	op.Created = created

	removed, err := m.removeLegacy(ref)
	op.Removed = removed
	result.DirectoriesCreated += useCaseDirs(ref, created)
	result.FilesRelocated += relocated
	result.FilesSynthesized += synthesized
	if err != nil {
		// New files are complete; keep them since legacy files may be gone.
		return fail(ref.Path, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err))
	}

	op.State = domain.StateMigrated
	logger.Info("Migrated %s: %d use cases", ref.Key(), len(op.Mappings))
	return op, nil
}

// writeMappings writes every use case directory. It returns the directories
// it created and the files it added to directories that already existed, so
// a failed operation can remove both.
func (m *Migrator) writeMappings(
	ref domain.OperationRef, mappings []domain.UseCasePageMapping,
) (created, written []string, relocated, synthesized int, err error) {
	base := filepath.Join(ref.Path, useCasesDir)
	if !m.corpus.IsDir(base) {
		if err := m.corpus.MkdirAll(base); err != nil {
			return created, written, 0, 0, err
		}
		created = append(created, base)
	}

	for _, mp := range mappings {
		dir := filepath.Join(base, mp.NewDirectoryName)
		existed := m.corpus.IsDir(dir)
		if !existed {
			if err := m.corpus.MkdirAll(dir); err != nil {
				return created, written, 0, 0, err
			}
			created = append(created, dir)
		}

		write := func(path string, data []byte) error {
			isNew := !m.corpus.Exists(path)
			if err := m.corpus.WriteFile(path, data); err != nil {
				return err
			}
			if existed && isNew {
				written = append(written, path)
			}
			logger.Debug("Wrote %s", path)
			return nil
		}

		// Synthesized use cases carry their target path but are not on disk yet.
		ucPath := filepath.Join(dir, useCaseFile)
		if mp.SynthesizedUseCase || mp.UseCase.Path != ucPath {
			if err := write(ucPath, []byte(mp.UseCase.CleanContent)); err != nil {
				return created, written, 0, 0, err
			}
			if mp.SynthesizedUseCase {
				synthesized++
			} else {
				relocated++
			}
		}

		pagePath := filepath.Join(dir, pageFile)
		if mp.Page == nil || mp.Page.Path != pagePath {
			if err := write(pagePath, []byte(mp.PageContent())); err != nil {
				return created, written, 0, 0, err
			}
			if mp.Page == nil {
				synthesized++
			} else {
				relocated++
			}
		}
	}

	return created, written, relocated, synthesized, nil
}

// rollback removes the files and directories a failed operation added,
// newest first.
func (m *Migrator) rollback(created, written []string) {
	for i := len(written) - 1; i >= 0; i-- {
		if err := m.corpus.Remove(written[i]); err != nil {
			logger.Error("Rollback could not remove %s: %v", written[i], err)
			continue
		}
		logger.Debug("Rolled back %s", written[i])
	}
	for i := len(created) - 1; i >= 0; i-- {
		if err := m.corpus.RemoveAll(created[i]); err != nil {
			logger.Error("Rollback could not remove %s: %v", created[i], err)
			continue
		}
		logger.Debug("Rolled back %s", created[i])
	}
}

// removeLegacy deletes pages/ and the Markdown files directly under usecases/.
func (m *Migrator) removeLegacy(ref domain.OperationRef) ([]string, error) {
	var removed []string
	pages := filepath.Join(ref.Path, pagesDir)
	if m.corpus.IsDir(pages) {
		if err := m.corpus.RemoveAll(pages); err != nil {
			return removed, err
		}
		removed = append(removed, pages)
		logger.Debug("Removed %s", pages)
	}

	base := filepath.Join(ref.Path, useCasesDir)
	files, err := m.scanner.layout.markdownFiles(base)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return removed, nil
		}
		return removed, err
	}
	for _, name := range files {
		path := filepath.Join(base, name)
		if err := m.corpus.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
		logger.Debug("Removed %s", path)
	}
	return removed, nil
}

// partition splits an operation's documents into its descriptor and the
// use case and page candidates. Shared use cases stay where they are.
func partition(ref domain.OperationRef, docs []domain.Document) (domain.Document, []domain.Document, []domain.Document) {
	opDoc := domain.Document{
		Path:         filepath.Join(ref.Path, operationFile),
		DisplayName:  ref.OperationID,
		ServiceID:    ref.ServiceID,
		CapabilityID: ref.CapabilityID,
		OperationID:  ref.OperationID,
		Kind:         domain.KindOperation,
	}
	var useCases, pages []domain.Document
	for _, d := range docs {
		switch {
		case d.Kind == domain.KindOperation:
			opDoc = d
		case d.SourceType == domain.SourceShared:
		case d.Kind == domain.KindUseCase:
			useCases = append(useCases, d)
		case d.Kind == domain.KindPage:
			pages = append(pages, d)
		}
	}
	return opDoc, useCases, pages
}

// useCaseDirs counts created directories other than the usecases/ parent.
func useCaseDirs(ref domain.OperationRef, created []string) int {
	base := filepath.Join(ref.Path, useCasesDir)
	n := 0
	for _, dir := range created {
		if dir != base {
			n++
		}
	}
	return n
}

func operationFor(ref domain.OperationRef, state domain.OperationState) domain.OperationMigration {
	return domain.OperationMigration{
		ServiceID:    ref.ServiceID,
		CapabilityID: ref.CapabilityID,
		OperationID:  ref.OperationID,
		Path:         ref.Path,
		State:        state,
	}
}

func origin(d *domain.Document, synthesized bool) string {
	if synthesized || d == nil {
		return "template"
	}
	return d.Path
}
