package services

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
	"github.com/custodia-labs/parasol/internal/normalisers/markdown"
)

// Ensure Scanner implements the interface.
var _ driving.CorpusScanner = (*Scanner)(nil)

// Scanner walks a corpus and reads its Markdown documents.
type Scanner struct {
	layout      layout
	normaliser  *markdown.Normaliser
	parallelism int
}

// NewScanner creates a scanner over the given corpus.
// Parallelism bounds how many services are scanned at once; values
// below 1 scan sequentially.
func NewScanner(corpus driven.CorpusFS, parallelism int) *Scanner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Scanner{
		layout:      layout{corpus: corpus},
		normaliser:  markdown.New(),
		parallelism: parallelism,
	}
}

// serviceScan is the output of one service subtree.
type serviceScan struct {
	docs []domain.Document
	errs []domain.ScanError
}

// Scan reads every document under root. Missing branches become
// ScanErrors in the result; only a missing root or cancellation
// returns an error. Document order follows sorted directory order.
func (s *Scanner) Scan(ctx context.Context, root string) (*domain.ScanResult, error) {
	if !s.layout.corpus.IsDir(root) {
		return nil, fmt.Errorf("%w: corpus root %s", domain.ErrNotFound, root)
	}
	defer logger.Timed("scan " + root)()

	result := &domain.ScanResult{
		Root:      root,
		Documents: []domain.Document{},
		Errors:    []domain.ScanError{},
	}

	serviceIDs, serr := s.layout.services(root)
	if serr != nil {
		logger.Warn("Skipping corpus: %s", serr.Error())
		result.Errors = append(result.Errors, *serr)
		return result, nil
	}

	scans := make([]serviceScan, len(serviceIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, id := range serviceIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs, errs := s.scanService(root, id)
			scans[i] = serviceScan{docs: docs, errs: errs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	for _, sc := range scans {
		result.Documents = append(result.Documents, sc.docs...)
		result.Errors = append(result.Errors, sc.errs...)
	}
	logger.Debug("Scanned %d documents with %d skipped branches", len(result.Documents), len(result.Errors))
	return result, nil
}

// Operations lists every operation directory under root.
func (s *Scanner) Operations(root string) ([]domain.OperationRef, []domain.ScanError) {
	return s.layout.allOperations(root)
}

// ScanOperation reads the documents of a single operation directory.
func (s *Scanner) ScanOperation(ref domain.OperationRef) ([]domain.Document, []domain.ScanError) {
	return s.scanOperation(ref)
}

func (s *Scanner) scanService(root, serviceID string) ([]domain.Document, []domain.ScanError) {
	var docs []domain.Document
	var errs []domain.ScanError

	dir := filepath.Join(root, servicesDir, serviceID)
	ids := domain.Document{ServiceID: serviceID}
	if doc, ok, serr := s.readOptional(filepath.Join(dir, serviceFile), domain.KindService, ids); serr != nil {
		errs = append(errs, *serr)
	} else if ok {
		docs = append(docs, doc)
	}

	capsPath := filepath.Join(dir, capabilitiesDir)
	capIDs, err := s.layout.subdirs(capsPath)
	if err != nil {
		serr := missing(domain.ScanError{ServiceID: serviceID, Path: capsPath}, "capabilities directory", err)
		logger.Warn("Skipping service: %s", serr.Error())
		return docs, append(errs, *serr)
	}

	for _, capID := range capIDs {
		d, e := s.scanCapability(root, serviceID, capID)
		docs = append(docs, d...)
		errs = append(errs, e...)
	}
	return docs, errs
}

func (s *Scanner) scanCapability(root, serviceID, capID string) ([]domain.Document, []domain.ScanError) {
	var docs []domain.Document
	var errs []domain.ScanError

	dir := filepath.Join(root, servicesDir, serviceID, capabilitiesDir, capID)
	ids := domain.Document{ServiceID: serviceID, CapabilityID: capID}
	if doc, ok, serr := s.readOptional(filepath.Join(dir, capabilityFile), domain.KindCapability, ids); serr != nil {
		errs = append(errs, *serr)
	} else if ok {
		docs = append(docs, doc)
	}

	opsPath := filepath.Join(dir, operationsDir)
	opIDs, err := s.layout.subdirs(opsPath)
	if err != nil {
		serr := missing(domain.ScanError{ServiceID: serviceID, CapabilityID: capID, Path: opsPath},
			"operations directory", err)
		logger.Warn("Skipping capability: %s", serr.Error())
		return docs, append(errs, *serr)
	}

	for _, opID := range opIDs {
		d, e := s.scanOperation(domain.OperationRef{
			ServiceID:    serviceID,
			CapabilityID: capID,
			OperationID:  opID,
			Path:         filepath.Join(opsPath, opID),
		})
		docs = append(docs, d...)
		errs = append(errs, e...)
	}
	return docs, errs
}

func (s *Scanner) scanOperation(ref domain.OperationRef) ([]domain.Document, []domain.ScanError) {
	var docs []domain.Document
	var errs []domain.ScanError
	add := func(doc domain.Document, ok bool, serr *domain.ScanError) {
		if serr != nil {
			errs = append(errs, *serr)
		} else if ok {
			docs = append(docs, doc)
		}
	}

	ids := domain.Document{ServiceID: ref.ServiceID, CapabilityID: ref.CapabilityID, OperationID: ref.OperationID}
	add(s.readOptional(filepath.Join(ref.Path, operationFile), domain.KindOperation, ids))

	corpus := s.layout.corpus
	pagesPath := filepath.Join(ref.Path, pagesDir)
	useCasesPath := filepath.Join(ref.Path, useCasesDir)
	sharedPath := filepath.Join(ref.Path, sharedUseCasesDir)
	if !corpus.IsDir(pagesPath) && !corpus.IsDir(useCasesPath) && !corpus.IsDir(sharedPath) {
		serr := domain.ScanError{
			ServiceID:    ref.ServiceID,
			CapabilityID: ref.CapabilityID,
			OperationID:  ref.OperationID,
			Path:         ref.Path,
			Reason:       "no pages, usecases or shared-usecases directory",
		}
		logger.Warn("Skipping operation: %s", serr.Error())
		return docs, append(errs, serr)
	}

	if files, err := s.layout.markdownFiles(pagesPath); err == nil {
		for _, name := range files {
			add(s.read(filepath.Join(pagesPath, name), domain.KindPage, domain.SourceCurrent, ids))
		}
	}

	if entries, err := corpus.ReadDir(useCasesPath); err == nil {
		for _, e := range entries {
			uc := ids
			if !e.IsDir {
				if !isMarkdown(e.Name) {
					continue
				}
				uc.UseCaseID = trimExt(e.Name)
				add(s.read(filepath.Join(useCasesPath, e.Name), domain.KindUseCase, domain.SourceCurrent, uc))
				continue
			}
			uc.UseCaseID = e.Name
			dir := filepath.Join(useCasesPath, e.Name)
			add(s.readIfExists(filepath.Join(dir, useCaseFile), domain.KindUseCase, domain.SourceUseCaseCurrent, uc))
			add(s.readIfExists(filepath.Join(dir, pageFile), domain.KindPage, domain.SourceUseCaseCurrent, uc))
		}
	}

	if dirs, err := s.layout.subdirs(sharedPath); err == nil {
		for _, name := range dirs {
			uc := ids
			uc.UseCaseID = name
			add(s.readIfExists(filepath.Join(sharedPath, name, useCaseFile), domain.KindUseCase, domain.SourceShared, uc))
		}
	}
	return docs, errs
}

// readOptional reads a descriptor file (service.md, capability.md,
// operation.md). A missing descriptor is not an error.
func (s *Scanner) readOptional(path string, kind domain.Kind, ids domain.Document) (domain.Document, bool, *domain.ScanError) {
	return s.readIfExists(path, kind, domain.SourceCurrent, ids)
}

func (s *Scanner) readIfExists(
	path string, kind domain.Kind, source domain.SourceType, ids domain.Document,
) (domain.Document, bool, *domain.ScanError) {
	if !s.layout.corpus.Exists(path) {
		return domain.Document{}, false, nil
	}
	return s.read(path, kind, source, ids)
}

func (s *Scanner) read(
	path string, kind domain.Kind, source domain.SourceType, ids domain.Document,
) (domain.Document, bool, *domain.ScanError) {
	raw, err := s.layout.corpus.ReadFile(path)
	if err != nil {
		serr := &domain.ScanError{
			ServiceID:    ids.ServiceID,
			CapabilityID: ids.CapabilityID,
			OperationID:  ids.OperationID,
			Path:         path,
			Reason:       "unreadable file: " + err.Error(),
		}
		logger.Warn("Skipping file: %s", serr.Error())
		return domain.Document{}, false, serr
	}

	n := s.normaliser.Normalise(path, raw)
	if n.Degraded {
		logger.Debug("%v: %s has no heading, using %q", domain.ErrParseDegraded, path, n.DisplayName)
	}

	doc := ids
	doc.Path = path
	doc.RawContent = n.Raw
	doc.CleanContent = n.Clean
	doc.DisplayName = n.DisplayName
	doc.Degraded = n.Degraded
	doc.Metadata = n.Metadata
	doc.Kind = kind
	doc.SourceType = source
	return doc, true, nil
}
