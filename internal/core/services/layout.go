package services

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

// Corpus directory and file names.
const (
	servicesDir       = "services"
	capabilitiesDir   = "capabilities"
	operationsDir     = "operations"
	useCasesDir       = "usecases"
	pagesDir          = "pages"
	sharedUseCasesDir = "shared-usecases"

	serviceFile    = "service.md"
	capabilityFile = "capability.md"
	operationFile  = "operation.md"
	useCaseFile    = "usecase.md"
	pageFile       = "page.md"
	markdownExt    = ".md"
)

// layout walks the directory levels of a corpus. Each level returns its
// own entries and errors; callers concatenate them.
type layout struct {
	corpus driven.CorpusFS
}

// subdirs lists the directories at path.
func (l layout) subdirs(path string) ([]string, error) {
	entries, err := l.corpus.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir && !strings.HasPrefix(e.Name, ".") {
			dirs = append(dirs, e.Name)
		}
	}
	return dirs, nil
}

// markdownFiles lists the .md files at path.
func (l layout) markdownFiles(path string) ([]string, error) {
	entries, err := l.corpus.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir && isMarkdown(e.Name) {
			files = append(files, e.Name)
		}
	}
	return files, nil
}

// services lists the service directories under root.
func (l layout) services(root string) ([]string, *domain.ScanError) {
	path := filepath.Join(root, servicesDir)
	ids, err := l.subdirs(path)
	if err != nil {
		return nil, missing(domain.ScanError{Path: path}, "services directory", err)
	}
	return ids, nil
}

// operations lists the operation directories of one service.
func (l layout) operations(root, serviceID string) ([]domain.OperationRef, []domain.ScanError) {
	var refs []domain.OperationRef
	var errs []domain.ScanError

	capsPath := filepath.Join(root, servicesDir, serviceID, capabilitiesDir)
	capIDs, err := l.subdirs(capsPath)
	if err != nil {
		errs = append(errs, *missing(domain.ScanError{ServiceID: serviceID, Path: capsPath},
			"capabilities directory", err))
		return nil, errs
	}

	for _, capID := range capIDs {
		opsPath := filepath.Join(capsPath, capID, operationsDir)
		opIDs, err := l.subdirs(opsPath)
		if err != nil {
			errs = append(errs, *missing(domain.ScanError{
				ServiceID: serviceID, CapabilityID: capID, Path: opsPath,
			}, "operations directory", err))
			continue
		}
		for _, opID := range opIDs {
			refs = append(refs, domain.OperationRef{
				ServiceID:    serviceID,
				CapabilityID: capID,
				OperationID:  opID,
				Path:         filepath.Join(opsPath, opID),
			})
		}
	}
	return refs, errs
}

// allOperations lists every operation directory under root.
func (l layout) allOperations(root string) ([]domain.OperationRef, []domain.ScanError) {
	serviceIDs, serr := l.services(root)
	if serr != nil {
		return nil, []domain.ScanError{*serr}
	}
	var refs []domain.OperationRef
	var errs []domain.ScanError
	for _, id := range serviceIDs {
		r, e := l.operations(root, id)
		refs = append(refs, r...)
		errs = append(errs, e...)
	}
	return refs, errs
}

func missing(e domain.ScanError, what string, err error) *domain.ScanError {
	if errors.Is(err, domain.ErrNotFound) {
		e.Reason = what + " not found"
	} else {
		e.Reason = what + " unreadable: " + err.Error()
	}
	return &e
}

func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), markdownExt)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
