package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
	"github.com/custodia-labs/parasol/internal/normalisers/markdown"
)

// Ensure Publisher implements the interface.
var _ driving.Publisher = (*Publisher)(nil)

const apiUsageFile = "api-usage.md"

// Publisher hands the normalised corpus to a record sink, one record per
// document. Writes are independent; a failed record does not stop the run.
type Publisher struct {
	scanner    driving.CorpusScanner
	corpus     driven.CorpusFS
	sink       driven.RecordSink
	normaliser *markdown.Normaliser
	now        func() time.Time
}

// NewPublisher creates a publisher over a scanner and the corpus it reads.
func NewPublisher(scanner driving.CorpusScanner, corpus driven.CorpusFS, sink driven.RecordSink) *Publisher {
	return &Publisher{
		scanner:    scanner,
		corpus:     corpus,
		sink:       sink,
		normaliser: markdown.New(),
		now:        time.Now,
	}
}

// Publish scans root and writes every record. The error is non-nil only
// when the scan failed or ctx was cancelled; per-record failures are in
// the result.
func (p *Publisher) Publish(ctx context.Context, root string) (*domain.PublishResult, error) {
	defer logger.Timed("Publish " + root)()

	scan, err := p.scanner.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	for _, e := range scan.Errors {
		logger.Warn("Not published: %s", e.Error())
	}

	result := &domain.PublishResult{Items: []domain.PublishItem{}}
	for _, rec := range p.records(scan.Documents) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("publishing %s: %w", root, err)
		}
		item := domain.PublishItem{Record: rec}
		if err := p.sink.Write(ctx, rec); err != nil {
			item.Err = fmt.Errorf("writing %s record %s: %w", rec.Kind, rec.NaturalKey(), err)
			result.Failed++
			logger.Warn("%v", item.Err)
		} else {
			result.Written++
		}
		result.Items = append(result.Items, item)
	}

	logger.Info("Published %d records, %d failed", result.Written, result.Failed)
	return result, nil
}

// records converts documents to records in scan order. A use case
// directory's api-usage.md follows its use case record.
func (p *Publisher) records(docs []domain.Document) []domain.Record {
	now := p.now().UTC()
	out := make([]domain.Record, 0, len(docs))
	for _, d := range docs {
		rec := RecordFor(d)
		rec.ID = uuid.NewString()
		rec.UpdatedAt = now
		out = append(out, rec)

		if d.Kind != domain.KindUseCase || d.SourceType != domain.SourceUseCaseCurrent {
			continue
		}
		if usage, ok := p.apiUsage(d); ok {
			usage.ID = uuid.NewString()
			usage.UpdatedAt = now
			out = append(out, usage)
		}
	}
	return out
}

func (p *Publisher) apiUsage(useCase domain.Document) (domain.Record, bool) {
	path := filepath.Join(filepath.Dir(useCase.Path), apiUsageFile)
	if !p.corpus.Exists(path) {
		return domain.Record{}, false
	}
	raw, err := p.corpus.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return domain.Record{}, false
	}
	n := p.normaliser.Normalise(path, raw)
	return domain.Record{
		Kind:         domain.KindAPIUsage,
		ServiceID:    useCase.ServiceID,
		CapabilityID: useCase.CapabilityID,
		OperationID:  useCase.OperationID,
		UseCaseID:    useCase.UseCaseID,
		SourceType:   useCase.SourceType,
		Name:         useCase.UseCaseID,
		DisplayName:  n.DisplayName,
		Content:      n.Clean,
	}, true
}

// RecordFor builds the record of one document, without ID or timestamp.
func RecordFor(d domain.Document) domain.Record {
	rec := domain.Record{
		Kind:         d.Kind,
		ServiceID:    d.ServiceID,
		CapabilityID: d.CapabilityID,
		OperationID:  d.OperationID,
		UseCaseID:    d.UseCaseID,
		SourceType:   d.SourceType,
		DisplayName:  d.DisplayName,
		Pattern:      d.Meta("pattern"),
		Content:      d.CleanContent,
	}

	switch d.Kind {
	case domain.KindService:
		rec.Name = d.ServiceID
	case domain.KindCapability:
		rec.Name = d.CapabilityID
		rec.Category = d.Meta("category")
	case domain.KindOperation:
		rec.Name = d.OperationID
		rec.Attributes = []domain.Payload{
			domain.NewPayload(domain.PayloadRoles, markdown.SplitList(d.Meta("roles"))),
			domain.NewPayload(domain.PayloadBusinessStates, markdown.SplitList(d.Meta("business_states"))),
		}
	default:
		if d.SourceType == domain.SourceCurrent {
			rec.Name = markdown.FallbackName(d.Path)
		} else {
			rec.Name = d.UseCaseID
		}
	}
	return rec
}
