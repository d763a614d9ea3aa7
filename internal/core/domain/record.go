package domain

import (
	"fmt"
	"time"
)

// Record is one row handed to the external record sink after migration.
type Record struct {
	ID           string     `json:"id"`
	Kind         Kind       `json:"kind"`
	ServiceID    string     `json:"serviceId"`
	CapabilityID string     `json:"capabilityId,omitempty"`
	OperationID  string     `json:"operationId,omitempty"`
	UseCaseID    string     `json:"useCaseId,omitempty"`
	SourceType   SourceType `json:"sourceType,omitempty"`
	Name         string     `json:"name"`
	DisplayName  string     `json:"displayName"`
	Pattern      string     `json:"pattern,omitempty"`
	Category     string     `json:"category,omitempty"`
	Content      string     `json:"content"`
	Attributes   []Payload  `json:"attributes,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NaturalKey identifies a record independently of its generated ID.
func (r Record) NaturalKey() string {
	return string(r.Kind) + ":" + r.ServiceID + "/" + r.CapabilityID + "/" +
		r.OperationID + "/" + r.UseCaseID + "/" + r.Name
}

// Attribute returns the payload of the given kind, if present.
func (r Record) Attribute(kind PayloadKind) (Payload, bool) {
	for _, p := range r.Attributes {
		if p.Kind == kind {
			return p, true
		}
	}
	return Payload{}, false
}

// PublishItem is the per-record outcome of a publish run.
type PublishItem struct {
	Record Record `json:"record"`
	Err    error  `json:"-"`
}

// PublishResult reports per-item success and failure. It is not a transaction.
type PublishResult struct {
	Written int           `json:"written"`
	Failed  int           `json:"failed"`
	Items   []PublishItem `json:"items"`
}

// Errors returns the failed items' errors.
func (r PublishResult) Errors() []error {
	var errs []error
	for _, item := range r.Items {
		if item.Err != nil {
			errs = append(errs, item.Err)
		}
	}
	return errs
}

// AssembleService turns the records of one service into tree rows.
// Records are taken in the order given. Returns ErrNotFound when no
// record belongs to the service.
func AssembleService(serviceID string, records []Record) (*ServiceRow, []CapabilityRow, []OperationRow, error) {
	var service *ServiceRow
	var capabilities []CapabilityRow
	var operations []OperationRow
	opIndex := make(map[string]int)
	ucIndex := make(map[string]int)

	operation := func(r Record) *OperationRow {
		key := r.CapabilityID + "/" + r.OperationID
		i, ok := opIndex[key]
		if !ok {
			i = len(operations)
			opIndex[key] = i
			operations = append(operations, OperationRow{
				ID:           r.OperationID,
				CapabilityID: r.CapabilityID,
				Name:         r.OperationID,
				DisplayName:  r.OperationID,
			})
		}
		return &operations[i]
	}
	useCase := func(op *OperationRow, r Record) *UseCaseRow {
		key := r.CapabilityID + "/" + r.OperationID + "/" + r.UseCaseID
		i, ok := ucIndex[key]
		if !ok {
			i = len(op.UseCases)
			ucIndex[key] = i
			op.UseCases = append(op.UseCases, UseCaseRow{
				ID:          r.UseCaseID,
				Name:        r.UseCaseID,
				DisplayName: r.UseCaseID,
			})
		}
		return &op.UseCases[i]
	}

	found := false
	for _, r := range records {
		if r.ServiceID != serviceID {
			continue
		}
		found = true
		switch r.Kind {
		case KindService:
			service = &ServiceRow{ID: r.ServiceID, Name: r.Name, DisplayName: r.DisplayName, Content: r.Content}
		case KindCapability:
			capabilities = append(capabilities, CapabilityRow{
				ID:          r.CapabilityID,
				ServiceID:   r.ServiceID,
				Name:        r.Name,
				DisplayName: r.DisplayName,
				Category:    r.Category,
				Content:     r.Content,
			})
		case KindOperation:
			op := operation(r)
			op.Name = r.Name
			op.DisplayName = r.DisplayName
			op.Pattern = r.Pattern
			op.Content = r.Content
			if p, ok := r.Attribute(PayloadRoles); ok {
				op.Roles = p
			}
			if p, ok := r.Attribute(PayloadBusinessStates); ok {
				op.BusinessStates = p
			}
		case KindUseCase:
			op := operation(r)
			if r.SourceType == SourceCurrent {
				op.LegacyUseCases = append(op.LegacyUseCases, LegacyItem{Name: r.DisplayName, Content: r.Content})
				continue
			}
			uc := useCase(op, r)
			uc.Name = r.Name
			uc.DisplayName = r.DisplayName
			uc.Content = r.Content
		case KindPage:
			op := operation(r)
			if r.SourceType == SourceCurrent {
				op.LegacyUIDefinitions = append(op.LegacyUIDefinitions, LegacyItem{Name: r.DisplayName, Content: r.Content})
				continue
			}
			useCase(op, r).PageContent = r.Content
		case KindAPIUsage:
			useCase(operation(r), r).APIUsageContent = r.Content
		}
	}

	if !found {
		return nil, nil, nil, fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
	}
	if service == nil {
		service = &ServiceRow{ID: serviceID, Name: serviceID, DisplayName: serviceID}
	}
	return service, capabilities, operations, nil
}
