package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind tags the structured attribute lists attached to records.
type PayloadKind string

// Payload kinds.
const (
	PayloadRoles          PayloadKind = "roles"
	PayloadBusinessStates PayloadKind = "business-states"
	PayloadOperations     PayloadKind = "operations"
)

// PayloadVersion is the current payload schema version.
const PayloadVersion = 1

// IsValid returns true if the kind is recognised.
func (k PayloadKind) IsValid() bool {
	switch k {
	case PayloadRoles, PayloadBusinessStates, PayloadOperations:
		return true
	default:
		return false
	}
}

// Payload is a tagged, versioned list of values. It replaces the untyped
// JSON strings the web application stores for roles and business states.
type Payload struct {
	Kind    PayloadKind `json:"kind"`
	Version int         `json:"version"`
	Values  []string    `json:"values"`
}

// NewPayload builds a current-version payload.
func NewPayload(kind PayloadKind, values []string) Payload {
	if values == nil {
		values = []string{}
	}
	return Payload{Kind: kind, Version: PayloadVersion, Values: values}
}

// Validate checks kind and version.
func (p Payload) Validate() error {
	if !p.Kind.IsValid() {
		return fmt.Errorf("%w: kind %q", ErrUnsupportedPayload, p.Kind)
	}
	if p.Version < 1 || p.Version > PayloadVersion {
		return fmt.Errorf("%w: %s version %d", ErrUnsupportedPayload, p.Kind, p.Version)
	}
	return nil
}

// Marshal serialises a validated payload.
func (p Payload) Marshal() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// ParsePayload decodes a tagged payload.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	if p.Values == nil {
		p.Values = []string{}
	}
	return p, nil
}

// ParsePayloadAs decodes data that may be either a tagged payload or a
// legacy bare JSON array of strings, which is upgraded to the given kind.
func ParsePayloadAs(kind PayloadKind, data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NewPayload(kind, nil), nil
	}
	if trimmed[0] == '[' {
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return Payload{}, fmt.Errorf("%w: legacy %s: %w", ErrInvalidInput, kind, err)
		}
		return NewPayload(kind, values), nil
	}
	p, err := ParsePayload(trimmed)
	if err != nil {
		return Payload{}, err
	}
	if p.Kind != kind {
		return Payload{}, fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedPayload, kind, p.Kind)
	}
	return p, nil
}

// MarshalPayloads serialises an attribute list.
func MarshalPayloads(payloads []Payload) ([]byte, error) {
	for _, p := range payloads {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	if payloads == nil {
		payloads = []Payload{}
	}
	return json.Marshal(payloads)
}

// ParsePayloads decodes an attribute list.
func ParsePayloads(data []byte) ([]Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var payloads []Payload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for _, p := range payloads {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return payloads, nil
}
