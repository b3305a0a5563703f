package closes

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
)

// Kind tells which generator produced a snapshot
type Kind string

const (
	KindTotals Kind = "totals"
	KindLegacy Kind = "legacy"
)

var ErrInvalidKind = errors.New("kind must be one of: totals, legacy")

// ParseKind defaults an empty value to KindTotals
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case "", KindTotals:
		return KindTotals, nil
	case KindLegacy:
		return KindLegacy, nil
	}
	return "", ErrInvalidKind
}

// Snapshot is an immutable persisted close report
type Snapshot struct {
	ID          uuid.UUID       `json:"id"`
	Kind        Kind            `json:"kind"`
	Date        time.Time       `json:"date"`
	DateFrom    *time.Time      `json:"date_from,omitempty"`
	DateTo      *time.Time      `json:"date_to,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	RequestedBy string          `json:"requested_by,omitempty"`
	Report      json.RawMessage `json:"report"`
}

// NewSnapshot stamps a fresh id and generation time on a marshalled report
func NewSnapshot(kind Kind, date time.Time, window *cashflow.Window, requestedBy string, report json.RawMessage) *Snapshot {
	s := &Snapshot{
		ID:          uuid.New(),
		Kind:        kind,
		Date:        date,
		GeneratedAt: time.Now().UTC(),
		RequestedBy: requestedBy,
		Report:      report,
	}
	if window != nil {
		from, to := window.From, window.To
		s.DateFrom = &from
		s.DateTo = &to
	}
	return s
}
