package shared

import (
	"time"

	"github.com/google/uuid"
)

// CloseRequestStatus tracks an asynchronous close
type CloseRequestStatus string

const (
	CloseRequestStatusPending   CloseRequestStatus = "PENDING"
	CloseRequestStatusCompleted CloseRequestStatus = "COMPLETED"
	CloseRequestStatusFailed    CloseRequestStatus = "FAILED"
)

// CloseRequestSource names who asked for a close
type CloseRequestSource string

const (
	CloseRequestSourceAPI       CloseRequestSource = "api"
	CloseRequestSourceScheduler CloseRequestSource = "scheduler"
)

// CloseRequest defines a Kafka message asking the close processor for a snapshot.
// Dates use the YYYY-MM-DD layout; both empty means all time.
type CloseRequest struct {
	RequestID     uuid.UUID          `json:"request_id"`
	Kind          string             `json:"kind"`
	DateFrom      string             `json:"date_from,omitempty"`
	DateTo        string             `json:"date_to,omitempty"`
	RequestedBy   string             `json:"requested_by,omitempty"`
	Source        CloseRequestSource `json:"source"`
	CorrelationID string             `json:"correlation_id"`
	Timestamp     time.Time          `json:"timestamp"`
}

// CloseEvent is published after a snapshot has been stored
type CloseEvent struct {
	SnapshotID    uuid.UUID          `json:"snapshot_id"`
	RequestID     *uuid.UUID         `json:"request_id,omitempty"`
	Kind          string             `json:"kind"`
	Date          string             `json:"date"`
	DateFrom      string             `json:"date_from,omitempty"`
	DateTo        string             `json:"date_to,omitempty"`
	Status        CloseRequestStatus `json:"status"`
	CorrelationID string             `json:"correlation_id,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}
