package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/realestate-cashflow/internal/domain/closes"
)

const (
	// CloseCollectionName is the name of the close snapshot collection in MongoDB
	CloseCollectionName = "cash_flow_closes"
)

// closeDocument is the stored shape of a snapshot; the report is kept as a sub-document
type closeDocument struct {
	ID          string     `bson:"_id"`
	Kind        string     `bson:"kind"`
	Date        time.Time  `bson:"date"`
	DateFrom    *time.Time `bson:"date_from,omitempty"`
	DateTo      *time.Time `bson:"date_to,omitempty"`
	GeneratedAt time.Time  `bson:"generated_at"`
	RequestedBy string     `bson:"requested_by,omitempty"`
	Report      bson.D     `bson:"report"`
}

// storedClose is closeDocument as read back, keeping the report bytes undecoded
type storedClose struct {
	ID          string     `bson:"_id"`
	Kind        string     `bson:"kind"`
	Date        time.Time  `bson:"date"`
	DateFrom    *time.Time `bson:"date_from,omitempty"`
	DateTo      *time.Time `bson:"date_to,omitempty"`
	GeneratedAt time.Time  `bson:"generated_at"`
	RequestedBy string     `bson:"requested_by,omitempty"`
	Report      bson.Raw   `bson:"report"`
}

// CloseRepository implements the closes.Repository interface for MongoDB
type CloseRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewCloseRepository creates a new MongoDB close snapshot repository
func NewCloseRepository(logger *slog.Logger, db *mongo.Database) *CloseRepository {
	return &CloseRepository{
		db:     db,
		logger: logger,
	}
}

var _ closes.Repository = (*CloseRepository)(nil)

// EnsureIndexes creates the index backing latest and list queries
func (r *CloseRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "generated_at", Value: -1}},
		Options: options.Index().SetName("kind_generated_at"),
	}
	if _, err := r.db.Collection(CloseCollectionName).Indexes().CreateOne(ctx, model); err != nil {
		r.logger.Error("Failed to create close snapshot index", "error", err)
		return fmt.Errorf("failed to create close snapshot index: %w", err)
	}
	return nil
}

// Save inserts the snapshot as a new document. Snapshots are never updated.
func (r *CloseRepository) Save(ctx context.Context, snapshot *closes.Snapshot) error {
	doc, err := toDocument(snapshot)
	if err != nil {
		r.logger.Error("Failed to encode close snapshot", "snapshot_id", snapshot.ID.String(), "error", err)
		return fmt.Errorf("failed to encode close snapshot: %w", err)
	}

	if _, err := r.db.Collection(CloseCollectionName).InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to save close snapshot",
			"snapshot_id", snapshot.ID.String(),
			"kind", string(snapshot.Kind),
			"error", err)
		return fmt.Errorf("failed to save close snapshot: %w", err)
	}

	return nil
}

// GetByID retrieves one snapshot.
// Returns ErrSnapshotNotFound if no snapshot has the id.
func (r *CloseRepository) GetByID(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error) {
	var doc storedClose
	err := r.db.Collection(CloseCollectionName).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, closes.ErrSnapshotNotFound{ID: id}
		}
		r.logger.Error("Failed to get close snapshot", "snapshot_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get close snapshot: %w", err)
	}

	return fromDocument(&doc)
}

// GetLatest returns the most recently generated snapshot of a kind
func (r *CloseRepository) GetLatest(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var doc storedClose
	err := r.db.Collection(CloseCollectionName).FindOne(ctx, kindFilter(kind), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, closes.ErrSnapshotNotFound{Kind: kind}
		}
		r.logger.Error("Failed to get latest close snapshot", "kind", string(kind), "error", err)
		return nil, fmt.Errorf("failed to get latest close snapshot: %w", err)
	}

	return fromDocument(&doc)
}

// List retrieves paginated snapshots, newest first
func (r *CloseRepository) List(ctx context.Context, kind closes.Kind, limit, offset int) ([]*closes.Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(CloseCollectionName).Find(ctx, kindFilter(kind), opts)
	if err != nil {
		r.logger.Error("Failed to list close snapshots", "kind", string(kind), "error", err)
		return nil, fmt.Errorf("failed to list close snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []storedClose
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode close snapshots", "kind", string(kind), "error", err)
		return nil, fmt.Errorf("failed to decode close snapshots: %w", err)
	}

	snapshots := make([]*closes.Snapshot, 0, len(docs))
	for i := range docs {
		s, err := fromDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, nil
}

// Count counts the snapshots of a kind
func (r *CloseRepository) Count(ctx context.Context, kind closes.Kind) (int64, error) {
	count, err := r.db.Collection(CloseCollectionName).CountDocuments(ctx, kindFilter(kind))
	if err != nil {
		r.logger.Error("Failed to count close snapshots", "kind", string(kind), "error", err)
		return 0, fmt.Errorf("failed to count close snapshots: %w", err)
	}
	return count, nil
}

func kindFilter(kind closes.Kind) bson.M {
	if kind == "" {
		return bson.M{}
	}
	return bson.M{"kind": string(kind)}
}

func toDocument(s *closes.Snapshot) (*closeDocument, error) {
	var report bson.D
	if len(s.Report) > 0 {
		if err := bson.UnmarshalExtJSON(s.Report, false, &report); err != nil {
			return nil, err
		}
	}
	return &closeDocument{
		ID:          s.ID.String(),
		Kind:        string(s.Kind),
		Date:        s.Date,
		DateFrom:    s.DateFrom,
		DateTo:      s.DateTo,
		GeneratedAt: s.GeneratedAt,
		RequestedBy: s.RequestedBy,
		Report:      report,
	}, nil
}

func fromDocument(doc *storedClose) (*closes.Snapshot, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid close snapshot id %q: %w", doc.ID, err)
	}

	report := json.RawMessage("{}")
	if len(doc.Report) > 0 {
		raw, err := bson.MarshalExtJSON(doc.Report, false, false)
		if err != nil {
			return nil, fmt.Errorf("failed to decode close report %s: %w", doc.ID, err)
		}
		report = raw
	}

	return &closes.Snapshot{
		ID:          id,
		Kind:        closes.Kind(doc.Kind),
		Date:        doc.Date.UTC(),
		DateFrom:    utcPtr(doc.DateFrom),
		DateTo:      utcPtr(doc.DateTo),
		GeneratedAt: doc.GeneratedAt.UTC(),
		RequestedBy: doc.RequestedBy,
		Report:      report,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
