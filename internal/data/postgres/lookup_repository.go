// Package postgres provides PostgreSQL implementations of the domain repositories.
// Every statement is static and parameterized; optional filters are expressed in SQL
// as "$n IS NULL OR ..." rather than assembled from strings.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/realestate-cashflow/internal/domain/lookup"
	"github.com/realestate-cashflow/internal/platform/persistence"
)

const (
	transactionTypeIDByNameQuery = `
		SELECT id
		FROM transaction_types
		WHERE name = $1
	`
	sourceEntityIDByNameQuery = `
		SELECT id
		FROM source_entities
		WHERE name = $1
	`
	listSourceEntitiesQuery = `
		SELECT id, name, restricted
		FROM source_entities
		ORDER BY id
	`
)

// LookupRepository implements lookup.Repository for PostgreSQL
type LookupRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLookupRepository creates a repository over the configuration tables
func NewLookupRepository(logger *slog.Logger, db *persistence.PostgresDB) lookup.Repository {
	return &LookupRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// TransactionTypeIDByName returns the id of the transaction type with the exact name
func (r *LookupRepository) TransactionTypeIDByName(ctx context.Context, name string) (int64, error) {
	return r.idByName(ctx, transactionTypeIDByNameQuery, lookup.KindTransactionType, name)
}

// SourceEntityIDByName returns the id of the source entity with the exact name
func (r *LookupRepository) SourceEntityIDByName(ctx context.Context, name string) (int64, error) {
	return r.idByName(ctx, sourceEntityIDByNameQuery, lookup.KindSourceEntity, name)
}

func (r *LookupRepository) idByName(ctx context.Context, query string, kind lookup.Kind, name string) (int64, error) {
	var id int64
	err := r.querier.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, lookup.ErrNotFound{Kind: kind, Name: name}
		}
		r.logger.Error("Failed to resolve lookup", "kind", kind, "name", name, "error", err)
		return 0, fmt.Errorf("failed to resolve %s: %w", kind, err)
	}
	return id, nil
}

// ListSourceEntities returns every source entity ordered by id
func (r *LookupRepository) ListSourceEntities(ctx context.Context) ([]lookup.SourceEntity, error) {
	rows, err := r.querier.Query(ctx, listSourceEntitiesQuery)
	if err != nil {
		r.logger.Error("Failed to query source entities", "error", err)
		return nil, fmt.Errorf("failed to query source entities: %w", err)
	}
	defer rows.Close()

	var entities []lookup.SourceEntity
	for rows.Next() {
		var e lookup.SourceEntity
		if err := rows.Scan(&e.ID, &e.Name, &e.Restricted); err != nil {
			r.logger.Error("Failed to scan source entity", "error", err)
			return nil, fmt.Errorf("failed to scan source entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating source entity rows", "error", err)
		return nil, fmt.Errorf("error iterating source entity rows: %w", err)
	}

	return entities, nil
}
