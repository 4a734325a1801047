package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/repository/models"
	"crew-exam/internal/util"
)

// ReferenceDatabaseAdapter serves positions, ship types and categories.
type ReferenceDatabaseAdapter struct {
	db DBTX
}

func NewReferenceDatabaseAdapter(db DBTX) domain.ReferenceRepository {
	return &ReferenceDatabaseAdapter{db: db}
}

func referenceTable(kind domain.ReferenceKind) (string, error) {
	switch kind {
	case domain.ReferencePosition:
		return "positions", nil
	case domain.ReferenceShipType:
		return "ship_types", nil
	case domain.ReferenceCategory:
		return "categories", nil
	}
	return "", fmt.Errorf("unknown reference kind %q", kind)
}

func toDomainReference(kind domain.ReferenceKind, m *models.Reference) *domain.Reference {
	return &domain.Reference{
		ID:          m.ID,
		Kind:        kind,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *ReferenceDatabaseAdapter) List(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}
	var rows []models.Reference
	query := fmt.Sprintf("SELECT id, name, description, created_at FROM %s ORDER BY name", table)
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}

	refs := make([]*domain.Reference, len(rows))
	for i := range rows {
		refs[i] = toDomainReference(kind, &rows[i])
	}
	return refs, nil
}

func (r *ReferenceDatabaseAdapter) GetByID(ctx context.Context, kind domain.ReferenceKind, id string) (*domain.Reference, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}
	var row models.Reference
	query := fmt.Sprintf("SELECT id, name, description, created_at FROM %s WHERE id = :1", table)
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", table, id, err)
	}
	return toDomainReference(kind, &row), nil
}

func (r *ReferenceDatabaseAdapter) Create(ctx context.Context, ref *domain.Reference) error {
	table, err := referenceTable(ref.Kind)
	if err != nil {
		return err
	}
	if ref.ID == "" {
		ref.ID = util.NewULID()
	}
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = time.Now()
	}

	query := fmt.Sprintf("INSERT INTO %s (id, name, description, created_at) VALUES (:1, :2, :3, :4)", table)
	_, err = GetExecutor(ctx, r.db).ExecContext(ctx, query,
		ref.ID,
		ref.Name,
		util.StringToNullString(ref.Description),
		ref.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s %q: %w", table, ref.Name, err)
	}
	return nil
}
