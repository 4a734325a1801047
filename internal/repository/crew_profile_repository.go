package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crew-exam/internal/domain"
	"crew-exam/internal/repository/models"
	"crew-exam/internal/util"
)

type sqlxCrewProfileRepository struct {
	db DBTX
}

func NewSQLXCrewProfileRepository(db DBTX) domain.CrewProfileRepository {
	return &sqlxCrewProfileRepository{db: db}
}

func (r *sqlxCrewProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.CrewProfile, error) {
	var m models.CrewProfile
	query := `SELECT user_id, full_name, position_id, ship_type_id FROM crew_profiles WHERE user_id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crew profile for user %s: %w", userID, err)
	}
	return &domain.CrewProfile{
		UserID:     m.UserID,
		FullName:   m.FullName.String,
		PositionID: util.NullStringToPtr(m.PositionID),
		ShipTypeID: util.NullStringToPtr(m.ShipTypeID),
	}, nil
}
