package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthRepository struct {
	db *pgxpool.Pool
}

func NewHealthRepository(db *pgxpool.Pool) *HealthRepository {
	return &HealthRepository{
		db: db,
	}
}

func (r *HealthRepository) IsOK(ctx context.Context) (bool, error) {
	if err := r.db.Ping(ctx); err != nil {
		return false, err
	}

	return true, nil
}
