package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/models"
)

const specialColumns = `special_id, title, price_note, type, start_date, end_date,
	 weekdays, active, created_at, updated_at`

type SpecialRepository struct {
	db *database.DB
}

func NewSpecialRepository(db *database.DB) *SpecialRepository {
	return &SpecialRepository{db: db}
}

func (r *SpecialRepository) Create(ctx context.Context, special *models.Special) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO specials (title, price_note, type, start_date, end_date, weekdays, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING special_id, created_at, updated_at`,
		special.Title, special.PriceNote, special.Type, special.StartDate, special.EndDate,
		special.Weekdays, special.Active,
	).Scan(&special.SpecialID, &special.CreatedAt, &special.UpdatedAt)
}

func (r *SpecialRepository) GetByID(ctx context.Context, specialID int) (*models.Special, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+specialColumns+` FROM specials WHERE special_id = $1`, specialID)
	return scanSpecial(row)
}

// List returns all specials, optionally filtered by type ("food" or "drink").
func (r *SpecialRepository) List(ctx context.Context, specialType string) ([]*models.Special, error) {
	query := `SELECT ` + specialColumns + ` FROM specials`
	args := []any{}
	if specialType != "" {
		query += ` WHERE type = $1`
		args = append(args, specialType)
	}
	query += ` ORDER BY start_date ASC NULLS LAST, special_id ASC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specials []*models.Special
	for rows.Next() {
		special, err := scanSpecial(rows)
		if err != nil {
			return nil, err
		}
		specials = append(specials, special)
	}
	return specials, rows.Err()
}

func (r *SpecialRepository) Update(ctx context.Context, special *models.Special) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE specials SET title = $1, price_note = $2, type = $3, start_date = $4,
		 end_date = $5, weekdays = $6, active = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE special_id = $8`,
		special.Title, special.PriceNote, special.Type, special.StartDate, special.EndDate,
		special.Weekdays, special.Active, special.SpecialID,
	)
	return err
}

func (r *SpecialRepository) Delete(ctx context.Context, specialID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM specials WHERE special_id = $1`, specialID)
	return err
}

// DeactivatePast flips off specials with a fixed range that ended before the
// given day. Weekday-driven specials without an end date are left alone.
func (r *SpecialRepository) DeactivatePast(ctx context.Context, day time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE specials SET active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE active = TRUE AND end_date IS NOT NULL AND end_date < $1`,
		day,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSpecial(row pgx.Row) (*models.Special, error) {
	special := &models.Special{}
	if err := row.Scan(&special.SpecialID, &special.Title, &special.PriceNote, &special.Type,
		&special.StartDate, &special.EndDate, &special.Weekdays, &special.Active,
		&special.CreatedAt, &special.UpdatedAt); err != nil {
		return nil, err
	}
	return special, nil
}
