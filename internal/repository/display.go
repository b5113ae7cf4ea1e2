package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/models"
)

const displayColumns = `display_id, name, token, rotation_seconds, show_specials,
	 show_events, show_announcements, show_campaigns, last_seen_at, created_at`

type DisplayRepository struct {
	db *database.DB
}

func NewDisplayRepository(db *database.DB) *DisplayRepository {
	return &DisplayRepository{db: db}
}

// Create registers a display and assigns it a fresh token.
func (r *DisplayRepository) Create(ctx context.Context, d *models.Display) error {
	d.Token = uuid.New()
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO displays (name, token, rotation_seconds, show_specials, show_events,
		 show_announcements, show_campaigns)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING display_id, created_at`,
		d.Name, d.Token, d.RotationSeconds, d.ShowSpecials, d.ShowEvents,
		d.ShowAnnouncements, d.ShowCampaigns,
	).Scan(&d.DisplayID, &d.CreatedAt)
}

func (r *DisplayRepository) GetByID(ctx context.Context, displayID int) (*models.Display, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+displayColumns+` FROM displays WHERE display_id = $1`, displayID)
	return scanDisplay(row)
}

func (r *DisplayRepository) GetByToken(ctx context.Context, token uuid.UUID) (*models.Display, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+displayColumns+` FROM displays WHERE token = $1`, token)
	return scanDisplay(row)
}

func (r *DisplayRepository) List(ctx context.Context) ([]*models.Display, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+displayColumns+` FROM displays ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var displays []*models.Display
	for rows.Next() {
		d, err := scanDisplay(rows)
		if err != nil {
			return nil, err
		}
		displays = append(displays, d)
	}
	return displays, rows.Err()
}

func (r *DisplayRepository) Update(ctx context.Context, d *models.Display) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE displays SET name = $1, rotation_seconds = $2, show_specials = $3,
		 show_events = $4, show_announcements = $5, show_campaigns = $6
		 WHERE display_id = $7`,
		d.Name, d.RotationSeconds, d.ShowSpecials, d.ShowEvents, d.ShowAnnouncements,
		d.ShowCampaigns, d.DisplayID,
	)
	return err
}

func (r *DisplayRepository) Delete(ctx context.Context, displayID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM displays WHERE display_id = $1`, displayID)
	return err
}

// TouchLastSeen records that the display fetched its payload.
func (r *DisplayRepository) TouchLastSeen(ctx context.Context, displayID int, now time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE displays SET last_seen_at = $1 WHERE display_id = $2`, now, displayID)
	return err
}

// PruneNeverSeen removes displays registered before the cutoff that never
// fetched a payload (abandoned pairing attempts).
func (r *DisplayRepository) PruneNeverSeen(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM displays WHERE last_seen_at IS NULL AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanDisplay(row pgx.Row) (*models.Display, error) {
	d := &models.Display{}
	if err := row.Scan(&d.DisplayID, &d.Name, &d.Token, &d.RotationSeconds, &d.ShowSpecials,
		&d.ShowEvents, &d.ShowAnnouncements, &d.ShowCampaigns, &d.LastSeenAt, &d.CreatedAt); err != nil {
		return nil, err
	}
	return d, nil
}
