package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/models"
)

const announcementColumns = `announcement_id, title, body, publish_at, expires_at,
	 published, crosspost_message_id, created_at, updated_at`

type AnnouncementRepository struct {
	db *database.DB
}

func NewAnnouncementRepository(db *database.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO announcements (title, body, publish_at, expires_at, published)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING announcement_id, created_at, updated_at`,
		a.Title, a.Body, a.PublishAt, a.ExpiresAt, a.Published,
	).Scan(&a.AnnouncementID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, announcementID int) (*models.Announcement, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE announcement_id = $1`,
		announcementID)
	return scanAnnouncement(row)
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]*models.Announcement, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+announcementColumns+` FROM announcements
		 ORDER BY publish_at ASC NULLS LAST, announcement_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

// Published returns announcements that are live at the given instant.
func (r *AnnouncementRepository) Published(ctx context.Context, now time.Time) ([]*models.Announcement, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+announcementColumns+` FROM announcements
		 WHERE published = TRUE
		 AND (publish_at IS NULL OR publish_at <= $1)
		 AND (expires_at IS NULL OR expires_at > $1)
		 ORDER BY publish_at DESC NULLS LAST`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

// DueForPublish returns drafts whose publish time has arrived.
func (r *AnnouncementRepository) DueForPublish(ctx context.Context, now time.Time) ([]*models.Announcement, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+announcementColumns+` FROM announcements
		 WHERE published = FALSE AND publish_at IS NOT NULL AND publish_at <= $1
		 ORDER BY publish_at ASC`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE announcements SET title = $1, body = $2, publish_at = $3, expires_at = $4,
		 published = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE announcement_id = $6`,
		a.Title, a.Body, a.PublishAt, a.ExpiresAt, a.Published, a.AnnouncementID,
	)
	return err
}

func (r *AnnouncementRepository) SetPublished(ctx context.Context, announcementID int, published bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE announcements SET published = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE announcement_id = $2`,
		published, announcementID,
	)
	return err
}

func (r *AnnouncementRepository) SetCrosspostMessageID(ctx context.Context, announcementID int, messageID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE announcements SET crosspost_message_id = $1 WHERE announcement_id = $2`,
		messageID, announcementID,
	)
	return err
}

// UnpublishExpired flips off announcements whose expiry has passed.
func (r *AnnouncementRepository) UnpublishExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE announcements SET published = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE published = TRUE AND expires_at IS NOT NULL AND expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, announcementID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM announcements WHERE announcement_id = $1`, announcementID)
	return err
}

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	a := &models.Announcement{}
	if err := row.Scan(&a.AnnouncementID, &a.Title, &a.Body, &a.PublishAt, &a.ExpiresAt,
		&a.Published, &a.CrosspostMessageID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func scanAnnouncements(rows pgx.Rows) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}
