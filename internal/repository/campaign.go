package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/models"
)

const campaignColumns = `campaign_id, title, body, image_url, start_date, end_date,
	 weight, active, created_at, updated_at`

type CampaignRepository struct {
	db *database.DB
}

func NewCampaignRepository(db *database.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *models.Campaign) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO campaigns (title, body, image_url, start_date, end_date, weight, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING campaign_id, created_at, updated_at`,
		c.Title, c.Body, c.ImageURL, c.StartDate, c.EndDate, c.Weight, c.Active,
	).Scan(&c.CampaignID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepository) GetByID(ctx context.Context, campaignID int) (*models.Campaign, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE campaign_id = $1`, campaignID)
	return scanCampaign(row)
}

func (r *CampaignRepository) List(ctx context.Context) ([]*models.Campaign, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns
		 ORDER BY weight DESC, campaign_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

// ActiveOn returns active campaigns whose date bounds contain the given day,
// heaviest first.
func (r *CampaignRepository) ActiveOn(ctx context.Context, day time.Time) ([]*models.Campaign, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns
		 WHERE active = TRUE
		 AND (start_date IS NULL OR start_date <= $1)
		 AND (end_date IS NULL OR end_date >= $1)
		 ORDER BY weight DESC, campaign_id ASC`,
		day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

func (r *CampaignRepository) Update(ctx context.Context, c *models.Campaign) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE campaigns SET title = $1, body = $2, image_url = $3, start_date = $4,
		 end_date = $5, weight = $6, active = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE campaign_id = $8`,
		c.Title, c.Body, c.ImageURL, c.StartDate, c.EndDate, c.Weight, c.Active, c.CampaignID,
	)
	return err
}

func (r *CampaignRepository) Delete(ctx context.Context, campaignID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM campaigns WHERE campaign_id = $1`, campaignID)
	return err
}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	c := &models.Campaign{}
	if err := row.Scan(&c.CampaignID, &c.Title, &c.Body, &c.ImageURL, &c.StartDate,
		&c.EndDate, &c.Weight, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func scanCampaigns(rows pgx.Rows) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
