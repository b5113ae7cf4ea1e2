package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/models"
)

type MenuRepository struct {
	db *database.DB
}

func NewMenuRepository(db *database.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Sections

func (r *MenuRepository) CreateSection(ctx context.Context, s *models.MenuSection) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO menu_sections (name, position, active)
		 VALUES ($1, $2, $3)
		 RETURNING section_id, created_at`,
		s.Name, s.Position, s.Active,
	).Scan(&s.SectionID, &s.CreatedAt)
}

func (r *MenuRepository) GetSection(ctx context.Context, sectionID int) (*models.MenuSection, error) {
	s := &models.MenuSection{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT section_id, name, position, active, created_at
		 FROM menu_sections WHERE section_id = $1`,
		sectionID,
	).Scan(&s.SectionID, &s.Name, &s.Position, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *MenuRepository) ListSections(ctx context.Context) ([]*models.MenuSection, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT section_id, name, position, active, created_at
		 FROM menu_sections ORDER BY position ASC, section_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.MenuSection
	for rows.Next() {
		s := &models.MenuSection{}
		if err := rows.Scan(&s.SectionID, &s.Name, &s.Position, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *MenuRepository) UpdateSection(ctx context.Context, s *models.MenuSection) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE menu_sections SET name = $1, position = $2, active = $3 WHERE section_id = $4`,
		s.Name, s.Position, s.Active, s.SectionID,
	)
	return err
}

func (r *MenuRepository) DeleteSection(ctx context.Context, sectionID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM menu_sections WHERE section_id = $1`, sectionID)
	return err
}

// Items

func (r *MenuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO menu_items (section_id, name, description, price, position, available)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING item_id, created_at, updated_at`,
		item.SectionID, item.Name, item.Description, item.Price, item.Position, item.Available,
	).Scan(&item.ItemID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *MenuRepository) GetItem(ctx context.Context, itemID int) (*models.MenuItem, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT item_id, section_id, name, description, price, position, available, created_at, updated_at
		 FROM menu_items WHERE item_id = $1`,
		itemID)
	return scanMenuItem(row)
}

func (r *MenuRepository) ListItems(ctx context.Context, sectionID int) ([]*models.MenuItem, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT item_id, section_id, name, description, price, position, available, created_at, updated_at
		 FROM menu_items WHERE section_id = $1 ORDER BY position ASC, item_id ASC`,
		sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE menu_items SET section_id = $1, name = $2, description = $3, price = $4,
		 position = $5, available = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE item_id = $7`,
		item.SectionID, item.Name, item.Description, item.Price, item.Position,
		item.Available, item.ItemID,
	)
	return err
}

func (r *MenuRepository) DeleteItem(ctx context.Context, itemID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE item_id = $1`, itemID)
	return err
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	if err := row.Scan(&item.ItemID, &item.SectionID, &item.Name, &item.Description,
		&item.Price, &item.Position, &item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}
