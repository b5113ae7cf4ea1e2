package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/models"
)

const eventColumns = `event_id, title, description, location, start_time, end_time,
	 recurrence_rule, exception_dates, all_day, active, created_at, updated_at`

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO events (title, description, location, start_time, end_time,
		 recurrence_rule, exception_dates, all_day, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING event_id, created_at, updated_at`,
		event.Title, event.Description, event.Location, event.StartTime, event.EndTime,
		event.RecurrenceRule, event.ExceptionDates, event.AllDay, event.Active,
	).Scan(&event.EventID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID int) (*models.Event, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_id = $1`, eventID)
	return scanEvent(row)
}

func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY start_time ASC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *EventRepository) Search(ctx context.Context, keyword string) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1
		 ORDER BY start_time ASC NULLS LAST`,
		"%"+keyword+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE events SET title = $1, description = $2, location = $3, start_time = $4,
		 end_time = $5, recurrence_rule = $6, exception_dates = $7, all_day = $8,
		 active = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE event_id = $10`,
		event.Title, event.Description, event.Location, event.StartTime, event.EndTime,
		event.RecurrenceRule, event.ExceptionDates, event.AllDay, event.Active,
		event.EventID,
	)
	return err
}

func (r *EventRepository) Delete(ctx context.Context, eventID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	return err
}

// DeleteEndedBefore removes non-recurring events whose last relevant instant
// is older than the cutoff. Recurring series are kept; their rule decides
// when they stop mattering.
func (r *EventRepository) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM events
		 WHERE recurrence_rule = ''
		 AND COALESCE(end_time, start_time) < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	event := &models.Event{}
	if err := row.Scan(&event.EventID, &event.Title, &event.Description, &event.Location,
		&event.StartTime, &event.EndTime, &event.RecurrenceRule, &event.ExceptionDates,
		&event.AllDay, &event.Active, &event.CreatedAt, &event.UpdatedAt); err != nil {
		return nil, err
	}
	return event, nil
}

func scanEvents(rows pgx.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
