package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/copperkettle/backhouse/internal/models"
)

// The store interfaces are what the handlers need from the persistence layer;
// the pgx repositories satisfy them, and tests swap in fakes.

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, eventID int) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	Search(ctx context.Context, keyword string) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, eventID int) error
}

type SpecialStore interface {
	Create(ctx context.Context, special *models.Special) error
	GetByID(ctx context.Context, specialID int) (*models.Special, error)
	List(ctx context.Context, specialType string) ([]*models.Special, error)
	Update(ctx context.Context, special *models.Special) error
	Delete(ctx context.Context, specialID int) error
}

type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, announcementID int) (*models.Announcement, error)
	List(ctx context.Context) ([]*models.Announcement, error)
	Published(ctx context.Context, now time.Time) ([]*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, announcementID int) error
}

type MenuStore interface {
	CreateSection(ctx context.Context, s *models.MenuSection) error
	GetSection(ctx context.Context, sectionID int) (*models.MenuSection, error)
	ListSections(ctx context.Context) ([]*models.MenuSection, error)
	UpdateSection(ctx context.Context, s *models.MenuSection) error
	DeleteSection(ctx context.Context, sectionID int) error

	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetItem(ctx context.Context, itemID int) (*models.MenuItem, error)
	ListItems(ctx context.Context, sectionID int) ([]*models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, itemID int) error
}

type DisplayStore interface {
	Create(ctx context.Context, d *models.Display) error
	GetByID(ctx context.Context, displayID int) (*models.Display, error)
	GetByToken(ctx context.Context, token uuid.UUID) (*models.Display, error)
	List(ctx context.Context) ([]*models.Display, error)
	Update(ctx context.Context, d *models.Display) error
	Delete(ctx context.Context, displayID int) error
	TouchLastSeen(ctx context.Context, displayID int, now time.Time) error
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, campaignID int) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	ActiveOn(ctx context.Context, day time.Time) ([]*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, campaignID int) error
}

// Notifier wakes the background scheduler after a write that may change what
// is due.
type Notifier interface {
	Notify()
}
