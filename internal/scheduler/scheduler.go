package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/repository"
)

const (
	eventRetention      = 180 * 24 * time.Hour
	displayPairingGrace = 30 * 24 * time.Hour
)

// Poster mirrors a published announcement to an external channel.
type Poster interface {
	PostAnnouncement(a *models.Announcement) (int, error)
}

// Scheduler flips content state on the clock: it publishes announcements when
// their publish time arrives, retires expired content, and cross-posts new
// publications.
type Scheduler struct {
	announcementRepo *repository.AnnouncementRepository
	specialRepo      *repository.SpecialRepository
	eventRepo        *repository.EventRepository
	displayRepo      *repository.DisplayRepository
	poster           Poster // nil when cross-posting is not configured
	loc              *time.Location
	checkInterval    time.Duration
	notifyCh         chan struct{}
}

func New(
	announcementRepo *repository.AnnouncementRepository,
	specialRepo *repository.SpecialRepository,
	eventRepo *repository.EventRepository,
	displayRepo *repository.DisplayRepository,
	poster Poster,
	loc *time.Location,
) *Scheduler {
	return &Scheduler{
		announcementRepo: announcementRepo,
		specialRepo:      specialRepo,
		eventRepo:        eventRepo,
		displayRepo:      displayRepo,
		poster:           poster,
		loc:              loc,
		checkInterval:    1 * time.Minute,
		notifyCh:         make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			log.Println("Scheduler triggered by notification")
			s.check(ctx)
		}
	}
}

// StartMaintenance runs the nightly cleanup jobs on the given cron schedule
// until the context is cancelled.
func (s *Scheduler) StartMaintenance(ctx context.Context, cronSpec string) error {
	c := cron.New()
	if _, err := c.AddFunc(cronSpec, func() { s.maintain(ctx) }); err != nil {
		return err
	}
	c.Start()
	log.Printf("Maintenance scheduled (%s)", cronSpec)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) check(ctx context.Context) {
	now := time.Now().In(s.loc)
	s.publishDueAnnouncements(ctx, now)
	s.retireExpiredAnnouncements(ctx, now)
	s.retireEndedSpecials(ctx, now)
}

func (s *Scheduler) publishDueAnnouncements(ctx context.Context, now time.Time) {
	due, err := s.announcementRepo.DueForPublish(ctx, now)
	if err != nil {
		log.Printf("Failed to get due announcements: %v", err)
		return
	}

	for _, a := range due {
		if err := s.announcementRepo.SetPublished(ctx, a.AnnouncementID, true); err != nil {
			log.Printf("Failed to publish announcement %d: %v", a.AnnouncementID, err)
			continue
		}
		log.Printf("Published announcement %d (%s)", a.AnnouncementID, a.Title)

		// Cross-post once per announcement.
		if s.poster == nil || a.CrosspostMessageID != nil {
			continue
		}
		messageID, err := s.poster.PostAnnouncement(a)
		if err != nil {
			log.Printf("Failed to cross-post announcement %d: %v", a.AnnouncementID, err)
			continue
		}
		if err := s.announcementRepo.SetCrosspostMessageID(ctx, a.AnnouncementID, messageID); err != nil {
			log.Printf("Failed to record cross-post for announcement %d: %v", a.AnnouncementID, err)
		}
	}
}

func (s *Scheduler) retireExpiredAnnouncements(ctx context.Context, now time.Time) {
	n, err := s.announcementRepo.UnpublishExpired(ctx, now)
	if err != nil {
		log.Printf("Failed to unpublish expired announcements: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Unpublished %d expired announcements", n)
	}
}

func (s *Scheduler) retireEndedSpecials(ctx context.Context, now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	n, err := s.specialRepo.DeactivatePast(ctx, today)
	if err != nil {
		log.Printf("Failed to deactivate ended specials: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Deactivated %d ended specials", n)
	}
}

func (s *Scheduler) maintain(ctx context.Context) {
	now := time.Now().In(s.loc)

	if n, err := s.eventRepo.DeleteEndedBefore(ctx, now.Add(-eventRetention)); err != nil {
		log.Printf("Maintenance: failed to delete old events: %v", err)
	} else if n > 0 {
		log.Printf("Maintenance: deleted %d old events", n)
	}

	if n, err := s.displayRepo.PruneNeverSeen(ctx, now.Add(-displayPairingGrace)); err != nil {
		log.Printf("Maintenance: failed to prune displays: %v", err)
	} else if n > 0 {
		log.Printf("Maintenance: pruned %d never-seen displays", n)
	}
}
