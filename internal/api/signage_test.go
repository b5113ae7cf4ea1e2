package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/copperkettle/backhouse/internal/models"
)

func TestSignageRejectsBadToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/signage/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSignageUnknownToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/signage/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSignagePayload(t *testing.T) {
	srv, stores := newTestServer(t)
	ctx := context.Background()
	now := time.Now()

	display := &models.Display{
		Name:              "Bar TV",
		RotationSeconds:   15,
		ShowSpecials:      true,
		ShowEvents:        true,
		ShowAnnouncements: true,
		ShowCampaigns:     true,
	}
	if err := stores.displays.Create(ctx, display); err != nil {
		t.Fatal(err)
	}

	// One active special; the retired one must not make it onto the TV.
	stores.specials.Create(ctx, &models.Special{
		Title:     "Green Chile Stew",
		Type:      models.SpecialFood,
		StartDate: dayPtr(now.AddDate(0, 0, -1)),
		EndDate:   dayPtr(now.AddDate(0, 0, 1)),
		Active:    true,
	})
	stores.specials.Create(ctx, &models.Special{
		Title:   "Retired Special",
		Type:    models.SpecialDrink,
		EndDate: dayPtr(now.AddDate(0, 0, -3)),
		Active:  false,
	})

	// One upcoming event; a finished one resolves into the past and is dropped.
	stores.events.Create(ctx, &models.Event{
		Title:     "Trivia Night",
		StartTime: timePtr(now.Add(72 * time.Hour)),
		Active:    true,
	})
	stores.events.Create(ctx, &models.Event{
		Title:     "Last Week's Dinner",
		StartTime: timePtr(now.Add(-7 * 24 * time.Hour)),
		EndTime:   timePtr(now.Add(-7*24*time.Hour + 3*time.Hour)),
		Active:    true,
	})

	stores.announcements.Create(ctx, &models.Announcement{
		Title:     "Summer hours",
		Published: true,
	})
	stores.campaigns.Create(ctx, &models.Campaign{
		Title:     "Patio season",
		StartDate: dayPtr(now.AddDate(0, 0, -1)),
		EndDate:   dayPtr(now.AddDate(0, 0, 30)),
		Active:    true,
	})

	rec := doJSON(t, srv, http.MethodGet, "/v1/signage/"+display.Token.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Display         string                 `json:"display"`
		RotationSeconds int                    `json:"rotation_seconds"`
		Specials        []*models.Special      `json:"specials"`
		Events          []*models.Event        `json:"events"`
		Announcements   []*models.Announcement `json:"announcements"`
		Campaigns       []*models.Campaign     `json:"campaigns"`
	}
	decodeJSON(t, rec, &got)

	if got.Display != "Bar TV" || got.RotationSeconds != 15 {
		t.Errorf("display header = %q/%d, want Bar TV/15", got.Display, got.RotationSeconds)
	}
	if len(got.Specials) != 1 || got.Specials[0].Title != "Green Chile Stew" {
		t.Errorf("specials = %+v, want only the active one", got.Specials)
	}
	if len(got.Events) != 1 || got.Events[0].Title != "Trivia Night" {
		t.Errorf("events = %+v, want only the upcoming one", got.Events)
	}
	if len(got.Announcements) != 1 || got.Announcements[0].Title != "Summer hours" {
		t.Errorf("announcements = %+v, want the published one", got.Announcements)
	}
	if len(got.Campaigns) != 1 || got.Campaigns[0].Title != "Patio season" {
		t.Errorf("campaigns = %+v, want the running one", got.Campaigns)
	}

	// Fetching the payload counts as a device check-in.
	if display.LastSeenAt == nil {
		t.Error("LastSeenAt not updated by the payload fetch")
	}
}

func TestSignageCapsUpcomingEvents(t *testing.T) {
	srv, stores := newTestServer(t)
	ctx := context.Background()
	now := time.Now()

	display := &models.Display{Name: "Lobby", RotationSeconds: 10, ShowEvents: true}
	if err := stores.displays.Create(ctx, display); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= upcomingEventLimit+2; i++ {
		stores.events.Create(ctx, &models.Event{
			Title:     fmt.Sprintf("Event %d", i),
			StartTime: timePtr(now.Add(time.Duration(i) * 24 * time.Hour)),
			Active:    true,
		})
	}

	rec := doJSON(t, srv, http.MethodGet, "/v1/signage/"+display.Token.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Events []*models.Event `json:"events"`
	}
	decodeJSON(t, rec, &got)
	if len(got.Events) != upcomingEventLimit {
		t.Errorf("payload carries %d events, want %d", len(got.Events), upcomingEventLimit)
	}
	if got.Events[0].Title != "Event 1" {
		t.Errorf("first event = %q, want the soonest one", got.Events[0].Title)
	}
}
