package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/ics"
	"github.com/copperkettle/backhouse/internal/models"
)

// In-memory stands-ins for the pgx repositories. They return pgx.ErrNoRows on
// a miss so mapStoreErr behaves the same as in production.

type fakeEventStore struct {
	mu     sync.Mutex
	nextID int
	events map[int]*models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[int]*models.Event{}}
}

func (f *fakeEventStore) Create(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.EventID = f.nextID
	f.events[e.EventID] = e
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (f *fakeEventStore) List(_ context.Context) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out, nil
}

func (f *fakeEventStore) Search(ctx context.Context, keyword string) ([]*models.Event, error) {
	all, _ := f.List(ctx)
	var out []*models.Event
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Title), strings.ToLower(keyword)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Update(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.EventID]; !ok {
		return pgx.ErrNoRows
	}
	f.events[e.EventID] = e
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.events, id)
	return nil
}

type fakeSpecialStore struct {
	mu       sync.Mutex
	nextID   int
	specials map[int]*models.Special
}

func newFakeSpecialStore() *fakeSpecialStore {
	return &fakeSpecialStore{specials: map[int]*models.Special{}}
}

func (f *fakeSpecialStore) Create(_ context.Context, s *models.Special) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.SpecialID = f.nextID
	f.specials[s.SpecialID] = s
	return nil
}

func (f *fakeSpecialStore) GetByID(_ context.Context, id int) (*models.Special, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.specials[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeSpecialStore) List(_ context.Context, specialType string) ([]*models.Special, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Special, 0, len(f.specials))
	for _, s := range f.specials {
		if specialType != "" && s.Type != specialType {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpecialID < out[j].SpecialID })
	return out, nil
}

func (f *fakeSpecialStore) Update(_ context.Context, s *models.Special) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.specials[s.SpecialID]; !ok {
		return pgx.ErrNoRows
	}
	f.specials[s.SpecialID] = s
	return nil
}

func (f *fakeSpecialStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.specials[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.specials, id)
	return nil
}

type fakeAnnouncementStore struct {
	mu            sync.Mutex
	nextID        int
	announcements map[int]*models.Announcement
}

func newFakeAnnouncementStore() *fakeAnnouncementStore {
	return &fakeAnnouncementStore{announcements: map[int]*models.Announcement{}}
}

func (f *fakeAnnouncementStore) Create(_ context.Context, a *models.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.AnnouncementID = f.nextID
	f.announcements[a.AnnouncementID] = a
	return nil
}

func (f *fakeAnnouncementStore) GetByID(_ context.Context, id int) (*models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.announcements[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeAnnouncementStore) List(_ context.Context) ([]*models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Announcement, 0, len(f.announcements))
	for _, a := range f.announcements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnnouncementID < out[j].AnnouncementID })
	return out, nil
}

func (f *fakeAnnouncementStore) Published(ctx context.Context, now time.Time) ([]*models.Announcement, error) {
	all, _ := f.List(ctx)
	var out []*models.Announcement
	for _, a := range all {
		if !a.Published || a.IsExpired(now) {
			continue
		}
		if a.PublishAt != nil && a.PublishAt.After(now) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAnnouncementStore) Update(_ context.Context, a *models.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.announcements[a.AnnouncementID]; !ok {
		return pgx.ErrNoRows
	}
	f.announcements[a.AnnouncementID] = a
	return nil
}

func (f *fakeAnnouncementStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.announcements[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.announcements, id)
	return nil
}

type fakeMenuStore struct {
	mu            sync.Mutex
	nextSectionID int
	nextItemID    int
	sections      map[int]*models.MenuSection
	items         map[int]*models.MenuItem
}

func newFakeMenuStore() *fakeMenuStore {
	return &fakeMenuStore{
		sections: map[int]*models.MenuSection{},
		items:    map[int]*models.MenuItem{},
	}
}

func (f *fakeMenuStore) CreateSection(_ context.Context, s *models.MenuSection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSectionID++
	s.SectionID = f.nextSectionID
	f.sections[s.SectionID] = s
	return nil
}

func (f *fakeMenuStore) GetSection(_ context.Context, id int) (*models.MenuSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sections[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeMenuStore) ListSections(_ context.Context) ([]*models.MenuSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.MenuSection, 0, len(f.sections))
	for _, s := range f.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeMenuStore) UpdateSection(_ context.Context, s *models.MenuSection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sections[s.SectionID]; !ok {
		return pgx.ErrNoRows
	}
	f.sections[s.SectionID] = s
	return nil
}

func (f *fakeMenuStore) DeleteSection(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sections[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.sections, id)
	return nil
}

func (f *fakeMenuStore) CreateItem(_ context.Context, item *models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextItemID++
	item.ItemID = f.nextItemID
	f.items[item.ItemID] = item
	return nil
}

func (f *fakeMenuStore) GetItem(_ context.Context, id int) (*models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return item, nil
}

func (f *fakeMenuStore) ListItems(_ context.Context, sectionID int) ([]*models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.MenuItem, 0, len(f.items))
	for _, item := range f.items {
		if sectionID != 0 && item.SectionID != sectionID {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeMenuStore) UpdateItem(_ context.Context, item *models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.ItemID]; !ok {
		return pgx.ErrNoRows
	}
	f.items[item.ItemID] = item
	return nil
}

func (f *fakeMenuStore) DeleteItem(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeDisplayStore struct {
	mu       sync.Mutex
	nextID   int
	displays map[int]*models.Display
}

func newFakeDisplayStore() *fakeDisplayStore {
	return &fakeDisplayStore{displays: map[int]*models.Display{}}
}

func (f *fakeDisplayStore) Create(_ context.Context, d *models.Display) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d.DisplayID = f.nextID
	d.Token = uuid.New()
	f.displays[d.DisplayID] = d
	return nil
}

func (f *fakeDisplayStore) GetByID(_ context.Context, id int) (*models.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.displays[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (f *fakeDisplayStore) GetByToken(_ context.Context, token uuid.UUID) (*models.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.displays {
		if d.Token == token {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDisplayStore) List(_ context.Context) ([]*models.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Display, 0, len(f.displays))
	for _, d := range f.displays {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayID < out[j].DisplayID })
	return out, nil
}

func (f *fakeDisplayStore) Update(_ context.Context, d *models.Display) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.displays[d.DisplayID]; !ok {
		return pgx.ErrNoRows
	}
	f.displays[d.DisplayID] = d
	return nil
}

func (f *fakeDisplayStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.displays[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.displays, id)
	return nil
}

func (f *fakeDisplayStore) TouchLastSeen(_ context.Context, id int, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.displays[id]
	if !ok {
		return pgx.ErrNoRows
	}
	d.LastSeenAt = &now
	return nil
}

type fakeCampaignStore struct {
	mu        sync.Mutex
	nextID    int
	campaigns map[int]*models.Campaign
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{campaigns: map[int]*models.Campaign{}}
}

func (f *fakeCampaignStore) Create(_ context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.CampaignID = f.nextID
	f.campaigns[c.CampaignID] = c
	return nil
}

func (f *fakeCampaignStore) GetByID(_ context.Context, id int) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCampaignStore) List(_ context.Context) ([]*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CampaignID < out[j].CampaignID })
	return out, nil
}

func (f *fakeCampaignStore) ActiveOn(ctx context.Context, day time.Time) ([]*models.Campaign, error) {
	all, _ := f.List(ctx)
	var out []*models.Campaign
	for _, c := range all {
		if !c.Active {
			continue
		}
		if c.StartDate != nil && day.Before(*c.StartDate) {
			continue
		}
		if c.EndDate != nil && day.After(*c.EndDate) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCampaignStore) Update(_ context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.campaigns[c.CampaignID]; !ok {
		return pgx.ErrNoRows
	}
	f.campaigns[c.CampaignID] = c
	return nil
}

func (f *fakeCampaignStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.campaigns[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.campaigns, id)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	count int
}

func (f *fakeNotifier) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
}

func (f *fakeNotifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

type testStores struct {
	events        *fakeEventStore
	specials      *fakeSpecialStore
	announcements *fakeAnnouncementStore
	menu          *fakeMenuStore
	displays      *fakeDisplayStore
	campaigns     *fakeCampaignStore
	notifier      *fakeNotifier
}

func newTestServer(t *testing.T) (*Server, *testStores) {
	t.Helper()
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}

	stores := &testStores{
		events:        newFakeEventStore(),
		specials:      newFakeSpecialStore(),
		announcements: newFakeAnnouncementStore(),
		menu:          newFakeMenuStore(),
		displays:      newFakeDisplayStore(),
		campaigns:     newFakeCampaignStore(),
		notifier:      &fakeNotifier{},
	}
	srv := NewServer(&Options{
		Loc:            loc,
		DisableReqLogs: true,
		Events:         stores.events,
		Specials:       stores.specials,
		Announcements:  stores.announcements,
		Menu:           stores.menu,
		Displays:       stores.displays,
		Campaigns:      stores.campaigns,
		Feed:           ics.NewFeed(loc),
		Notifier:       stores.notifier,
	})
	return srv, stores
}

func doJSON(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func dayPtr(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
