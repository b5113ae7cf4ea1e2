package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/copperkettle/backhouse/internal/models"
)

func titles(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title()
	}
	return out
}

func TestSortItemsNextOrder(t *testing.T) {
	loc := denver(t)
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, loc)

	// Past event with a very recent date must still sort after everything
	// scheduled or active.
	pastEvent := &models.Event{
		Title:     "Last Night's Tasting",
		StartTime: timePtr(time.Date(2025, 6, 3, 18, 0, 0, 0, loc)),
		EndTime:   timePtr(time.Date(2025, 6, 3, 21, 0, 0, 0, loc)),
		Active:    true,
	}
	farEvent := &models.Event{
		Title:     "Harvest Dinner",
		StartTime: timePtr(time.Date(2025, 9, 20, 18, 0, 0, 0, loc)),
		Active:    true,
	}
	soonEvent := &models.Event{
		Title:     "Wine Wednesday",
		StartTime: timePtr(time.Date(2025, 6, 11, 17, 0, 0, 0, loc)),
		Active:    true,
	}
	activeSpecial := &models.Special{
		Title:     "Green Chile Stew",
		Type:      models.SpecialFood,
		StartDate: datePtr(time.UTC, 2025, 6, 1),
		EndDate:   datePtr(time.UTC, 2025, 6, 10),
		Active:    true,
	}
	draft := &models.Announcement{Title: "Unfinished note"}

	items := []Item{
		EventItem(pastEvent),
		EventItem(farEvent),
		AnnouncementItem(draft),
		EventItem(soonEvent),
		SpecialItem(activeSpecial),
	}
	SortItems(items, OrderNext, now, loc)

	want := []string{
		"Green Chile Stew",     // active, resolves to now
		"Wine Wednesday",       // scheduled, nearest date
		"Harvest Dinner",       // scheduled, later date
		"Last Night's Tasting", // past tier
		"Unfinished note",      // draft tier
	}
	if got := titles(items); !reflect.DeepEqual(got, want) {
		t.Errorf("sorted order = %v, want %v", got, want)
	}
}

func TestSortItemsStableAndIdempotent(t *testing.T) {
	loc := denver(t)
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, loc)

	// Two undated drafts tie on priority and sentinel date; input order must
	// survive.
	first := &models.Announcement{Title: "First draft"}
	second := &models.Announcement{Title: "Second draft"}
	event := &models.Event{
		Title:     "Trivia",
		StartTime: timePtr(time.Date(2025, 6, 12, 19, 0, 0, 0, loc)),
		Active:    true,
	}

	items := []Item{AnnouncementItem(first), AnnouncementItem(second), EventItem(event)}
	SortItems(items, OrderNext, now, loc)
	once := titles(items)

	if once[1] != "First draft" || once[2] != "Second draft" {
		t.Errorf("ties must keep input order, got %v", once)
	}

	SortItems(items, OrderNext, now, loc)
	if twice := titles(items); !reflect.DeepEqual(once, twice) {
		t.Errorf("sort is not idempotent: %v then %v", once, twice)
	}
}

func TestSortItemsMalformedRuleDoesNotBreakList(t *testing.T) {
	loc := denver(t)
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, loc)

	broken := &models.Event{
		Title:          "Broken Series",
		StartTime:      timePtr(time.Date(2025, 6, 2, 18, 0, 0, 0, loc)),
		RecurrenceRule: "not a rule at all",
		Active:         true,
	}
	fine := &models.Event{
		Title:     "Dinner",
		StartTime: timePtr(time.Date(2025, 6, 6, 18, 0, 0, 0, loc)),
		Active:    true,
	}

	items := []Item{EventItem(broken), EventItem(fine)}
	SortItems(items, OrderNext, now, loc)

	// The malformed item degrades to the sentinel and sorts last in its tier.
	if items[0].Title() != "Dinner" {
		t.Errorf("sorted order = %v, want the well-formed event first", titles(items))
	}
}

func TestSortItemsSecondaryOrders(t *testing.T) {
	loc := denver(t)
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, loc)

	a := &models.Event{Title: "Apple Pressing", StartTime: timePtr(time.Date(2025, 7, 1, 10, 0, 0, 0, loc)), Active: true}
	b := &models.Event{Title: "brunch service", StartTime: timePtr(time.Date(2025, 6, 8, 10, 0, 0, 0, loc)), Active: true}
	c := &models.Event{Title: "Cider Night", StartTime: timePtr(time.Date(2025, 6, 20, 18, 0, 0, 0, loc)), Active: false}

	tests := []struct {
		order Order
		want  []string
	}{
		{OrderDate, []string{"brunch service", "Cider Night", "Apple Pressing"}},
		{OrderDateDesc, []string{"Apple Pressing", "Cider Night", "brunch service"}},
		{OrderTitle, []string{"Apple Pressing", "brunch service", "Cider Night"}},
		{OrderTitleDesc, []string{"Cider Night", "brunch service", "Apple Pressing"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			items := []Item{EventItem(a), EventItem(b), EventItem(c)}
			SortItems(items, tt.order, now, loc)
			if got := titles(items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order %s = %v, want %v", tt.order, got, tt.want)
			}
		})
	}
}

func TestSortItemsKindGrouping(t *testing.T) {
	loc := denver(t)
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, loc)

	event := &models.Event{Title: "Dinner", StartTime: timePtr(time.Date(2025, 6, 6, 18, 0, 0, 0, loc)), Active: true}
	special := &models.Special{Title: "Stew", Type: models.SpecialFood, StartDate: datePtr(time.UTC, 2025, 6, 5), Active: true}
	announcement := &models.Announcement{Title: "Hours", PublishAt: timePtr(time.Date(2025, 6, 5, 9, 0, 0, 0, loc)), Published: true}

	items := []Item{AnnouncementItem(announcement), SpecialItem(special), EventItem(event)}
	SortItems(items, OrderKind, now, loc)

	want := []string{"Dinner", "Stew", "Hours"} // events, specials, announcements
	if got := titles(items); !reflect.DeepEqual(got, want) {
		t.Errorf("kind grouping = %v, want %v", got, want)
	}
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		input string
		want  Order
	}{
		{"next", OrderNext},
		{"date", OrderDate},
		{"date_desc", OrderDateDesc},
		{"title", OrderTitle},
		{"title_desc", OrderTitleDesc},
		{"kind", OrderKind},
		{"", OrderNext},
		{"bogus", OrderNext},
	}
	for _, tt := range tests {
		if got := ParseOrder(tt.input); got != tt.want {
			t.Errorf("ParseOrder(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
