package schedule

import (
	"sort"
	"strings"
	"time"
)

// Order selects how a mixed content list is sorted.
type Order string

const (
	OrderNext      Order = "next"
	OrderDate      Order = "date"
	OrderDateDesc  Order = "date_desc"
	OrderTitle     Order = "title"
	OrderTitleDesc Order = "title_desc"
	OrderKind      Order = "kind"
)

// ParseOrder maps a query-string value to an Order, defaulting to OrderNext.
func ParseOrder(s string) Order {
	switch Order(s) {
	case OrderDate, OrderDateDesc, OrderTitle, OrderTitleDesc, OrderKind:
		return Order(s)
	}
	return OrderNext
}

// SortItems sorts items in place. The sort is stable: ties keep input order,
// so sorting is idempotent. Status and next-occurrence are computed once per
// item, not per comparison.
func SortItems(items []Item, order Order, now time.Time, loc *time.Location) {
	switch order {
	case OrderTitle:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title()) < strings.ToLower(items[j].Title())
		})
	case OrderTitleDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title()) > strings.ToLower(items[j].Title())
		})
	case OrderDate:
		dates := resolveAll(items, now, loc)
		sort.SliceStable(items, func(i, j int) bool {
			return dates[items[i]].Before(dates[items[j]])
		})
	case OrderDateDesc:
		dates := resolveAll(items, now, loc)
		sort.SliceStable(items, func(i, j int) bool {
			return dates[items[i]].After(dates[items[j]])
		})
	case OrderKind:
		dates := resolveAll(items, now, loc)
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Kind() != items[j].Kind() {
				return items[i].Kind() < items[j].Kind()
			}
			return dates[items[i]].Before(dates[items[j]])
		})
	default: // OrderNext
		dates := resolveAll(items, now, loc)
		prios := make(map[Item]int, len(items))
		for _, it := range items {
			prios[it] = Classify(it, now, loc).Priority()
		}
		sort.SliceStable(items, func(i, j int) bool {
			if prios[items[i]] != prios[items[j]] {
				return prios[items[i]] < prios[items[j]]
			}
			return dates[items[i]].Before(dates[items[j]])
		})
	}
}

func resolveAll(items []Item, now time.Time, loc *time.Location) map[Item]time.Time {
	dates := make(map[Item]time.Time, len(items))
	for _, it := range items {
		dates[it] = NextOccurrence(it, now, loc)
	}
	return dates
}
