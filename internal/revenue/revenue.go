// Package revenue buckets a collection's sold items into a time series for
// charting.
package revenue

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"stashmate/internal/model"
	"stashmate/internal/store"
)

// Granularity is the time-bucket width for aggregation.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// ParseGranularity parses a granularity selector.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(s) {
	case "day", "daily":
		return Day, nil
	case "week", "weekly":
		return Week, nil
	case "month", "monthly":
		return Month, nil
	default:
		return Day, fmt.Errorf("unknown granularity %q", s)
	}
}

// Truncate returns the bucket boundary containing t: the calendar date for
// Day, the Monday of the ISO week for Week, the first of the month for
// Month.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Week:
		offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
		return t.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

// Point is one aggregated bucket of the series.
type Point struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// Series sums revenue (price * quantity) and profit of a collection's sold
// items per bucket and returns the buckets in ascending date order. A
// collection with no sold items yields an empty series. Items whose date
// does not parse as a calendar date are skipped, consistent with the
// lenient import coercion policy.
func Series(ctx context.Context, db *sql.DB, collectionID int64, g Granularity) ([]Point, error) {
	items, err := store.ListCollectionItems(ctx, db, collectionID)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	buckets := make(map[time.Time]*Point)
	for _, item := range items {
		if item.Status != model.StatusSold {
			continue
		}
		date, err := time.Parse("2006-01-02", item.CreatedAt)
		if err != nil {
			continue
		}
		key := g.Truncate(date)
		p, ok := buckets[key]
		if !ok {
			p = &Point{Date: key.Format("2006-01-02")}
			buckets[key] = p
		}
		p.Revenue += item.Price * float64(item.Quantity)
		p.Profit += item.Profit
	}

	series := make([]Point, 0, len(buckets))
	for _, p := range buckets {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}
