package analytics

import (
	"eventbook/internal/core"
	"eventbook/internal/dates"

	"github.com/shopspring/decimal"
)

// Group is one bucket produced by GroupReduce.
type Group[K comparable, A any] struct {
	Key   K
	Value A
}

// GroupReduce buckets items by key and folds each bucket with reduce,
// starting from init(key). Buckets come back in first-encounter order.
// Items whose key function reports false are skipped.
func GroupReduce[T any, K comparable, A any](
	items []T,
	key func(T) (K, bool),
	init func(K) A,
	reduce func(A, T) A,
) []Group[K, A] {
	index := make(map[K]int)
	var out []Group[K, A]
	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, Group[K, A]{Key: k, Value: init(k)})
		}
		out[i].Value = reduce(out[i].Value, it)
	}
	return out
}

// Bucket keys shared by every report so they can never disagree. Each one
// skips events whose date does not parse.

func monthKey(e core.Event) (string, bool) { return dates.MonthKeyOf(e.EventDate) }

func venueKey(e core.Event) (string, bool) {
	if !dated(e) {
		return "", false
	}
	return e.Venue(), true
}

func clientKey(e core.Event) (string, bool) {
	if !dated(e) {
		return "", false
	}
	return e.Client(), true
}

func dated(e core.Event) bool {
	_, ok := dates.MonthKeyOf(e.EventDate)
	return ok
}

// tally accumulates a booking count and exact revenue.
type tally struct {
	count   int
	revenue decimal.Decimal
}

func newTally(string) tally { return tally{revenue: decimal.Zero} }

func addToTally(t tally, e core.Event) tally {
	t.count++
	t.revenue = t.revenue.Add(e.GrandTotal.Decimal())
	return t
}

// monthTally extends tally with the per-venue split of a month.
type monthTally struct {
	tally
	venues map[string]int
}

func newMonthTally(string) monthTally {
	return monthTally{tally: tally{revenue: decimal.Zero}, venues: make(map[string]int)}
}

func addToMonthTally(t monthTally, e core.Event) monthTally {
	t.tally = addToTally(t.tally, e)
	t.venues[e.Venue()]++
	return t
}
