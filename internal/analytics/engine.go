// Package analytics derives the dashboard rollups from a booking
// collection. Every function is a pure re-derivation from its input; none
// keeps state between calls.
package analytics

import (
	"math"
	"sort"
	"time"

	"eventbook/internal/core"
	"eventbook/internal/daterange"

	"github.com/shopspring/decimal"
)

const (
	// TopN caps every ranking list.
	TopN = 4
	// HighValueMultiplier and HighValueFloor define the premium threshold:
	// max(average × 1.35, 5000).
	HighValueMultiplier = 1.35
	HighValueFloor      = 5000
)

const (
	Up   Direction = "up"
	Down Direction = "down"
)

type (
	Direction string

	KPIs struct {
		TotalRevenue       float64        `json:"totalRevenue"`
		EventCount         int            `json:"eventCount"`
		AvgRevenuePerEvent float64        `json:"avgRevenuePerEvent"`
		BusiestVenue       string         `json:"busiestVenue"`
		VenueCounts        map[string]int `json:"venueCounts"`
	}

	MonthlyRevenue struct {
		Month   string  `json:"month"`
		Revenue float64 `json:"revenue"`
	}

	Trend struct {
		Latest          string    `json:"latest"`
		Previous        string    `json:"previous,omitempty"`
		LatestRevenue   float64   `json:"latestRevenue"`
		PreviousRevenue float64   `json:"previousRevenue"`
		Delta           float64   `json:"delta"`
		Percent         float64   `json:"percent"`
		HasPercent      bool      `json:"hasPercent"`
		Direction       Direction `json:"direction"`
	}

	VenueCount struct {
		Venue string `json:"venue"`
		Count int    `json:"count"`
	}

	VenueDistribution struct {
		Venues        []VenueCount `json:"venues"`
		TopVenue      string       `json:"topVenue"`
		TopVenueShare int          `json:"topVenueShare"` // percent of filtered events, rounded
		RunnerUp      string       `json:"runnerUp,omitempty"`
	}

	ClientAggregate struct {
		Name     string  `json:"name"`
		Revenue  float64 `json:"revenue"`
		Bookings int     `json:"bookings"`
	}

	HighValue struct {
		Threshold float64      `json:"threshold"`
		Events    []core.Event `json:"events"`
	}

	// MonthlyStat is one row of the monthly breakdown table.
	MonthlyStat struct {
		Month   string         `json:"month"`
		Count   int            `json:"count"`
		Revenue float64        `json:"revenue"`
		Venues  map[string]int `json:"venues"`
	}

	Report struct {
		StatusCounts     map[core.Status]int `json:"statusCounts"`
		KPIs             KPIs                `json:"kpis"`
		MonthlyRevenue   []MonthlyRevenue    `json:"monthlyRevenue"`
		Trend            Trend               `json:"trend"`
		Venues           VenueDistribution   `json:"venues"`
		Clients          []ClientAggregate   `json:"clients"`
		RepeatClients    []ClientAggregate   `json:"repeatClients"`
		HighValue        HighValue           `json:"highValue"`
		TopClients       []ClientAggregate   `json:"topClients"`
		TopEvents        []core.Event        `json:"topEvents"`
		TopMonths        []MonthlyStat       `json:"topMonths"`
		MonthlyBreakdown []MonthlyStat       `json:"monthlyBreakdown"`
		BusiestMonth     *MonthlyStat        `json:"busiestMonth"`
	}
)

// Eligible keeps finished events that carry a date.
func Eligible(events []core.Event) []core.Event {
	out := make([]core.Event, 0, len(events))
	for _, e := range events {
		if e.Status == core.Finished && e.HasDate() {
			out = append(out, e)
		}
	}
	return out
}

// Filter narrows events to eligible ones inside b. Dates are read in loc;
// events with unparsable dates are dropped.
func Filter(events []core.Event, b daterange.Bounds, loc *time.Location) []core.Event {
	eligible := Eligible(events)
	out := eligible[:0]
	for _, e := range eligible {
		if b.ContainsDate(e.EventDate, loc) {
			out = append(out, e)
		}
	}
	return out
}

// BuildReport filters the collection and derives every dashboard output.
func BuildReport(events []core.Event, b daterange.Bounds, loc *time.Location) Report {
	filtered := Filter(events, b, loc)
	kpis, avg := computeKPIs(filtered)
	months := monthlyTallies(filtered)
	series := seriesOf(months)
	breakdown := MonthlyBreakdown(filtered)
	clients := ClientAggregates(filtered)

	r := Report{
		StatusCounts:     StatusCounts(events),
		KPIs:             kpis,
		MonthlyRevenue:   series,
		Trend:            trendOf(months),
		Venues:           VenueDistributionOf(filtered),
		Clients:          clients,
		RepeatClients:    RepeatClients(clients),
		HighValue:        highValueEvents(filtered, avg),
		TopClients:       TopClients(clients, TopN),
		TopEvents:        TopEvents(filtered, TopN),
		TopMonths:        TopMonths(breakdown, TopN),
		MonthlyBreakdown: breakdown,
	}
	if m, ok := BusiestMonth(breakdown); ok {
		r.BusiestMonth = &m
	}
	return r
}

// StatusCounts counts the whole collection per status tab.
func StatusCounts(events []core.Event) map[core.Status]int {
	counts := map[core.Status]int{core.Pending: 0, core.Upcoming: 0, core.Finished: 0}
	for _, e := range events {
		if e.Status.Valid() {
			counts[e.Status]++
		}
	}
	return counts
}

// ComputeKPIs totals revenue and venue usage over dated events.
// Busiest-venue ties go to the venue seen first.
func ComputeKPIs(events []core.Event) KPIs {
	k, _ := computeKPIs(events)
	return k
}

// computeKPIs also returns the exact average for the high-value threshold.
func computeKPIs(events []core.Event) (KPIs, decimal.Decimal) {
	k := KPIs{VenueCounts: make(map[string]int)}
	total := decimal.Zero
	for _, e := range events {
		if !dated(e) {
			continue
		}
		total = total.Add(e.GrandTotal.Decimal())
		k.EventCount++
	}
	k.TotalRevenue = toFloat(total)
	avg := decimal.Zero
	if k.EventCount > 0 {
		avg = total.Div(decimal.NewFromInt(int64(k.EventCount)))
	}
	k.AvgRevenuePerEvent = toFloat(avg)

	best := 0
	for _, g := range GroupReduce(events, venueKey, newTally, addToTally) {
		k.VenueCounts[g.Key] = g.Value.count
		if g.Value.count > best {
			best = g.Value.count
			k.BusiestVenue = g.Key
		}
	}
	return k, avg
}

// MonthlyRevenueSeries sums revenue per month, ascending by month key.
func MonthlyRevenueSeries(events []core.Event) []MonthlyRevenue {
	return seriesOf(monthlyTallies(events))
}

// monthlyTallies buckets events per month, ascending by key, keeping the
// exact sums.
func monthlyTallies(events []core.Event) []Group[string, tally] {
	groups := GroupReduce(events, monthKey, newTally, addToTally)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

func seriesOf(months []Group[string, tally]) []MonthlyRevenue {
	out := make([]MonthlyRevenue, 0, len(months))
	for _, g := range months {
		out = append(out, MonthlyRevenue{Month: g.Key, Revenue: toFloat(g.Value.revenue)})
	}
	return out
}

// RevenueTrend compares the last two months of series. Without a nonzero
// previous month only the absolute delta is reported; a missing previous
// month counts as zero.
func RevenueTrend(series []MonthlyRevenue) Trend {
	months := make([]Group[string, tally], 0, len(series))
	for _, m := range series {
		months = append(months, Group[string, tally]{Key: m.Month, Value: tally{revenue: fromFloat(m.Revenue)}})
	}
	return trendOf(months)
}

func trendOf(months []Group[string, tally]) Trend {
	t := Trend{Direction: Up}
	if len(months) == 0 {
		return t
	}
	latest := months[len(months)-1]
	prev := decimal.Zero
	t.Latest, t.LatestRevenue = latest.Key, toFloat(latest.Value.revenue)
	if len(months) > 1 {
		p := months[len(months)-2]
		prev = p.Value.revenue
		t.Previous, t.PreviousRevenue = p.Key, toFloat(prev)
	}
	delta := latest.Value.revenue.Sub(prev)
	t.Delta = toFloat(delta)
	if t.Previous != "" && !prev.IsZero() {
		t.Percent = toFloat(delta.Div(prev).Mul(decimal.NewFromInt(100)))
		t.HasPercent = true
	}
	if delta.IsNegative() {
		t.Direction = Down
	}
	return t
}

// VenueDistributionOf ranks venues by booking count. Equal counts keep
// first-encounter order.
func VenueDistributionOf(events []core.Event) VenueDistribution {
	groups := GroupReduce(events, venueKey, newTally, addToTally)
	d := VenueDistribution{Venues: make([]VenueCount, 0, len(groups))}
	for _, g := range groups {
		d.Venues = append(d.Venues, VenueCount{Venue: g.Key, Count: g.Value.count})
	}
	sort.SliceStable(d.Venues, func(i, j int) bool { return d.Venues[i].Count > d.Venues[j].Count })
	if len(d.Venues) == 0 {
		return d
	}
	counted := 0
	for _, g := range groups {
		counted += g.Value.count
	}
	d.TopVenue = d.Venues[0].Venue
	d.TopVenueShare = percentOf(d.Venues[0].Count, counted)
	if len(d.Venues) > 1 {
		d.RunnerUp = d.Venues[1].Venue
	}
	return d
}

// ClientAggregates merges bookings per trimmed client name, highest
// revenue first.
func ClientAggregates(events []core.Event) []ClientAggregate {
	groups := GroupReduce(events, clientKey, newTally, addToTally)
	out := make([]ClientAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, ClientAggregate{
			Name:     g.Key,
			Revenue:  toFloat(g.Value.revenue),
			Bookings: g.Value.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

// RepeatClients keeps clients with more than one booking.
func RepeatClients(clients []ClientAggregate) []ClientAggregate {
	out := make([]ClientAggregate, 0)
	for _, c := range clients {
		if c.Bookings > 1 {
			out = append(out, c)
		}
	}
	return out
}

// HighValueEvents flags dated events at or above max(avg × 1.35, 5000).
// With no events or a zero average both threshold and set are empty.
func HighValueEvents(events []core.Event, avg float64) HighValue {
	return highValueEvents(events, fromFloat(avg))
}

func highValueEvents(events []core.Event, avg decimal.Decimal) HighValue {
	hv := HighValue{Events: make([]core.Event, 0)}
	if len(events) == 0 || avg.IsZero() {
		return hv
	}
	threshold := avg.Mul(decimal.NewFromFloat(HighValueMultiplier))
	if floor := decimal.NewFromInt(HighValueFloor); threshold.LessThan(floor) {
		threshold = floor
	}
	hv.Threshold = toFloat(threshold)
	for _, e := range events {
		if dated(e) && e.GrandTotal.Decimal().GreaterThanOrEqual(threshold) {
			hv.Events = append(hv.Events, e)
		}
	}
	return hv
}

// TopClients truncates an already-ranked client list to n.
func TopClients(clients []ClientAggregate, n int) []ClientAggregate {
	return truncate(clients, n)
}

// TopEvents ranks individual bookings by revenue, skipping blank or zero
// totals.
func TopEvents(events []core.Event, n int) []core.Event {
	ranked := make([]core.Event, 0, len(events))
	for _, e := range events {
		if dated(e) && !e.GrandTotal.IsZero() {
			ranked = append(ranked, e)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GrandTotal.Decimal().GreaterThan(ranked[j].GrandTotal.Decimal())
	})
	return truncate(ranked, n)
}

// TopMonths ranks breakdown rows by revenue.
func TopMonths(breakdown []MonthlyStat, n int) []MonthlyStat {
	ranked := append([]MonthlyStat(nil), breakdown...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
	return truncate(ranked, n)
}

// MonthlyBreakdown is the per-month table of counts, revenue and venue
// split, ascending by month key. It buckets with the same key as
// MonthlyRevenueSeries.
func MonthlyBreakdown(events []core.Event) []MonthlyStat {
	groups := GroupReduce(events, monthKey, newMonthTally, addToMonthTally)
	out := make([]MonthlyStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlyStat{
			Month:   g.Key,
			Count:   g.Value.count,
			Revenue: toFloat(g.Value.revenue),
			Venues:  g.Value.venues,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// BusiestMonth picks the month with the most bookings; ties go to the
// higher revenue, then to the earlier month.
func BusiestMonth(breakdown []MonthlyStat) (MonthlyStat, bool) {
	if len(breakdown) == 0 {
		return MonthlyStat{}, false
	}
	best := breakdown[0]
	for _, m := range breakdown[1:] {
		if m.Count > best.Count || (m.Count == best.Count && m.Revenue > best.Revenue) {
			best = m
		}
	}
	return best, true
}

func average(total decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return toFloat(total.Div(decimal.NewFromInt(int64(n))))
}

// toFloat converts an exact sum for reporting. Sums beyond float64 range
// saturate rather than becoming ±Inf, which JSON cannot carry.
func toFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

// fromFloat is the inverse of toFloat for values read back from reports.
func fromFloat(f float64) decimal.Decimal {
	switch {
	case math.IsNaN(f):
		return decimal.Zero
	case math.IsInf(f, 1):
		f = math.MaxFloat64
	case math.IsInf(f, -1):
		f = -math.MaxFloat64
	}
	return decimal.NewFromFloat(f)
}

func percentOf(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return append([]T{}, items...)
}
