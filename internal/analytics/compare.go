package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Comparison summarizes a sub-range of the monthly breakdown.
type Comparison struct {
	Start              string        `json:"start"`
	End                string        `json:"end"`
	Months             []MonthlyStat `json:"months"`
	TotalEvents        int           `json:"totalEvents"`
	TotalRevenue       float64       `json:"totalRevenue"`
	AvgRevenuePerMonth float64       `json:"avgRevenuePerMonth"`
}

// Compare slices breakdown to the month keys within [start, end]. Both
// bounds are required: if either is blank the result is empty rather
// than defaulting to the whole table.
func Compare(breakdown []MonthlyStat, start, end string) Comparison {
	c := Comparison{Start: start, End: end, Months: make([]MonthlyStat, 0)}
	if start == "" || end == "" {
		return c
	}
	total := decimal.Zero
	for _, m := range breakdown {
		if m.Month < start || m.Month > end {
			continue
		}
		c.Months = append(c.Months, m)
		c.TotalEvents += m.Count
		total = total.Add(fromFloat(m.Revenue))
	}
	sort.Slice(c.Months, func(i, j int) bool { return c.Months[i].Month < c.Months[j].Month })
	c.TotalRevenue = toFloat(total)
	c.AvgRevenuePerMonth = average(total, len(c.Months))
	return c
}
