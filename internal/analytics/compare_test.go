package analytics

import "testing"

func TestCompare(t *testing.T) {
	breakdown := []MonthlyStat{
		{Month: "2025-04", Count: 1, Revenue: 400},
		{Month: "2025-01", Count: 2, Revenue: 100},
		{Month: "2025-02", Count: 3, Revenue: 200.5},
		{Month: "2025-03", Count: 1, Revenue: 300},
	}

	tests := []struct {
		name       string
		start, end string
		months     []string
		events     int
		revenue    float64
		avg        float64
	}{
		{"inclusive window", "2025-02", "2025-03", []string{"2025-02", "2025-03"}, 4, 500.5, 250.25},
		{"whole table", "2024-01", "2026-12", []string{"2025-01", "2025-02", "2025-03", "2025-04"}, 7, 1000.5, 250.125},
		{"only start", "2025-01", "", nil, 0, 0, 0},
		{"only end", "", "2025-03", nil, 0, 0, 0},
		{"inverted", "2025-04", "2025-01", nil, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compare(breakdown, tt.start, tt.end)
			if c.Months == nil {
				t.Fatalf("months must be non-nil")
			}
			if len(c.Months) != len(tt.months) {
				t.Fatalf("expected %d months, got %+v", len(tt.months), c.Months)
			}
			for i, m := range tt.months {
				if c.Months[i].Month != m {
					t.Fatalf("position %d expected %s, got %s", i, m, c.Months[i].Month)
				}
			}
			if c.TotalEvents != tt.events || c.TotalRevenue != tt.revenue || c.AvgRevenuePerMonth != tt.avg {
				t.Fatalf("unexpected totals: %+v", c)
			}
		})
	}
}
