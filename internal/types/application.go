package types

import "math"

// ApplicationStatus is the tracking state of a job application.
// Any status may follow any other.
type ApplicationStatus string

// Application statuses
const (
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

// ApplicationStatuses lists every valid status in display order
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ApplicationStats aggregates a user's applications by status
type ApplicationStats struct {
	Total       int `json:"total"`
	Applied     int `json:"applied"`
	Interview   int `json:"interview"`
	Offer       int `json:"offer"`
	Rejected    int `json:"rejected"`
	Withdrawn   int `json:"withdrawn"`
	SuccessRate int `json:"success_rate"`
}

// SuccessRate returns offers as a rounded percentage of total, or 0 when total is 0
func SuccessRate(offers, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(offers) / float64(total) * 100))
}

// ComputeApplicationStats counts statuses and derives the success rate.
// Unknown statuses count toward the total only.
func ComputeApplicationStats(statuses []ApplicationStatus) ApplicationStats {
	var stats ApplicationStats
	for _, s := range statuses {
		stats.Total++
		switch s {
		case StatusApplied:
			stats.Applied++
		case StatusInterview:
			stats.Interview++
		case StatusOffer:
			stats.Offer++
		case StatusRejected:
			stats.Rejected++
		case StatusWithdrawn:
			stats.Withdrawn++
		}
	}
	stats.SuccessRate = SuccessRate(stats.Offer, stats.Total)
	return stats
}

// StatsFromCounts builds stats from per-status counts (as returned by a GROUP BY query)
func StatsFromCounts(counts map[ApplicationStatus]int) ApplicationStats {
	stats := ApplicationStats{
		Applied:   counts[StatusApplied],
		Interview: counts[StatusInterview],
		Offer:     counts[StatusOffer],
		Rejected:  counts[StatusRejected],
		Withdrawn: counts[StatusWithdrawn],
	}
	for _, n := range counts {
		stats.Total += n
	}
	stats.SuccessRate = SuccessRate(stats.Offer, stats.Total)
	return stats
}
