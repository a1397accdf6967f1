package simulation

import (
	"maps"
	"sort"
)

// Schedule holds pending deliveries keyed by arrival day then material.
// At most one delivery exists per (day, material); the first one wins.
type Schedule struct {
	days map[int]map[string]float64
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{days: make(map[int]map[string]float64)}
}

// Has reports whether a delivery of material is due on day.
func (s *Schedule) Has(day int, material string) bool {
	_, ok := s.days[day][material]
	return ok
}

// Add schedules quantity of material for day. It returns false and leaves the
// existing entry alone when that (day, material) pair is already taken.
func (s *Schedule) Add(day int, material string, quantity float64) bool {
	if s.Has(day, material) {
		return false
	}
	row, ok := s.days[day]
	if !ok {
		row = make(map[string]float64)
		s.days[day] = row
	}
	row[material] = quantity
	return true
}

// Take removes and returns every delivery due on day. It returns nil when
// nothing is due.
func (s *Schedule) Take(day int) map[string]float64 {
	row, ok := s.days[day]
	if !ok {
		return nil
	}
	delete(s.days, day)
	return row
}

// Empty reports whether no delivery is pending.
func (s *Schedule) Empty() bool {
	return len(s.days) == 0
}

// Days lists the days with pending deliveries, ascending.
func (s *Schedule) Days() []int {
	days := make([]int, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Snapshot returns a deep copy of the pending deliveries.
func (s *Schedule) Snapshot() map[int]map[string]float64 {
	out := make(map[int]map[string]float64, len(s.days))
	for d, row := range s.days {
		out[d] = maps.Clone(row)
	}
	return out
}
