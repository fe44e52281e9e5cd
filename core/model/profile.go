package model

// Horizon is the number of hourly steps of a schedule. Hours are 1-based and
// hour 1 has no predecessor.
type Horizon int

// DayAhead is the fixed 24 hour horizon.
const DayAhead Horizon = 24

// Len returns the number of hours.
func (h Horizon) Len() int { return int(h) }

// Hours returns the ordered hour indices 1..Len.
func (h Horizon) Hours() []int {
	hours := make([]int, h.Len())
	for i := range hours {
		hours[i] = i + 1
	}
	return hours
}

// Profiles holds the raw hourly multipliers of the profile-bearing roles.
type Profiles struct {
	Demand []float64 `json:"demand" yaml:"demand"`
	Wind   []float64 `json:"wind" yaml:"wind"`
	Solar  []float64 `json:"pv" yaml:"pv"`
}
