package model

// Schedule is the solved dispatch of one run: unit name -> hour -> signed
// power. Thermal output is positive, battery charging is negative and
// renewables report their nominal output.
type Schedule struct {
	RunID     string                     `json:"run_id"`
	TotalCost float64                    `json:"total_cost"`
	Units     map[string]map[int]float64 `json:"units"`
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{Units: make(map[string]map[int]float64)}
}

// Set stores the power of a unit for an hour.
func (s *Schedule) Set(unit string, hour int, power float64) {
	hours, ok := s.Units[unit]
	if !ok {
		hours = make(map[int]float64)
		s.Units[unit] = hours
	}
	hours[hour] = power
}

// Power returns the scheduled power of a unit for an hour.
func (s *Schedule) Power(unit string, hour int) (float64, bool) {
	hours, ok := s.Units[unit]
	if !ok {
		return 0, false
	}
	p, ok := hours[hour]
	return p, ok
}
