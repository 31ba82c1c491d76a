package model

// TeamMember represents a worker with skills and a daily hour capacity.
type TeamMember struct {
	ID             string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty"`
	Skills         []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	MaxHoursPerDay int      `json:"maxHoursPerDay" yaml:"maxHoursPerDay"`
	RemainingHours int      `json:"remainingHours" yaml:"remainingHours"`
	// Efficiency is informational, allocation strategies do not use it.
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
}

// NewTeamMember creates a member with remaining hours initialised to its capacity
func NewTeamMember(name string, maxHoursPerDay int, efficiency float64, skills ...string) *TeamMember {
	return &TeamMember{
		Name:           name,
		Skills:         skills,
		MaxHoursPerDay: maxHoursPerDay,
		RemainingHours: maxHoursPerDay,
		Efficiency:     efficiency,
	}
}

// Key returns member persistence key
func (m *TeamMember) Key() string {
	return m.ID
}

// Reset restores remaining hours to the daily capacity
func (m *TeamMember) Reset() {
	m.RemainingHours = m.MaxHoursPerDay
}

// Restore returns hours to the member capacity, capped at MaxHoursPerDay.
func (m *TeamMember) Restore(hours int) {
	m.RemainingHours += hours
	if m.RemainingHours > m.MaxHoursPerDay {
		m.RemainingHours = m.MaxHoursPerDay
	}
}

// Consume takes hours from the member capacity, never going below zero.
func (m *TeamMember) Consume(hours int) {
	m.RemainingHours -= hours
	if m.RemainingHours < 0 {
		m.RemainingHours = 0
	}
}

// HasSkill returns true if member holds the skill
func (m *TeamMember) HasSkill(skill string) bool {
	for _, candidate := range m.Skills {
		if candidate == skill {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the member
func (m *TeamMember) Clone() *TeamMember {
	if m == nil {
		return nil
	}
	ret := *m
	if m.Skills != nil {
		ret.Skills = append([]string(nil), m.Skills...)
	}
	return &ret
}

// MemberKey returns member key, used as dao key selector
func MemberKey(m *TeamMember) string {
	return m.ID
}
