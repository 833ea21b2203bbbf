package synth

import "fmt"

// Pattern is the daily behavioral profile of a device category
type Pattern int

const (
	AlwaysOn       Pattern = iota + 1 // "24x7": cameras, sensors
	EveningNight                      // lights
	MorningEvening                    // curtain motors
	Seasonal                          // air conditioners
	DayNight                          // purifiers, plugs
	Occasional                        // door locks
)

var patternNames = map[Pattern]string{
	AlwaysOn:       "24x7",
	EveningNight:   "evening_night",
	MorningEvening: "morning_evening",
	Seasonal:       "seasonal",
	DayNight:       "day_night",
	Occasional:     "occasional",
}

// Patterns returns every known pattern in declaration order
func Patterns() []Pattern {
	return []Pattern{AlwaysOn, EveningNight, MorningEvening, Seasonal, DayNight, Occasional}
}

// ParsePattern converts a configuration name like "evening_night" to a Pattern
func ParsePattern(name string) (Pattern, error) {
	for p, n := range patternNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown usage pattern %q", name)
}

// String returns the configuration name of the pattern
func (p Pattern) String() string {
	if n, ok := patternNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// Valid reports whether p is one of the known patterns
func (p Pattern) Valid() bool {
	_, ok := patternNames[p]
	return ok
}

// MarshalText implements encoding.TextMarshaler so patterns round-trip through YAML and JSON
func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown usage pattern %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
