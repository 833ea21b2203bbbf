// Package synth synthesizes per-day device usage intervals from a usage pattern.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Source is the random source the synthesizer draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// NewSource returns a deterministic source for the given seed
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Interval is one continuous usage of a device within a single calendar day
type Interval struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	EnergyKWh float64   `json:"energy_kwh"`
}

// Duration returns End - Start
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Energy returns the kWh drawn by a device of powerWatts between start and end,
// rounded to 4 decimal places
func Energy(powerWatts float64, start, end time.Time) float64 {
	kwh := powerWatts * end.Sub(start).Hours() / 1000
	return math.Round(kwh*1e4) / 1e4
}

type generator func(b *dayBuilder, rng Source)

var generators = map[Pattern]generator{
	AlwaysOn:       alwaysOn,
	EveningNight:   eveningNight,
	MorningEvening: morningEvening,
	Seasonal:       seasonal,
	DayNight:       dayNight,
	Occasional:     occasional,
}

// Generate returns the usage intervals of a device with the given pattern and
// fixed power draw on the calendar day containing day. Only the date part of day
// is used; its location is kept. Intervals never cross midnight. An unknown
// pattern panics.
func Generate(p Pattern, day time.Time, powerWatts float64, rng Source) []Interval {
	gen, ok := generators[p]
	if !ok {
		panic(fmt.Sprintf("synth: no generator for usage pattern %v", p))
	}

	y, m, d := day.Date()
	b := &dayBuilder{
		year:  y,
		month: m,
		day:   d,
		loc:   day.Location(),
		power: powerWatts,
	}
	b.last = time.Date(y, m, d, 23, 59, 59, 0, b.loc)

	gen(b, rng)
	return b.out
}

// dayBuilder accumulates the intervals of one device-day
type dayBuilder struct {
	year  int
	month time.Month
	day   int
	loc   *time.Location
	last  time.Time
	power float64
	out   []Interval
}

func (b *dayBuilder) at(hour, minute int) time.Time {
	return time.Date(b.year, b.month, b.day, hour, minute, 0, 0, b.loc)
}

// add clips the interval to the end of the day and keeps it if non-empty
func (b *dayBuilder) add(start time.Time, d time.Duration) {
	end := start.Add(d)
	if end.After(b.last) {
		end = b.last
	}
	if !start.Before(end) {
		return
	}
	b.out = append(b.out, Interval{
		Start:     start,
		End:       end,
		EnergyKWh: Energy(b.power, start, end),
	})
}

// randint returns an integer in [lo, hi]
func randint(rng Source, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// uniform returns a float in [lo, hi)
func uniform(rng Source, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func alwaysOn(b *dayBuilder, rng Source) {
	segments := randint(rng, 2, 4)
	slice := 24.0 / float64(segments)

	for i := 0; i < segments; i++ {
		hour := int(float64(i)*slice) + randint(rng, 0, 2)
		start := b.at(min(hour, 23), randint(rng, 0, 59))
		b.add(start, hours(uniform(rng, 3, 8)))
	}
}

func eveningNight(b *dayBuilder, rng Source) {
	count := randint(rng, 1, 3)
	for i := 0; i < count; i++ {
		start := b.at(randint(rng, 18, 22), randint(rng, 0, 59))
		b.add(start, hours(uniform(rng, 1, 5)))
	}
}

func morningEvening(b *dayBuilder, rng Source) {
	if rng.Float64() < 0.8 {
		start := b.at(randint(rng, 6, 9), randint(rng, 0, 59))
		b.add(start, time.Duration(randint(rng, 1, 3))*time.Minute)
	}
	if rng.Float64() < 0.9 {
		start := b.at(randint(rng, 18, 22), randint(rng, 0, 59))
		b.add(start, time.Duration(randint(rng, 1, 3))*time.Minute)
	}
}

// seasonProfile returns the probability of use and the total hours range for a month
func seasonProfile(m time.Month) (p, minHours, maxHours float64) {
	switch m {
	case time.June, time.July, time.August, time.September:
		return 0.8, 6, 12
	case time.December, time.January, time.February:
		return 0.5, 3, 8
	default:
		return 0.2, 1, 4
	}
}

func seasonal(b *dayBuilder, rng Source) {
	p, lo, hi := seasonProfile(b.month)
	total := uniform(rng, lo, hi)
	if rng.Float64() >= p {
		return
	}

	segments := randint(rng, 1, 3)
	perSegment := hours(total / float64(segments))
	for i := 0; i < segments; i++ {
		start := b.at(randint(rng, 8, 22), randint(rng, 0, 59))
		b.add(start, perSegment)
	}
}

func dayNight(b *dayBuilder, rng Source) {
	count := randint(rng, 2, 4)
	for i := 0; i < count; i++ {
		start := b.at(randint(rng, 7, 22), randint(rng, 0, 59))
		b.add(start, hours(uniform(rng, 2, 6)))
	}
}

func occasional(b *dayBuilder, rng Source) {
	if rng.Float64() >= 0.3 {
		return
	}

	count := randint(rng, 1, 8)
	for i := 0; i < count; i++ {
		start := b.at(randint(rng, 6, 23), randint(rng, 0, 59))
		seconds := uniform(rng, 5, 30)
		b.add(start, time.Duration(seconds*float64(time.Second)))
	}
}
