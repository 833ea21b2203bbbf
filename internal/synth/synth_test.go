package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws so individual branches can be pinned down
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		panic("scriptedSource: out of ints")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		panic("scriptedSource: int out of range")
	}
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		panic("scriptedSource: out of floats")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func TestGenerateInvariants(t *testing.T) {
	rng := NewSource(7)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	const power = 120.0

	for _, p := range Patterns() {
		t.Run(p.String(), func(t *testing.T) {
			for d := 0; d < 366; d++ {
				day := start.AddDate(0, 0, d)
				for _, iv := range Generate(p, day, power, rng) {
					require.True(t, sameDay(iv.Start, day), "start %s not on %s", iv.Start, day)
					require.True(t, sameDay(iv.End, day), "end %s not on %s", iv.End, day)
					require.True(t, iv.Start.Before(iv.End), "start %s not before end %s", iv.Start, iv.End)
					require.Equal(t, Energy(power, iv.Start, iv.End), iv.EnergyKWh)
					assert.Zero(t, iv.Start.Second())
				}
			}
		})
	}
}

func TestEnergy(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		power float64
		dur   time.Duration
		want  float64
	}{
		{name: "one hour kilowatt", power: 1000, dur: time.Hour, want: 1},
		{name: "half hour", power: 60, dur: 30 * time.Minute, want: 0.03},
		{name: "rounded to 4 places", power: 3, dur: 17 * time.Second, want: 0},
		{name: "rounding up", power: 2000, dur: 10 * time.Second, want: 0.0056},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Energy(tc.power, start, start.Add(tc.dur)))
		})
	}
}

func TestAlwaysOnSegmentsStayInSlices(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	rng := NewSource(99)

	seen := 0
	for i := 0; i < 500; i++ {
		out := Generate(AlwaysOn, day, 10, rng)
		require.GreaterOrEqual(t, len(out), 2)
		require.LessOrEqual(t, len(out), 4)
		if len(out) != 3 {
			continue
		}
		seen++

		prev := -1
		for seg, iv := range out {
			h := iv.Start.Hour()
			sliceStart := seg * 8
			assert.GreaterOrEqual(t, h, sliceStart, "segment %d", seg)
			assert.LessOrEqual(t, h, sliceStart+2, "segment %d", seg)
			assert.GreaterOrEqual(t, h, prev)
			prev = h
		}
		assert.Less(t, out[0].Start.Hour(), 3)
		assert.GreaterOrEqual(t, out[2].Start.Hour(), 16)
	}
	assert.Positive(t, seen, "expected some three-segment days")
}

func TestAlwaysOnClipsAtEndOfDay(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	rng := &scriptedSource{
		// segments=4, then (offset, minute) per segment
		ints:   []int{2, 0, 0, 0, 0, 0, 0, 2, 30},
		floats: []float64{0, 0, 0, 0.9},
	}

	out := Generate(AlwaysOn, day, 10, rng)
	require.Len(t, out, 4)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), out[0].Start)
	assert.Equal(t, 3*time.Hour, out[0].Duration())
	assert.Equal(t, 6, out[1].Start.Hour())
	assert.Equal(t, 12, out[2].Start.Hour())
	assert.Equal(t, time.Date(2024, 3, 10, 20, 30, 0, 0, time.UTC), out[3].Start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), out[3].End)
}

func TestEveningNightClipsToMidnight(t *testing.T) {
	day := time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)
	rng := &scriptedSource{
		// count=1, hour=22, minute=0
		ints:   []int{0, 4, 0},
		floats: []float64{0.5}, // 3 hours
	}

	out := Generate(EveningNight, day, 40, rng)
	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2024, 8, 2, 22, 0, 0, 0, time.UTC), out[0].Start)
	assert.Equal(t, time.Date(2024, 8, 2, 23, 59, 59, 0, time.UTC), out[0].End)
	assert.Equal(t, Energy(40, out[0].Start, out[0].End), out[0].EnergyKWh)
}

func TestMorningEveningBranches(t *testing.T) {
	day := time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)

	t.Run("both", func(t *testing.T) {
		rng := &scriptedSource{
			ints:   []int{1, 15, 0, 2, 45, 2},
			floats: []float64{0.1, 0.1},
		}
		out := Generate(MorningEvening, day, 20, rng)
		require.Len(t, out, 2)
		assert.Equal(t, 7, out[0].Start.Hour())
		assert.Equal(t, time.Minute, out[0].Duration())
		assert.Equal(t, 20, out[1].Start.Hour())
		assert.Equal(t, 3*time.Minute, out[1].Duration())
	})

	t.Run("neither", func(t *testing.T) {
		rng := &scriptedSource{floats: []float64{0.85, 0.95}}
		assert.Empty(t, Generate(MorningEvening, day, 20, rng))
	})

	t.Run("evening only", func(t *testing.T) {
		rng := &scriptedSource{
			ints:   []int{0, 0, 1},
			floats: []float64{0.8, 0.89},
		}
		out := Generate(MorningEvening, day, 20, rng)
		require.Len(t, out, 1)
		assert.Equal(t, 18, out[0].Start.Hour())
	})
}

func TestMorningEveningWholeMinutes(t *testing.T) {
	rng := NewSource(42)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	allowed := []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute}

	for i := range 200 {
		for _, iv := range Generate(MorningEvening, day.AddDate(0, 0, i), 20, rng) {
			assert.Contains(t, allowed, iv.Duration())
		}
	}
}

func TestSeasonalSplitsTotalHours(t *testing.T) {
	day := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	rng := &scriptedSource{
		// segments=2, then (hour, minute) per segment
		ints:   []int{1, 0, 0, 2, 30},
		floats: []float64{0.5, 0.1}, // total = 9h, triggered
	}

	out := Generate(Seasonal, day, 1500, rng)
	require.Len(t, out, 2)
	assert.Equal(t, 8, out[0].Start.Hour())
	assert.Equal(t, 4*time.Hour+30*time.Minute, out[0].Duration())
	assert.Equal(t, 10, out[1].Start.Hour())
	assert.Equal(t, 4*time.Hour+30*time.Minute, out[1].Duration())
	assert.Equal(t, 6.75, out[0].EnergyKWh)
}

func TestSeasonalTriggerOrdering(t *testing.T) {
	rng := NewSource(2024)
	const trials = 3000

	rate := func(month time.Month) float64 {
		day := time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC)
		hits := 0
		for i := 0; i < trials; i++ {
			if len(Generate(Seasonal, day, 1000, rng)) > 0 {
				hits++
			}
		}
		return float64(hits) / trials
	}

	summer := rate(time.July)
	winter := rate(time.January)
	shoulder := rate(time.April)

	assert.Greater(t, summer, winter)
	assert.Greater(t, winter, shoulder)
	assert.InDelta(t, 0.8, summer, 0.05)
	assert.InDelta(t, 0.5, winter, 0.05)
	assert.InDelta(t, 0.2, shoulder, 0.05)
}

func TestDayNightCount(t *testing.T) {
	rng := NewSource(5)
	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		out := Generate(DayNight, day, 50, rng)
		assert.GreaterOrEqual(t, len(out), 2)
		assert.LessOrEqual(t, len(out), 4)
		for _, iv := range out {
			assert.GreaterOrEqual(t, iv.Start.Hour(), 7)
			assert.LessOrEqual(t, iv.Start.Hour(), 22)
		}
	}
}

func TestOccasionalZeroDayFraction(t *testing.T) {
	rng := NewSource(42)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	empty := 0
	const days = 1000
	for d := 0; d < days; d++ {
		out := Generate(Occasional, start.AddDate(0, 0, d), 3, rng)
		if len(out) == 0 {
			empty++
		}
		for _, iv := range out {
			assert.GreaterOrEqual(t, iv.Duration(), 5*time.Second)
			assert.LessOrEqual(t, iv.Duration(), 30*time.Second)
		}
	}
	assert.InDelta(t, 0.7, float64(empty)/days, 0.05)
}

func TestOccasionalClipsLateStart(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := &scriptedSource{
		// count=1, hour=23, minute=59
		ints:   []int{0, 17, 59},
		floats: []float64{0.1, 1 - 1e-9},
	}

	out := Generate(Occasional, day, 3, rng)
	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), out[0].End)
}

func TestGenerateDeterministic(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, p := range Patterns() {
		first := Generate(p, day, 3.0, NewSource(42))
		second := Generate(p, day, 3.0, NewSource(42))
		assert.Equal(t, first, second, p.String())
	}

	var a, b []Interval
	rngA, rngB := NewSource(42), NewSource(42)
	for d := 0; d < 30; d++ {
		a = append(a, Generate(Occasional, day.AddDate(0, 0, d), 3.0, rngA)...)
		b = append(b, Generate(Occasional, day.AddDate(0, 0, d), 3.0, rngB)...)
	}
	assert.Equal(t, a, b)
}

func TestGenerateIgnoresTimeOfDay(t *testing.T) {
	midnight := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2024, 6, 1, 15, 42, 7, 0, time.UTC)

	assert.Equal(t,
		Generate(DayNight, midnight, 50, NewSource(1)),
		Generate(DayNight, afternoon, 50, NewSource(1)),
	)
}

func TestGenerateUnknownPatternPanics(t *testing.T) {
	assert.Panics(t, func() {
		Generate(Pattern(0), time.Now(), 10, NewSource(1))
	})
}
