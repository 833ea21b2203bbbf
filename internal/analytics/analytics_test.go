package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/smarthome/internal/database"
)

type fakeQuerier struct {
	err       error
	lastUser  int
	frequency []database.DeviceCount
	hours     []database.DeviceHourCount
	slots     []database.SlotCount
	areas     []database.AreaCount
	security  []database.DeviceEventCount
	ratings   []database.RatingCount
	energy    []database.DeviceEnergy
}

func (f *fakeQuerier) UsageFrequency(userID int) ([]database.DeviceCount, error) {
	f.lastUser = userID
	return f.frequency, f.err
}

func (f *fakeQuerier) UsageHours(userID int) ([]database.DeviceHourCount, error) {
	f.lastUser = userID
	return f.hours, f.err
}

func (f *fakeQuerier) UsageTimeSlots(userID int) ([]database.SlotCount, error) {
	f.lastUser = userID
	return f.slots, f.err
}

func (f *fakeQuerier) AreaUsage(userID int) ([]database.AreaCount, error) {
	f.lastUser = userID
	return f.areas, f.err
}

func (f *fakeQuerier) SecurityUsage(userID int) ([]database.DeviceEventCount, error) {
	f.lastUser = userID
	return f.security, f.err
}

func (f *fakeQuerier) RatingUsage(userID int) ([]database.RatingCount, error) {
	f.lastUser = userID
	return f.ratings, f.err
}

func (f *fakeQuerier) EnergyByDevice(userID int) ([]database.DeviceEnergy, error) {
	f.lastUser = userID
	return f.energy, f.err
}

func TestUsageFrequencySorted(t *testing.T) {
	q := &fakeQuerier{frequency: []database.DeviceCount{
		{DeviceID: 1, DeviceName: "Lamp", Count: 2},
		{DeviceID: 2, DeviceName: "Camera", Count: 9},
		{DeviceID: 3, DeviceName: "Plug", Count: 2},
	}}

	got, err := New(q).UsageFrequency(7)
	require.NoError(t, err)
	assert.Equal(t, 7, q.lastUser)
	assert.Equal(t, []DeviceFrequency{
		{DeviceID: 2, DeviceName: "Camera", UsageCount: 9},
		{DeviceID: 1, DeviceName: "Lamp", UsageCount: 2},
		{DeviceID: 3, DeviceName: "Plug", UsageCount: 2},
	}, got)
}

func TestHourlyDistribution(t *testing.T) {
	q := &fakeQuerier{hours: []database.DeviceHourCount{
		{DeviceID: 2, DeviceName: "Camera", Hour: 0, Count: 1},
		{DeviceID: 1, DeviceName: "Lamp", Hour: 19, Count: 3},
		{DeviceID: 1, DeviceName: "Lamp", Hour: 23, Count: 1},
	}}

	got, err := New(q).HourlyDistribution(0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Lamp", got[0].DeviceName)
	assert.Equal(t, 3, got[0].Hours[19])
	assert.Equal(t, 1, got[0].Hours[23])
	assert.Equal(t, 1, got[1].Hours[0])
}

func TestCoUsage(t *testing.T) {
	q := &fakeQuerier{slots: []database.SlotCount{
		{Slot: "2024-01-01 19:00:00", DeviceName: "Lamp", Count: 1},
		{Slot: "2024-01-01 19:00:00", DeviceName: "Camera", Count: 1},
		{Slot: "2024-01-01 20:00:00", DeviceName: "Lamp", Count: 2},
	}}

	m, err := New(q).CoUsage(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Camera", "Lamp"}, m.Devices)

	// Camera: [1, 1] / 2; Lamp: [1, 5] / 6
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, m.Values[0], 1e-9)
	assert.InDeltaSlice(t, []float64{1.0 / 6, 5.0 / 6}, m.Values[1], 1e-9)

	for _, row := range m.Values {
		var sum float64
		for _, v := range row {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestCoUsageThreeDevices(t *testing.T) {
	q := &fakeQuerier{slots: []database.SlotCount{
		{Slot: "2024-01-01 08:00:00", DeviceName: "A", Count: 1},
		{Slot: "2024-01-01 08:00:00", DeviceName: "B", Count: 1},
		{Slot: "2024-01-01 09:00:00", DeviceName: "B", Count: 2},
		{Slot: "2024-01-01 09:00:00", DeviceName: "C", Count: 1},
		{Slot: "2024-01-01 10:00:00", DeviceName: "A", Count: 1},
	}}

	m, err := New(q).CoUsage(0)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, m.Devices)

	// raw co-occurrence: A [2 1 0], B [1 5 2], C [0 2 1]
	want := [][]float64{
		{2.0 / 3, 1.0 / 3, 0},
		{1.0 / 8, 5.0 / 8, 2.0 / 8},
		{0, 2.0 / 3, 1.0 / 3},
	}
	for i := range want {
		assert.InDeltaSlice(t, want[i], m.Values[i], 1e-9, m.Devices[i])
	}
}

func TestCoUsageEmpty(t *testing.T) {
	_, err := New(&fakeQuerier{}).CoUsage(0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSecurityCorrelationZeroFill(t *testing.T) {
	q := &fakeQuerier{security: []database.DeviceEventCount{
		{DeviceName: "Lock", EventType: "tamper_alert", Count: 4},
		{DeviceName: "Camera", EventType: "motion_detected", Count: 7},
	}}

	p, err := New(q).SecurityCorrelation(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Camera", "Lock"}, p.Rows)
	assert.Equal(t, []string{"motion_detected", "tamper_alert"}, p.Columns)
	assert.Equal(t, [][]int{{7, 0}, {0, 4}}, p.Values)
}

func TestEnergyDistribution(t *testing.T) {
	q := &fakeQuerier{energy: []database.DeviceEnergy{
		{DeviceName: "Air Conditioner", TotalKWh: 30},
		{DeviceName: "Lamp", TotalKWh: 10},
	}}

	got, err := New(q).EnergyDistribution(0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 75.0, got[0].Percent, 1e-9)
	assert.InDelta(t, 25.0, got[1].Percent, 1e-9)

	zero := &fakeQuerier{energy: []database.DeviceEnergy{{DeviceName: "Lamp"}}}
	got, err = New(zero).EnergyDistribution(0)
	require.NoError(t, err)
	assert.Zero(t, got[0].Percent)
}

func TestPointReports(t *testing.T) {
	q := &fakeQuerier{
		areas:   []database.AreaCount{{HouseArea: 95.5, DeviceName: "Lamp", Count: 12}},
		ratings: []database.RatingCount{{DeviceID: 3, DeviceName: "Lamp", Rating: 4, Count: 12}},
	}
	s := New(q)

	areas, err := s.AreaImpact(0)
	require.NoError(t, err)
	assert.Equal(t, []AreaPoint{{HouseArea: 95.5, DeviceName: "Lamp", UsageCount: 12}}, areas)

	points, err := s.Satisfaction(0)
	require.NoError(t, err)
	assert.Equal(t, []SatisfactionPoint{{DeviceID: 3, DeviceName: "Lamp", Rating: 4, UsageCount: 12}}, points)
}

func TestRun(t *testing.T) {
	s := New(&fakeQuerier{})

	for _, name := range Reports() {
		t.Run(name, func(t *testing.T) {
			_, err := s.Run(name, 0)
			if name == ReportPatterns {
				assert.ErrorIs(t, err, ErrInsufficientData)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err := s.Run("pie-chart", 0)
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestQueryErrorsWrapped(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(&fakeQuerier{err: boom})

	for _, name := range Reports() {
		_, err := s.Run(name, 0)
		assert.ErrorIs(t, err, boom, name)
	}
}
