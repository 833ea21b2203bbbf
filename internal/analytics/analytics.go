package analytics

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/jgoulah/smarthome/internal/database"
)

var (
	// ErrInsufficientData is returned when a report has no rows to work with
	ErrInsufficientData = errors.New("not enough usage records for analysis")
	// ErrUnknownReport is returned by Run for a name not in Reports
	ErrUnknownReport = errors.New("unknown report")
)

// Querier is the subset of the store the reports read from.
// A userID of 0 means all users.
type Querier interface {
	UsageFrequency(userID int) ([]database.DeviceCount, error)
	UsageHours(userID int) ([]database.DeviceHourCount, error)
	UsageTimeSlots(userID int) ([]database.SlotCount, error)
	AreaUsage(userID int) ([]database.AreaCount, error)
	SecurityUsage(userID int) ([]database.DeviceEventCount, error)
	RatingUsage(userID int) ([]database.RatingCount, error)
	EnergyByDevice(userID int) ([]database.DeviceEnergy, error)
}

// Service turns query rows into chart-ready report data
type Service struct {
	q Querier
}

// New creates a report service over q
func New(q Querier) *Service {
	return &Service{q: q}
}

// Report names, shared by the CLI and the HTTP routes
const (
	ReportFrequency    = "device-usage-frequency"
	ReportPatterns     = "usage-patterns"
	ReportHours        = "usage-hours"
	ReportArea         = "area-impact"
	ReportSecurity     = "security-device-correlation"
	ReportSatisfaction = "satisfaction-analysis"
	ReportEnergy       = "energy-consumption-distribution"
)

// Reports lists every report name in display order
func Reports() []string {
	return []string{
		ReportFrequency,
		ReportPatterns,
		ReportHours,
		ReportArea,
		ReportSecurity,
		ReportSatisfaction,
		ReportEnergy,
	}
}

// Run executes the named report
func (s *Service) Run(name string, userID int) (any, error) {
	switch name {
	case ReportFrequency:
		return s.UsageFrequency(userID)
	case ReportPatterns:
		return s.CoUsage(userID)
	case ReportHours:
		return s.HourlyDistribution(userID)
	case ReportArea:
		return s.AreaImpact(userID)
	case ReportSecurity:
		return s.SecurityCorrelation(userID)
	case ReportSatisfaction:
		return s.Satisfaction(userID)
	case ReportEnergy:
		return s.EnergyDistribution(userID)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// DeviceFrequency is one bar of the usage frequency chart
type DeviceFrequency struct {
	DeviceID   int    `json:"device_id"`
	DeviceName string `json:"device_name"`
	UsageCount int    `json:"usage_count"`
}

// UsageFrequency returns devices ordered by usage count, most used first
func (s *Service) UsageFrequency(userID int) ([]DeviceFrequency, error) {
	rows, err := s.q.UsageFrequency(userID)
	if err != nil {
		return nil, fmt.Errorf("loading usage frequency: %w", err)
	}

	out := make([]DeviceFrequency, 0, len(rows))
	for _, r := range rows {
		out = append(out, DeviceFrequency{DeviceID: r.DeviceID, DeviceName: r.DeviceName, UsageCount: r.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	return out, nil
}

// DeviceHours holds the per-hour start counts of one device
type DeviceHours struct {
	DeviceID   int     `json:"device_id"`
	DeviceName string  `json:"device_name"`
	Hours      [24]int `json:"hours"`
}

// HourlyDistribution returns, per device, how many usages started in each hour of the day
func (s *Service) HourlyDistribution(userID int) ([]DeviceHours, error) {
	rows, err := s.q.UsageHours(userID)
	if err != nil {
		return nil, fmt.Errorf("loading usage hours: %w", err)
	}

	index := map[int]int{}
	out := []DeviceHours{}
	for _, r := range rows {
		if r.Hour < 0 || r.Hour > 23 {
			continue
		}
		i, ok := index[r.DeviceID]
		if !ok {
			i = len(out)
			index[r.DeviceID] = i
			out = append(out, DeviceHours{DeviceID: r.DeviceID, DeviceName: r.DeviceName})
		}
		out[i].Hours[r.Hour] += r.Count
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out, nil
}

// Matrix is a square device-by-device matrix
type Matrix struct {
	Devices []string    `json:"devices"`
	Values  [][]float64 `json:"values"`
}

// CoUsage returns how often devices are used within the same clock hour.
// Row i holds device i's co-occurrence counts divided by the row total.
func (s *Service) CoUsage(userID int) (*Matrix, error) {
	rows, err := s.q.UsageTimeSlots(userID)
	if err != nil {
		return nil, fmt.Errorf("loading usage time slots: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}

	slots, devices, counts := pivotCounts(len(rows), func(yield func(row, col string, n int)) {
		for _, r := range rows {
			yield(r.Slot, r.DeviceName, r.Count)
		}
	})

	p := mat.NewDense(len(slots), len(devices), nil)
	for i, row := range counts {
		for j, n := range row {
			p.Set(i, j, float64(n))
		}
	}

	var co mat.Dense
	co.Mul(p.T(), p)

	m := &Matrix{Devices: devices, Values: make([][]float64, len(devices))}
	for i := range devices {
		row := mat.Row(nil, i, &co)
		if sum := floats.Sum(row); sum > 0 {
			floats.Scale(1/sum, row)
		}
		m.Values[i] = row
	}
	return m, nil
}

// AreaPoint is one scatter point of house area against usage count
type AreaPoint struct {
	HouseArea  float64 `json:"house_area"`
	DeviceName string  `json:"device_name"`
	UsageCount int     `json:"usage_count"`
}

// AreaImpact returns usage counts per house area and device name
func (s *Service) AreaImpact(userID int) ([]AreaPoint, error) {
	rows, err := s.q.AreaUsage(userID)
	if err != nil {
		return nil, fmt.Errorf("loading area usage: %w", err)
	}

	out := make([]AreaPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, AreaPoint{HouseArea: r.HouseArea, DeviceName: r.DeviceName, UsageCount: r.Count})
	}
	return out, nil
}

// Pivot is a labelled count table
type Pivot struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
	Values  [][]int  `json:"values"`
}

// SecurityCorrelation pivots usage counts by device name and security event type.
// Missing combinations are zero.
func (s *Service) SecurityCorrelation(userID int) (*Pivot, error) {
	rows, err := s.q.SecurityUsage(userID)
	if err != nil {
		return nil, fmt.Errorf("loading security usage: %w", err)
	}

	devices, events, values := pivotCounts(len(rows), func(yield func(row, col string, n int)) {
		for _, r := range rows {
			yield(r.DeviceName, r.EventType, r.Count)
		}
	})
	return &Pivot{Rows: devices, Columns: events, Values: values}, nil
}

// SatisfactionPoint is one scatter point of rating against usage count
type SatisfactionPoint struct {
	DeviceID   int    `json:"device_id"`
	DeviceName string `json:"device_name"`
	Rating     int    `json:"rating"`
	UsageCount int    `json:"usage_count"`
}

// Satisfaction returns the usage count of each rated device per rating
func (s *Service) Satisfaction(userID int) ([]SatisfactionPoint, error) {
	rows, err := s.q.RatingUsage(userID)
	if err != nil {
		return nil, fmt.Errorf("loading rating usage: %w", err)
	}

	out := make([]SatisfactionPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, SatisfactionPoint{DeviceID: r.DeviceID, DeviceName: r.DeviceName, Rating: r.Rating, UsageCount: r.Count})
	}
	return out, nil
}

// EnergyShare is one slice of the energy distribution
type EnergyShare struct {
	DeviceName string  `json:"device_name"`
	TotalKWh   float64 `json:"total_kwh"`
	Percent    float64 `json:"percent"`
}

// EnergyDistribution returns total energy per device name and its share of the whole
func (s *Service) EnergyDistribution(userID int) ([]EnergyShare, error) {
	rows, err := s.q.EnergyByDevice(userID)
	if err != nil {
		return nil, fmt.Errorf("loading energy totals: %w", err)
	}

	var total float64
	for _, r := range rows {
		total += r.TotalKWh
	}

	out := make([]EnergyShare, 0, len(rows))
	for _, r := range rows {
		share := EnergyShare{DeviceName: r.DeviceName, TotalKWh: r.TotalKWh}
		if total > 0 {
			share.Percent = r.TotalKWh / total * 100
		}
		out = append(out, share)
	}
	return out, nil
}

// pivotCounts builds a zero-filled row x column table with sorted labels
func pivotCounts(hint int, each func(yield func(row, col string, n int))) ([]string, []string, [][]int) {
	type cell struct{ row, col string }
	counts := make(map[cell]int, hint)
	rowSet := map[string]bool{}
	colSet := map[string]bool{}

	each(func(row, col string, n int) {
		counts[cell{row, col}] += n
		rowSet[row] = true
		colSet[col] = true
	})

	rowLabels := sortedKeys(rowSet)
	colLabels := sortedKeys(colSet)

	values := make([][]int, len(rowLabels))
	for i, r := range rowLabels {
		values[i] = make([]int, len(colLabels))
		for j, c := range colLabels {
			values[i][j] = counts[cell{r, c}]
		}
	}
	return rowLabels, colLabels, values
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
