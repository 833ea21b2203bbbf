// Package generator populates the store with synthetic users, devices and
// their usage history.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jgoulah/smarthome/internal/config"
	"github.com/jgoulah/smarthome/internal/synth"
	"github.com/jgoulah/smarthome/pkg/models"
)

// Report summarizes a generation run. Counts only include persisted rows.
type Report struct {
	RunID          string
	Seed           int64
	Start          time.Time // first day of the window
	End            time.Time // exclusive
	Users          int
	Devices        int
	UsageRecords   int
	SecurityEvents int
	Feedback       int
	Elapsed        time.Duration
}

// Driver runs one generation pass against a Store
type Driver struct {
	cfg    *config.Config
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a driver. A nil logger discards log output.
func New(cfg *config.Config, store Store, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{cfg: cfg, store: store, logger: logger, now: time.Now}
}

type device struct {
	models.Device
	category config.Category
}

// state carries everything one run accumulates
type state struct {
	rng     synth.Source
	start   time.Time
	days    int
	users   []models.User
	devices []device
	report  *Report
}

// Run validates the configuration and generates every entity in order: users,
// devices, usage, security events, feedback. A failure part way through keeps
// what was already committed; the returned report holds those counts and the
// run row is marked failed.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}

	now := d.now()
	end, err := d.cfg.GetEndDate(now)
	if err != nil {
		return nil, err
	}
	days := d.cfg.GetDays()
	seed := d.cfg.GetSeed(now)

	st := &state{
		rng:   synth.NewSource(seed),
		start: end.AddDate(0, 0, -days),
		days:  days,
		report: &Report{
			RunID: uuid.NewString(),
			Seed:  seed,
			End:   end,
		},
	}
	st.report.Start = st.start

	run := &models.GenerationRun{
		ID:        st.report.RunID,
		StartedAt: now,
		Seed:      seed,
		Status:    models.RunStatusRunning,
	}
	if err := d.store.CreateRun(run); err != nil {
		return nil, fmt.Errorf("recording generation run: %w", err)
	}

	d.logger.Info("generation started",
		"run_id", run.ID, "seed", seed,
		"start", st.start.Format("2006-01-02"), "days", days)

	steps := []struct {
		name string
		fn   func(context.Context, *state) error
	}{
		{"users", d.createUsers},
		{"devices", d.createDevices},
		{"usage", d.createUsage},
		{"security events", d.createEvents},
		{"feedback", d.createFeedback},
	}

	var runErr error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("generating %s: %w", step.name, err)
			break
		}
		if err := step.fn(ctx, st); err != nil {
			runErr = fmt.Errorf("generating %s: %w", step.name, err)
			break
		}
	}

	st.report.Elapsed = d.now().Sub(now)
	d.finish(run, st.report, runErr)

	if runErr != nil {
		d.logger.Error("generation failed", "run_id", run.ID, "error", runErr)
		return st.report, runErr
	}
	d.logger.Info("generation completed",
		"run_id", run.ID,
		"users", st.report.Users,
		"devices", st.report.Devices,
		"usage_records", st.report.UsageRecords,
		"elapsed", st.report.Elapsed)
	return st.report, nil
}

// finish stores the final status of the run. A failure here is only logged so
// the generation error, if any, reaches the caller.
func (d *Driver) finish(run *models.GenerationRun, r *Report, runErr error) {
	finished := d.now()
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.Error = runErr.Error()
	}
	run.Users = r.Users
	run.Devices = r.Devices
	run.UsageRecords = r.UsageRecords
	run.SecurityEvents = r.SecurityEvents
	run.Feedback = r.Feedback

	if err := d.store.FinishRun(run); err != nil {
		d.logger.Warn("failed to record run result", "run_id", run.ID, "error", err)
	}
}

func (d *Driver) createUsers(_ context.Context, st *state) error {
	names := d.cfg.GetNames()
	for i := range d.cfg.GetUsers() {
		phone := fmt.Sprintf("1%d%d", randint(st.rng, 30, 89), randint(st.rng, 10000000, 99999999))
		area := math.Round(uniform(st.rng, 60, 200)*10) / 10

		u := models.User{
			Name:      names[i%len(names)],
			Email:     fmt.Sprintf("user%d@smarthome.com", i+1),
			Phone:     &phone,
			HouseArea: &area,
		}
		if err := d.store.CreateUser(&u); err != nil {
			return fmt.Errorf("creating user %s: %w", u.Email, err)
		}
		st.users = append(st.users, u)
		st.report.Users++
	}

	d.logger.Info("users created", "count", st.report.Users)
	return nil
}

func (d *Driver) createDevices(_ context.Context, st *state) error {
	categories := d.cfg.GetCategories()
	lo, hi := d.cfg.GetDevicesPerUser()

	for _, u := range st.users {
		count := randint(st.rng, lo, hi)

		picked := sample(st.rng, categories, min(count, len(categories)))
		for len(picked) < count {
			picked = append(picked, categories[st.rng.IntN(len(categories))])
		}

		var names []string
		for _, cat := range picked {
			name := choice(st.rng, cat.Names)
			location := choice(st.rng, cat.Locations)
			for attempt := 0; slices.Contains(names, name) && attempt < 10; attempt++ {
				name = fmt.Sprintf("%s-%d", choice(st.rng, cat.Names), randint(st.rng, 1, 99))
			}
			names = append(names, name)

			dev := device{
				Device: models.Device{
					Name:     name,
					Type:     cat.Type,
					Location: &location,
					UserID:   u.ID,
				},
				category: cat,
			}
			if err := d.store.CreateDevice(&dev.Device); err != nil {
				return fmt.Errorf("creating device %q for user %d: %w", name, u.ID, err)
			}
			st.devices = append(st.devices, dev)
			st.report.Devices++
		}
	}

	d.logger.Info("devices created", "count", st.report.Devices)
	return nil
}

func (d *Driver) createUsage(ctx context.Context, st *state) error {
	batchSize := d.cfg.GetBatchSize()

	batch, err := d.store.BeginUsageBatch(ctx)
	if err != nil {
		return fmt.Errorf("starting usage batch: %w", err)
	}
	fail := func(err error) error {
		if rbErr := batch.Rollback(); rbErr != nil {
			d.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	for _, dev := range st.devices {
		power := uniform(st.rng, dev.category.PowerMin, dev.category.PowerMax)

		for day := range st.days {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}

			date := st.start.AddDate(0, 0, day)
			for _, iv := range synth.Generate(dev.category.Pattern, date, power, st.rng) {
				energy := iv.EnergyKWh
				rec := &models.DeviceUsage{
					DeviceID:          dev.ID,
					UserID:            dev.UserID,
					StartTime:         iv.Start,
					EndTime:           iv.End,
					EnergyConsumption: &energy,
				}
				if err := batch.Add(rec); err != nil {
					return fail(fmt.Errorf("adding usage for device %d: %w", dev.ID, err))
				}

				if batch.Len() >= batchSize {
					n := batch.Len()
					if err := batch.Commit(); err != nil {
						return fail(fmt.Errorf("committing usage batch: %w", err))
					}
					st.report.UsageRecords += n
					d.logger.Debug("usage batch committed", "total", st.report.UsageRecords)

					batch, err = d.store.BeginUsageBatch(ctx)
					if err != nil {
						return fmt.Errorf("starting usage batch: %w", err)
					}
				}
			}
		}
	}

	n := batch.Len()
	if err := batch.Commit(); err != nil {
		return fail(fmt.Errorf("committing usage batch: %w", err))
	}
	st.report.UsageRecords += n

	d.logger.Info("usage records created", "count", st.report.UsageRecords)
	return nil
}

func (d *Driver) createEvents(_ context.Context, st *state) error {
	catalogue := d.cfg.GetSecurityEvents()

	for _, dev := range st.devices {
		var applicable []config.SecurityEventType
		for _, ev := range catalogue {
			if slices.Contains(ev.Devices, dev.Type) {
				applicable = append(applicable, ev)
			}
		}
		if len(applicable) == 0 {
			continue
		}

		count := randint(st.rng, 0, 8)
		for range count {
			info := choice(st.rng, applicable)
			ts := st.start.AddDate(0, 0, randint(st.rng, 0, st.days-1)).
				Add(time.Duration(randint(st.rng, 0, 23)) * time.Hour).
				Add(time.Duration(randint(st.rng, 0, 59)) * time.Minute).
				Add(time.Duration(randint(st.rng, 0, 59)) * time.Second)

			ev := &models.SecurityEvent{
				DeviceID:  dev.ID,
				EventType: info.Type,
				Severity:  info.Severity,
				Timestamp: ts,
			}
			if err := d.store.CreateEvent(ev); err != nil {
				return fmt.Errorf("creating security event for device %d: %w", dev.ID, err)
			}
			st.report.SecurityEvents++
		}
	}

	d.logger.Info("security events created", "count", st.report.SecurityEvents)
	return nil
}

func (d *Driver) createFeedback(_ context.Context, st *state) error {
	catalogue := d.cfg.GetFeedbackTypes()

	for _, u := range st.users {
		var owned []device
		for _, dev := range st.devices {
			if dev.UserID == u.ID {
				owned = append(owned, dev)
			}
		}
		if len(owned) == 0 {
			continue
		}

		ratio := uniform(st.rng, 0.3, 0.8)
		count := max(1, int(float64(len(owned))*ratio))

		for _, dev := range sample(st.rng, owned, min(count, len(owned))) {
			for range randint(st.rng, 1, 3) {
				info := choice(st.rng, catalogue)
				rating := choice(st.rng, info.Ratings)
				content := choice(st.rng, info.Contents)
				created := st.start.AddDate(0, 0, randint(st.rng, 0, st.days-1)).
					Add(time.Duration(randint(st.rng, 0, 23)) * time.Hour).
					Add(time.Duration(randint(st.rng, 0, 59)) * time.Minute)

				fb := &models.Feedback{
					UserID:       u.ID,
					DeviceID:     dev.ID,
					FeedbackType: info.Type,
					Content:      &content,
					Rating:       &rating,
					CreatedAt:    created,
				}
				if err := d.store.CreateFeedback(fb); err != nil {
					return fmt.Errorf("creating feedback for device %d: %w", dev.ID, err)
				}
				st.report.Feedback++
			}
		}
	}

	d.logger.Info("feedback created", "count", st.report.Feedback)
	return nil
}

// randint returns an integer in [lo, hi]
func randint(rng synth.Source, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

func uniform(rng synth.Source, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func choice[T any](rng synth.Source, items []T) T {
	return items[rng.IntN(len(items))]
}

// sample returns k distinct elements of items in random order
func sample[T any](rng synth.Source, items []T, k int) []T {
	pool := slices.Clone(items)
	for i := range k {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
