package calendar

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nwirth/stride/internal/logger"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/storage"
	"github.com/nwirth/stride/internal/utils"
)

var (
	// ErrFutureDate rejects toggles for dates after today. Validation
	// failures like this never reach storage.
	ErrFutureDate = errors.New("cannot log compliance for a future date")
	// ErrToggleInFlight rejects repeated toggles for a date while a write
	// for that date is still outstanding. Requests are rejected, not queued.
	ErrToggleInFlight = errors.New("a change for this date is still being saved")
	// ErrInvalidRoutineType rejects toggles for types outside the closed set.
	ErrInvalidRoutineType = errors.New("unknown routine type")
)

// Tracker drives the compliance toggle cycle against a storage provider.
type Tracker struct {
	store storage.Provider

	mu       sync.Mutex
	inFlight map[string]bool // keyed by day

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewTracker returns a Tracker writing through the given provider.
func NewTracker(store storage.Provider) *Tracker {
	return &Tracker{
		store:    store,
		inFlight: make(map[string]bool),
		now:      time.Now,
	}
}

// Toggle advances the compliance mark for (day, rt) one step through the
// cycle unknown→done→skipped→done and upserts the single affected daily
// record. Sibling marks and the record's satisfaction/notes fields are
// preserved as read. On any rejection or write failure no state changes.
func (t *Tracker) Toggle(goalID, day string, rt models.RoutineType) (models.DailyProgress, error) {
	if !rt.Valid() {
		return models.DailyProgress{}, fmt.Errorf("%w: %q", ErrInvalidRoutineType, rt)
	}
	parsed, err := utils.ParseDay(day, time.Local)
	if err != nil {
		return models.DailyProgress{}, err
	}
	if utils.EndOfDay(parsed).After(utils.EndOfDay(t.now())) {
		return models.DailyProgress{}, ErrFutureDate
	}

	if !t.acquire(day) {
		return models.DailyProgress{}, ErrToggleInFlight
	}
	defer t.release(day)

	progress, err := t.store.GetProgress(goalID, day)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return models.DailyProgress{}, fmt.Errorf("loading progress for %s: %w", day, err)
		}
		// First toggle for this date creates the record lazily.
		progress = models.NewDailyProgress(goalID, day)
		progress.CreatedAt = t.now()
	}
	if progress.RoutineLog == nil {
		progress.RoutineLog = make(map[models.RoutineType]models.ComplianceMark)
	}

	prev := progress.RoutineLog[rt]
	progress.RoutineLog[rt] = prev.Next()
	progress.UpdatedAt = t.now()

	if err := t.store.SaveProgress(progress); err != nil {
		logger.Error("Failed to save compliance toggle", "day", day, "type", rt, "error", err)
		return models.DailyProgress{}, fmt.Errorf("saving progress for %s: %w", day, err)
	}

	logger.Debug("Compliance toggled", "day", day, "type", rt, "from", prev, "to", progress.RoutineLog[rt])
	return progress, nil
}

func (t *Tracker) acquire(day string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight[day] {
		return false
	}
	t.inFlight[day] = true
	return true
}

func (t *Tracker) release(day string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, day)
}
