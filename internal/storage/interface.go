package storage

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/nwirth/stride/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	// GetActiveGoal returns the single active goal, ErrNotFound if none.
	GetActiveGoal() (models.Goal, error)
	GetAllGoals(includeDeleted bool) ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(id string) error
	RestoreGoal(id string) error

	// Routine catalog
	GetCatalog(goalID string) (models.RoutineCatalog, error)
	AddInstance(goalID string, inst models.ScheduledInstance) error
	UpdateInstance(goalID string, inst models.ScheduledInstance) error
	DeleteInstance(goalID, id string) error
	// MarkInstance records a same-day resolution (done or skipped) on a
	// scheduled instance.
	MarkInstance(goalID, id string, mark models.ComplianceMark, at time.Time) error

	// Daily progress
	GetProgress(goalID, day string) (models.DailyProgress, error)
	GetProgressRange(goalID, startDay, endDay string) ([]models.DailyProgress, error)
	// SaveProgress upserts the single record for (goal, day) in one write.
	SaveProgress(models.DailyProgress) error

	// Utils
	GetConfigPath() string
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password inline. Credentials belong in the OS keyring or the
// environment, never in the connection string.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User != nil {
			_, hasPassword := u.User.Password()
			return hasPassword
		}
		return false
	}

	// DSN format: space-separated key=value pairs.
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}
