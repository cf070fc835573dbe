package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/nwirth/stride/internal/constants"
	"github.com/nwirth/stride/internal/logger"
	"github.com/nwirth/stride/internal/models"
)

type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	s := &PostgresStore{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

func (s *PostgresStore) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}

	// DSN format: space-separated key=value pairs.
	for _, part := range strings.Fields(s.connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "search_path") {
			return
		}
	}
	s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
}

const postgresSchema = `
CREATE SCHEMA IF NOT EXISTS stride;

CREATE TABLE IF NOT EXISTS stride.goals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	start_date TEXT NOT NULL DEFAULT '',
	end_date TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	deleted_at TEXT
);

CREATE TABLE IF NOT EXISTS stride.routines (
	id TEXT PRIMARY KEY,
	goal_id TEXT NOT NULL,
	type TEXT NOT NULL,
	time TEXT NOT NULL,
	duration_min INTEGER NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	icon TEXT NOT NULL DEFAULT '',
	nap INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0,
	completed TEXT NOT NULL DEFAULT '',
	completed_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_routines_goal ON stride.routines(goal_id);

CREATE TABLE IF NOT EXISTS stride.daily_progress (
	goal_id TEXT NOT NULL,
	day TEXT NOT NULL,
	sleep TEXT NOT NULL DEFAULT '',
	bath TEXT NOT NULL DEFAULT '',
	exercise TEXT NOT NULL DEFAULT '',
	meal TEXT NOT NULL DEFAULT '',
	teeth TEXT NOT NULL DEFAULT '',
	water TEXT NOT NULL DEFAULT '',
	satisfaction INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (goal_id, day)
);
`

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

// Goals

func (s *PostgresStore) AddGoal(goal models.Goal) error {
	_, err := s.db.Exec(`
		INSERT INTO goals (id, name, start_date, end_date, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		goal.ID, goal.Name, goal.StartDate, goal.EndDate, boolToInt(goal.Active),
		goal.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *PostgresStore) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, name, start_date, end_date, active, created_at, deleted_at
		FROM goals WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanGoal(row)
}

func (s *PostgresStore) GetActiveGoal() (models.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, name, start_date, end_date, active, created_at, deleted_at
		FROM goals WHERE active = 1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 1`)
	return scanGoal(row)
}

func (s *PostgresStore) GetAllGoals(includeDeleted bool) ([]models.Goal, error) {
	query := `SELECT id, name, start_date, end_date, active, created_at, deleted_at FROM goals`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *PostgresStore) UpdateGoal(goal models.Goal) error {
	res, err := s.db.Exec(`
		UPDATE goals SET name = $1, start_date = $2, end_date = $3, active = $4
		WHERE id = $5 AND deleted_at IS NULL`,
		goal.Name, goal.StartDate, goal.EndDate, boolToInt(goal.Active), goal.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteGoal(id string) error {
	res, err := s.db.Exec(`
		UPDATE goals SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) RestoreGoal(id string) error {
	res, err := s.db.Exec(`
		UPDATE goals SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Routine catalog

func (s *PostgresStore) GetCatalog(goalID string) (models.RoutineCatalog, error) {
	rows, err := s.db.Query(`
		SELECT id, type, time, duration_min, label, icon, nap, position, completed, completed_at
		FROM routines WHERE goal_id = $1 ORDER BY position, time`, goalID)
	if err != nil {
		return models.RoutineCatalog{}, err
	}
	defer rows.Close()

	catalog := models.NewRoutineCatalog(goalID)
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return models.RoutineCatalog{}, err
		}
		if inst.Nap {
			catalog.Naps = append(catalog.Naps, inst)
		} else {
			catalog.Routines[inst.Type] = append(catalog.Routines[inst.Type], inst)
		}
	}
	return catalog, rows.Err()
}

func (s *PostgresStore) AddInstance(goalID string, inst models.ScheduledInstance) error {
	var completedAt interface{}
	if inst.CompletedAt != nil {
		completedAt = inst.CompletedAt.Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
		INSERT INTO routines (id, goal_id, type, time, duration_min, label, icon, nap, position, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			COALESCE((SELECT MAX(position) + 1 FROM routines WHERE goal_id = $2), 0),
			$9, $10)`,
		inst.ID, goalID, string(inst.Type), inst.Time, inst.DurationMin, inst.Label,
		inst.Icon, boolToInt(inst.Nap), string(inst.Completed), completedAt)
	return err
}

func (s *PostgresStore) UpdateInstance(goalID string, inst models.ScheduledInstance) error {
	res, err := s.db.Exec(`
		UPDATE routines SET type = $1, time = $2, duration_min = $3, label = $4, icon = $5, nap = $6
		WHERE id = $7 AND goal_id = $8`,
		string(inst.Type), inst.Time, inst.DurationMin, inst.Label, inst.Icon,
		boolToInt(inst.Nap), inst.ID, goalID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteInstance(goalID, id string) error {
	res, err := s.db.Exec(`DELETE FROM routines WHERE id = $1 AND goal_id = $2`, id, goalID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) MarkInstance(goalID, id string, mark models.ComplianceMark, at time.Time) error {
	res, err := s.db.Exec(`
		UPDATE routines SET completed = $1, completed_at = $2
		WHERE id = $3 AND goal_id = $4`,
		string(mark), at.Format(time.RFC3339), id, goalID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Daily progress

func (s *PostgresStore) GetProgress(goalID, day string) (models.DailyProgress, error) {
	row := s.db.QueryRow(`
		SELECT goal_id, day, sleep, bath, exercise, meal, teeth, water,
			satisfaction, notes, created_at, updated_at
		FROM daily_progress WHERE goal_id = $1 AND day = $2`, goalID, day)
	return scanProgress(row)
}

func (s *PostgresStore) GetProgressRange(goalID, startDay, endDay string) ([]models.DailyProgress, error) {
	rows, err := s.db.Query(`
		SELECT goal_id, day, sleep, bath, exercise, meal, teeth, water,
			satisfaction, notes, created_at, updated_at
		FROM daily_progress WHERE goal_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day`, goalID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailyProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (s *PostgresStore) SaveProgress(progress models.DailyProgress) error {
	createdAt := progress.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := progress.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO daily_progress (goal_id, day, sleep, bath, exercise, meal, teeth, water,
			satisfaction, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (goal_id, day) DO UPDATE SET
			sleep = excluded.sleep,
			bath = excluded.bath,
			exercise = excluded.exercise,
			meal = excluded.meal,
			teeth = excluded.teeth,
			water = excluded.water,
			satisfaction = excluded.satisfaction,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		progress.GoalID, progress.Day,
		string(progress.Mark(models.RoutineSleep)),
		string(progress.Mark(models.RoutineBath)),
		string(progress.Mark(models.RoutineExercise)),
		string(progress.Mark(models.RoutineMeal)),
		string(progress.Mark(models.RoutineTeeth)),
		string(progress.Mark(models.RoutineWater)),
		progress.Satisfaction, progress.Notes,
		createdAt.Format(time.RFC3339), updatedAt.Format(time.RFC3339))
	return err
}
