package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nwirth/stride/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	start_date TEXT NOT NULL DEFAULT '',
	end_date TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	deleted_at TEXT
);

CREATE TABLE IF NOT EXISTS routines (
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

CREATE INDEX IF NOT EXISTS idx_routines_goal ON routines(goal_id);

CREATE TABLE IF NOT EXISTS daily_progress (
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

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'stride init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// Goals

func (s *SQLiteStore) AddGoal(goal models.Goal) error {
	_, err := s.db.Exec(`
		INSERT INTO goals (id, name, start_date, end_date, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, goal.StartDate, goal.EndDate, boolToInt(goal.Active),
		goal.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, name, start_date, end_date, active, created_at, deleted_at
		FROM goals WHERE id = ? AND deleted_at IS NULL`, id)
	return scanGoal(row)
}

func (s *SQLiteStore) GetActiveGoal() (models.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, name, start_date, end_date, active, created_at, deleted_at
		FROM goals WHERE active = 1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 1`)
	return scanGoal(row)
}

func (s *SQLiteStore) GetAllGoals(includeDeleted bool) ([]models.Goal, error) {
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

func (s *SQLiteStore) UpdateGoal(goal models.Goal) error {
	res, err := s.db.Exec(`
		UPDATE goals SET name = ?, start_date = ?, end_date = ?, active = ?
		WHERE id = ? AND deleted_at IS NULL`,
		goal.Name, goal.StartDate, goal.EndDate, boolToInt(goal.Active), goal.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteGoal(id string) error {
	res, err := s.db.Exec(`
		UPDATE goals SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) RestoreGoal(id string) error {
	res, err := s.db.Exec(`
		UPDATE goals SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Routine catalog

func (s *SQLiteStore) GetCatalog(goalID string) (models.RoutineCatalog, error) {
	rows, err := s.db.Query(`
		SELECT id, type, time, duration_min, label, icon, nap, position, completed, completed_at
		FROM routines WHERE goal_id = ? ORDER BY position, time`, goalID)
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

func (s *SQLiteStore) AddInstance(goalID string, inst models.ScheduledInstance) error {
	var completedAt interface{}
	if inst.CompletedAt != nil {
		completedAt = inst.CompletedAt.Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
		INSERT INTO routines (id, goal_id, type, time, duration_min, label, icon, nap, position, completed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(position) + 1 FROM routines WHERE goal_id = ?), 0),
			?, ?)`,
		inst.ID, goalID, string(inst.Type), inst.Time, inst.DurationMin, inst.Label,
		inst.Icon, boolToInt(inst.Nap), goalID, string(inst.Completed), completedAt)
	return err
}

func (s *SQLiteStore) UpdateInstance(goalID string, inst models.ScheduledInstance) error {
	res, err := s.db.Exec(`
		UPDATE routines SET type = ?, time = ?, duration_min = ?, label = ?, icon = ?, nap = ?
		WHERE id = ? AND goal_id = ?`,
		string(inst.Type), inst.Time, inst.DurationMin, inst.Label, inst.Icon,
		boolToInt(inst.Nap), inst.ID, goalID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteInstance(goalID, id string) error {
	res, err := s.db.Exec(`DELETE FROM routines WHERE id = ? AND goal_id = ?`, id, goalID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) MarkInstance(goalID, id string, mark models.ComplianceMark, at time.Time) error {
	res, err := s.db.Exec(`
		UPDATE routines SET completed = ?, completed_at = ?
		WHERE id = ? AND goal_id = ?`,
		string(mark), at.Format(time.RFC3339), id, goalID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Daily progress

func (s *SQLiteStore) GetProgress(goalID, day string) (models.DailyProgress, error) {
	row := s.db.QueryRow(`
		SELECT goal_id, day, sleep, bath, exercise, meal, teeth, water,
			satisfaction, notes, created_at, updated_at
		FROM daily_progress WHERE goal_id = ? AND day = ?`, goalID, day)
	return scanProgress(row)
}

func (s *SQLiteStore) GetProgressRange(goalID, startDay, endDay string) ([]models.DailyProgress, error) {
	rows, err := s.db.Query(`
		SELECT goal_id, day, sleep, bath, exercise, meal, teeth, water,
			satisfaction, notes, created_at, updated_at
		FROM daily_progress WHERE goal_id = ? AND day >= ? AND day <= ?
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

func (s *SQLiteStore) SaveProgress(progress models.DailyProgress) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

// Shared row scanning

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var g models.Goal
	var active int
	var createdAt string
	var deletedAt sql.NullString

	err := row.Scan(&g.ID, &g.Name, &g.StartDate, &g.EndDate, &active, &createdAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Goal{}, ErrNotFound
		}
		return models.Goal{}, err
	}

	g.Active = active != 0
	g.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Goal{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		g.DeletedAt = &t
	}
	return g, nil
}

func scanInstance(row rowScanner) (models.ScheduledInstance, error) {
	var inst models.ScheduledInstance
	var rtype, completed string
	var nap int
	var completedAt sql.NullString

	err := row.Scan(&inst.ID, &rtype, &inst.Time, &inst.DurationMin, &inst.Label,
		&inst.Icon, &nap, &inst.Position, &completed, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduledInstance{}, ErrNotFound
		}
		return models.ScheduledInstance{}, err
	}

	inst.Type = models.RoutineType(rtype)
	inst.Nap = nap != 0
	inst.Completed = models.ComplianceMark(completed)
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return models.ScheduledInstance{}, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		inst.CompletedAt = &t
	}
	return inst, nil
}

func scanProgress(row rowScanner) (models.DailyProgress, error) {
	var p models.DailyProgress
	var marks [6]string
	var createdAt, updatedAt string

	err := row.Scan(&p.GoalID, &p.Day, &marks[0], &marks[1], &marks[2], &marks[3],
		&marks[4], &marks[5], &p.Satisfaction, &p.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DailyProgress{}, ErrNotFound
		}
		return models.DailyProgress{}, err
	}

	p.RoutineLog = make(map[models.RoutineType]models.ComplianceMark)
	for i, rt := range models.RoutineTypes {
		if mark := models.ComplianceMark(marks[i]); mark != models.MarkUnknown {
			p.RoutineLog[rt] = mark
		}
	}

	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.DailyProgress{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.DailyProgress{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
