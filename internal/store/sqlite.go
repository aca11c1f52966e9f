package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rangeforge/marksim/internal/course"
	"github.com/rangeforge/marksim/internal/motion"
	"github.com/rangeforge/marksim/internal/sweep"
	"github.com/rangeforge/marksim/internal/world"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) a SQLite database at the given path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets readers proceed while a sweep run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *SQLiteDB) Ping() error {
	return s.db.Ping()
}

// Migrate creates the schema. All statements are idempotent, so calling it
// on every startup is safe.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			min_speed REAL NOT NULL,
			max_speed REAL NOT NULL,
			min_amplitude REAL NOT NULL,
			max_amplitude REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS targets (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			center_y REAL NOT NULL,
			center_z REAL NOT NULL,
			distance REAL NOT NULL,
			speed REAL NOT NULL,
			axis TEXT NOT NULL,
			amplitude REAL NOT NULL,
			FOREIGN KEY (course_id) REFERENCES courses(id)
		)`,
		`CREATE TABLE IF NOT EXISTS sweeps (
			id TEXT PRIMARY KEY,
			metric TEXT NOT NULL,
			seed_start INTEGER NOT NULL,
			seed_end INTEGER NOT NULL,
			target_op TEXT NOT NULL,
			target_val REAL NOT NULL,
			target_val2 REAL NOT NULL DEFAULT 0,
			tolerance REAL NOT NULL DEFAULT 0,
			hit_limit INTEGER NOT NULL DEFAULT 0,
			timed_out INTEGER NOT NULL DEFAULT 0,
			hit_count INTEGER NOT NULL DEFAULT 0,
			total_evaluated INTEGER NOT NULL DEFAULT 0,
			summary_min REAL NOT NULL DEFAULT 0,
			summary_max REAL NOT NULL DEFAULT 0,
			summary_mean REAL NOT NULL DEFAULT 0,
			engine_version TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sweep_hits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sweep_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			value REAL NOT NULL,
			speed REAL NOT NULL,
			axis TEXT NOT NULL,
			amplitude REAL NOT NULL,
			FOREIGN KEY (sweep_id) REFERENCES sweeps(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_targets_course ON targets(course_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_created ON courses(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_hits_sweep ON sweep_hits(sweep_id, seed)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveCourse persists a course and its targets in one transaction.
func (s *SQLiteDB) SaveCourse(c *course.Course) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	bounds := c.Bounds
	_, err = tx.Exec(
		`INSERT INTO courses (id, seed, min_speed, max_speed, min_amplitude, max_amplitude, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Seed, bounds.MinSpeed, bounds.MaxSpeed,
		bounds.MinAmplitude, bounds.MaxAmplitude, c.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO targets (id, course_id, position, center_y, center_z, distance, speed, axis, amplitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, target := range c.Targets {
		_, err := stmt.Exec(
			target.ID.String(), c.ID.String(), i,
			target.Center.Y, target.Center.Z, target.Distance,
			target.Config.Speed, target.Config.Axis.String(), target.Config.Amplitude,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetCourse loads a course with its targets in authored order.
func (s *SQLiteDB) GetCourse(id string) (*course.Course, error) {
	var c course.Course
	var idStr string
	err := s.db.QueryRow(
		`SELECT id, seed, min_speed, max_speed, min_amplitude, max_amplitude, created_at
		 FROM courses WHERE id = ?`, id,
	).Scan(&idStr, &c.Seed, &c.Bounds.MinSpeed, &c.Bounds.MaxSpeed,
		&c.Bounds.MinAmplitude, &c.Bounds.MaxAmplitude, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("corrupt course id %q: %w", idStr, err)
	}

	rows, err := s.db.Query(
		`SELECT id, center_y, center_z, distance, speed, axis, amplitude
		 FROM targets WHERE course_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		c.Targets = append(c.Targets, target)
	}
	return &c, rows.Err()
}

// GetTarget loads a single target by id.
func (s *SQLiteDB) GetTarget(id string) (*course.Target, error) {
	row := s.db.QueryRow(
		`SELECT id, center_y, center_z, distance, speed, axis, amplitude
		 FROM targets WHERE id = ?`, id)

	target, err := scanTarget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (course.Target, error) {
	var target course.Target
	var idStr, axisStr string
	var center world.Point

	err := row.Scan(&idStr, &center.Y, &center.Z, &target.Distance,
		&target.Config.Speed, &axisStr, &target.Config.Amplitude)
	if err != nil {
		return course.Target{}, err
	}

	if target.ID, err = uuid.Parse(idStr); err != nil {
		return course.Target{}, fmt.Errorf("corrupt target id %q: %w", idStr, err)
	}
	if target.Config.Axis, err = motion.ParseAxis(axisStr); err != nil {
		return course.Target{}, fmt.Errorf("corrupt target %s: %w", idStr, err)
	}
	target.Center = center
	return target, nil
}

// ListCourses returns a page of courses, newest first, without targets.
func (s *SQLiteDB) ListCourses(query CoursesQuery) (*CoursesList, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 25
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, err
	}

	offset := (query.Page - 1) * query.PerPage
	rows, err := s.db.Query(
		`SELECT id, seed, min_speed, max_speed, min_amplitude, max_amplitude, created_at
		 FROM courses ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		query.PerPage, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := &CoursesList{
		Courses:    []course.Course{},
		TotalCount: total,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: (total + query.PerPage - 1) / query.PerPage,
	}

	for rows.Next() {
		var c course.Course
		var idStr string
		err := rows.Scan(&idStr, &c.Seed, &c.Bounds.MinSpeed, &c.Bounds.MaxSpeed,
			&c.Bounds.MinAmplitude, &c.Bounds.MaxAmplitude, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		if c.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("corrupt course id %q: %w", idStr, err)
		}
		list.Courses = append(list.Courses, c)
	}
	return list, rows.Err()
}

// SaveSweep persists a sweep run and its hits in one transaction.
func (s *SQLiteDB) SaveSweep(run *SweepRun, hits []sweep.Hit) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	timedOutInt := 0
	if run.TimedOut {
		timedOutInt = 1
	}

	_, err = tx.Exec(
		`INSERT INTO sweeps (
			id, metric, seed_start, seed_end, target_op, target_val, target_val2,
			tolerance, hit_limit, timed_out, hit_count, total_evaluated,
			summary_min, summary_max, summary_mean, engine_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Metric, run.SeedStart, run.SeedEnd, run.TargetOp,
		run.TargetVal, run.TargetVal2, run.Tolerance, run.HitLimit, timedOutInt,
		run.HitCount, run.TotalEvaluated, run.SummaryMin, run.SummaryMax,
		run.SummaryMean, run.EngineVersion,
	)
	if err != nil {
		return err
	}

	if len(hits) > 0 {
		stmt, err := tx.Prepare(
			`INSERT INTO sweep_hits (sweep_id, seed, value, speed, axis, amplitude)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, hit := range hits {
			_, err := stmt.Exec(run.ID, hit.Seed, hit.Value,
				hit.Config.Speed, hit.Config.Axis.String(), hit.Config.Amplitude)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetSweep loads a sweep run and its hits ordered by seed.
func (s *SQLiteDB) GetSweep(id string) (*SweepRun, []sweep.Hit, error) {
	var run SweepRun
	var timedOutInt int
	err := s.db.QueryRow(
		`SELECT id, metric, seed_start, seed_end, target_op, target_val, target_val2,
			tolerance, hit_limit, timed_out, hit_count, total_evaluated,
			summary_min, summary_max, summary_mean, engine_version, created_at
		 FROM sweeps WHERE id = ?`, id,
	).Scan(&run.ID, &run.Metric, &run.SeedStart, &run.SeedEnd, &run.TargetOp,
		&run.TargetVal, &run.TargetVal2, &run.Tolerance, &run.HitLimit, &timedOutInt,
		&run.HitCount, &run.TotalEvaluated, &run.SummaryMin, &run.SummaryMax,
		&run.SummaryMean, &run.EngineVersion, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	run.TimedOut = timedOutInt == 1

	rows, err := s.db.Query(
		`SELECT seed, value, speed, axis, amplitude
		 FROM sweep_hits WHERE sweep_id = ? ORDER BY seed`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var hits []sweep.Hit
	for rows.Next() {
		var hit sweep.Hit
		var axisStr string
		err := rows.Scan(&hit.Seed, &hit.Value,
			&hit.Config.Speed, &axisStr, &hit.Config.Amplitude)
		if err != nil {
			return nil, nil, err
		}
		if hit.Config.Axis, err = motion.ParseAxis(axisStr); err != nil {
			return nil, nil, fmt.Errorf("corrupt hit for sweep %s: %w", id, err)
		}
		hits = append(hits, hit)
	}
	return &run, hits, rows.Err()
}
