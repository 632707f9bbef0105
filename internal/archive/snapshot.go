package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/gradebook/internal/grade"
	"github.com/roach88/gradebook/internal/gradebook"
)

// ErrSnapshotNotFound is returned for unknown snapshot IDs and by Latest on
// an empty archive.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one archived grade-book.
type Snapshot struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Students  int       `json:"students"`
	Grades    int       `json:"grades"`
}

// Save archives the full content of s in a single transaction.
func (a *Archive) Save(ctx context.Context, s *gradebook.Store, label string) (Snapshot, error) {
	records := s.Records()
	snap := Snapshot{
		ID:        a.newID(),
		Label:     label,
		CreatedAt: a.now().UTC(),
		Students:  len(records),
	}
	for _, rec := range records {
		snap.Grades += rec.GradeCount()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, label, created_at, students, grades)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.Label, snap.CreatedAt.Format(time.RFC3339Nano), snap.Students, snap.Grades)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	if snap.Seq, err = res.LastInsertId(); err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: seq: %w", err)
	}

	for pos, rec := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_students (snapshot_id, position, name)
			VALUES (?, ?, ?)
		`, snap.ID, pos, rec.Name); err != nil {
			return Snapshot{}, fmt.Errorf("save snapshot: student %q: %w", rec.Name, err)
		}

		for coursePos, l := range rec.Courses {
			for gradePos, g := range l.Grades {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO snapshot_grades
					(snapshot_id, student, course_position, course, position, value)
					VALUES (?, ?, ?, ?, ?, ?)
				`, snap.ID, rec.Name, coursePos, l.Course, gradePos, g.Int()); err != nil {
					return Snapshot{}, fmt.Errorf("save snapshot: grade %s/%s: %w", rec.Name, l.Course, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: commit: %w", err)
	}
	return snap, nil
}

const snapshotColumns = `seq, id, label, created_at, students, grades`

func scanSnapshot(row interface{ Scan(...any) error }) (Snapshot, error) {
	var (
		snap    Snapshot
		created string
	)
	if err := row.Scan(&snap.Seq, &snap.ID, &snap.Label, &created, &snap.Students, &snap.Grades); err != nil {
		return Snapshot{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	snap.CreatedAt = t
	return snap, nil
}

// List returns every snapshot, oldest first.
func (a *Archive) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// Get returns the snapshot with the given ID.
func (a *Archive) Get(ctx context.Context, id string) (Snapshot, error) {
	row := a.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// Latest returns the most recently saved snapshot.
func (a *Archive) Latest(ctx context.Context) (Snapshot, error) {
	row := a.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots ORDER BY seq DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

type archivedGrade struct {
	student string
	course  string
	value   int
}

// Restore replays a snapshot into s through AddStudent and AddGrade, so
// subscribers of s are notified. Students already present in s are kept and
// receive the archived grades on top of their own.
func (a *Archive) Restore(ctx context.Context, id string, s *gradebook.Store) error {
	if _, err := a.Get(ctx, id); err != nil {
		return err
	}

	names, err := a.queryStrings(ctx, `
		SELECT name FROM snapshot_students
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return fmt.Errorf("restore students: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT g.student, g.course, g.value
		FROM snapshot_grades g
		JOIN snapshot_students st ON st.snapshot_id = g.snapshot_id AND st.name = g.student
		WHERE g.snapshot_id = ?
		ORDER BY st.position ASC, g.course_position ASC, g.position ASC
	`, id)
	if err != nil {
		return fmt.Errorf("restore grades: %w", err)
	}
	var grades []archivedGrade
	for rows.Next() {
		var ag archivedGrade
		if err := rows.Scan(&ag.student, &ag.course, &ag.value); err != nil {
			rows.Close()
			return fmt.Errorf("restore grades: %w", err)
		}
		grades = append(grades, ag)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("restore grades: %w", err)
	}
	rows.Close()

	for _, name := range names {
		if _, err := s.AddStudent(name); err != nil && !gradebook.IsAlreadyExists(err) {
			return fmt.Errorf("restore student %q: %w", name, err)
		}
	}
	for _, ag := range grades {
		g, err := grade.FromInt(ag.value)
		if err != nil {
			return fmt.Errorf("restore grade %s/%s: %w", ag.student, ag.course, err)
		}
		if _, err := s.AddGrade(ag.student, ag.course, g); err != nil {
			return fmt.Errorf("restore grade %s/%s: %w", ag.student, ag.course, err)
		}
	}
	return nil
}

// FindStudentsWithGrade lists, in archived store order, the students of a
// snapshot holding g in any course.
func (a *Archive) FindStudentsWithGrade(ctx context.Context, id string, g grade.Value) ([]string, error) {
	if _, err := a.Get(ctx, id); err != nil {
		return nil, err
	}
	names, err := a.queryStrings(ctx, `
		SELECT st.name FROM snapshot_students st
		WHERE st.snapshot_id = ?
		AND EXISTS (
			SELECT 1 FROM snapshot_grades g
			WHERE g.snapshot_id = st.snapshot_id AND g.student = st.name AND g.value = ?
		)
		ORDER BY st.position ASC
	`, id, g.Int())
	if err != nil {
		return nil, fmt.Errorf("find students with grade: %w", err)
	}
	return names, nil
}

// Delete removes a snapshot and all of its rows.
func (a *Archive) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}

func (a *Archive) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
