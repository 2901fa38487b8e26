package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-indel/internal/indel"
)

// Run describes one classification run recorded in the store.
type Run struct {
	ID        string
	CreatedAt time.Time
	Input     string
	Reference FileFingerprint
}

// StoredIndel is one classified indel row.
type StoredIndel struct {
	RunID      string
	Sample     string
	Chrom      string
	Pos        int64
	Ref        string
	Alt        string
	Category   string
	Subfeature int
}

// CategoryCount is the number of indels carrying a category.
type CategoryCount struct {
	Category string
	Count    int64
}

// BeginRun records a run. Recording an existing run id is a no-op so
// results can be appended to it across invocations.
func (s *Store) BeginRun(r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO runs
		(run_id, created_at, input, reference, reference_size, reference_modtime)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		r.ID, r.CreatedAt.UTC(), r.Input,
		r.Reference.Path, r.Reference.Size, r.Reference.ModTime.UTC())
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// Run returns a recorded run. The boolean is false when the id is unknown.
func (s *Store) Run(id string) (Run, bool, error) {
	r := Run{ID: id}
	err := s.db.QueryRow(`SELECT created_at, input, reference, reference_size, reference_modtime
		FROM runs WHERE run_id=?`, id).
		Scan(&r.CreatedAt, &r.Input, &r.Reference.Path, &r.Reference.Size, &r.Reference.ModTime)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("query run %s: %w", id, err)
	}
	return r, true, nil
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, created_at, input, reference, reference_size, reference_modtime
		FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Input,
			&r.Reference.Path, &r.Reference.Size, &r.Reference.ModTime); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// WriteResults batch-inserts classified variants using the Appender API.
// Each result set's name is stored as the sample.
func (s *Store) WriteResults(runID string, out indel.Output) error {
	if out.Len() == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "indel_contexts")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range out.Results {
		for _, c := range r.Variants {
			v := c.Variant
			if err := appender.AppendRow(
				runID, r.Name, v.Chrom, v.Pos, v.Ref, v.Alt,
				c.Category, int32(c.Subfeature),
			); err != nil {
				return fmt.Errorf("append classified indel: %w", err)
			}
		}
	}

	return appender.Flush()
}

// LookupVariant returns every stored classification of a variant.
func (s *Store) LookupVariant(chrom string, pos int64, ref, alt string) ([]StoredIndel, error) {
	rows, err := s.db.Query(`SELECT
		run_id, sample, chrom, pos, ref, alt, category, subfeature
		FROM indel_contexts
		WHERE chrom=? AND pos=? AND ref=? AND alt=?
		ORDER BY run_id, sample`,
		chrom, pos, ref, alt)
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	defer rows.Close()

	return scanStoredIndels(rows)
}

// SearchBySample returns the stored indels of one sample in a run.
func (s *Store) SearchBySample(runID, sample string) ([]StoredIndel, error) {
	rows, err := s.db.Query(`SELECT
		run_id, sample, chrom, pos, ref, alt, category, subfeature
		FROM indel_contexts
		WHERE run_id=? AND sample=?`, runID, sample)
	if err != nil {
		return nil, fmt.Errorf("query by sample: %w", err)
	}
	defer rows.Close()

	return scanStoredIndels(rows)
}

// CategoryCounts aggregates stored indels of a run by category, most
// frequent first. An empty sample counts across all samples.
func (s *Store) CategoryCounts(runID, sample string) ([]CategoryCount, error) {
	query := `SELECT category, count(*) AS n FROM indel_contexts WHERE run_id=?`
	args := []any{runID}
	if sample != "" {
		query += ` AND sample=?`
		args = append(args, sample)
	}
	query += ` GROUP BY category ORDER BY n DESC, category`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}

// ClearRun removes a run and its indels.
func (s *Store) ClearRun(runID string) error {
	if _, err := s.db.Exec("DELETE FROM indel_contexts WHERE run_id=?", runID); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM runs WHERE run_id=?", runID)
	return err
}

// Clear removes all stored runs and indels.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM indel_contexts"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}

// scanStoredIndels scans rows into StoredIndel slices.
func scanStoredIndels(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]StoredIndel, error) {
	var results []StoredIndel
	for rows.Next() {
		var r StoredIndel
		var sub int32
		if err := rows.Scan(&r.RunID, &r.Sample, &r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.Category, &sub); err != nil {
			return nil, fmt.Errorf("scan classified indel: %w", err)
		}
		r.Subfeature = int(sub)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classified indels: %w", err)
	}
	return results, nil
}
