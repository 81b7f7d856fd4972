package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/practice"
)

type (
	practiceRow struct {
		ID        string         `db:"id"`
		SeriesID  sql.NullString `db:"series_id"`
		Name      string         `db:"name"`
		StartTime time.Time      `db:"start_time"`
		EndTime   time.Time      `db:"end_time"`
		Duration  int            `db:"duration"`
		CreatedAt time.Time      `db:"created_at"`
		UpdatedAt time.Time      `db:"updated_at"`
	}

	activityRow struct {
		ID         string         `db:"id"`
		PracticeID string         `db:"practice_id"`
		Position   int            `db:"position"`
		Name       string         `db:"name"`
		Duration   int            `db:"duration"`
		Notes      string         `db:"notes"`
		Tags       pq.StringArray `db:"tags"`
		StartTime  time.Time      `db:"start_time"`
		EndTime    time.Time      `db:"end_time"`
	}
)

const (
	insertPracticeStmt = `
		INSERT INTO practice (id, series_id, name, start_time, end_time, duration, created_at, updated_at)
		VALUES (:id, :series_id, :name, :start_time, :end_time, :duration, :created_at, :updated_at)`

	insertActivityStmt = `
		INSERT INTO activity (id, practice_id, position, name, duration, notes, tags, start_time, end_time)
		VALUES (:id, :practice_id, :position, :name, :duration, :notes, :tags, :start_time, :end_time)`

	updatePracticeStmt = `
		UPDATE practice
		SET name = :name, start_time = :start_time, end_time = :end_time, duration = :duration, updated_at = :updated_at
		WHERE id = :id`

	selectPracticeStmt = `SELECT * FROM practice`

	selectActivitiesStmt = `
		SELECT * FROM activity
		WHERE practice_id = ANY($1)
		ORDER BY practice_id, position`
)

type practiceRepository struct {
	db *sqlx.DB
}

var _ practice.Repository = (*practiceRepository)(nil) // interface compliance check

func NewPracticeRepository(db *sql.DB) *practiceRepository {
	return &practiceRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo practiceRepository) row(prac practice.Practice) practiceRow {
	return practiceRow{
		ID:        prac.ID,
		SeriesID:  sql.NullString{String: prac.SeriesID, Valid: prac.SeriesID != ""},
		Name:      prac.Name,
		StartTime: prac.StartTime.UTC(),
		EndTime:   prac.EndTime.UTC(),
		Duration:  prac.Duration,
		CreatedAt: prac.CreatedAt.UTC(),
		UpdatedAt: prac.UpdatedAt.UTC(),
	}
}

func (repo practiceRepository) unrow(row practiceRow, acts []activityRow) practice.Practice {
	prac := practice.Practice{
		ID:        row.ID,
		SeriesID:  row.SeriesID.String,
		Name:      row.Name,
		StartTime: row.StartTime.UTC(),
		EndTime:   row.EndTime.UTC(),
		Duration:  row.Duration,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	for _, act := range acts {
		prac.Activities = append(prac.Activities, practice.Activity{
			ID:        act.ID,
			Name:      act.Name,
			Duration:  act.Duration,
			Notes:     act.Notes,
			Tags:      act.Tags,
			StartTime: act.StartTime.UTC(),
			EndTime:   act.EndTime.UTC(),
		})
	}
	return prac
}

// trapNoRowsErr maps psql "no rows" err to practice.ErrNotFound
func (repo practiceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return practice.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo practiceRepository) insertActivities(ctx context.Context, tx *sqlx.Tx, prac practice.Practice) error {
	for i, act := range prac.Activities {
		row := activityRow{
			ID:         act.ID,
			PracticeID: prac.ID,
			Position:   i,
			Name:       act.Name,
			Duration:   act.Duration,
			Notes:      act.Notes,
			Tags:       pq.StringArray(act.Tags),
			StartTime:  act.StartTime.UTC(),
			EndTime:    act.EndTime.UTC(),
		}
		if row.Tags == nil {
			row.Tags = pq.StringArray{}
		}
		if _, err := tx.NamedExecContext(ctx, insertActivityStmt, row); err != nil {
			return errors.Wrap(err, "inserting activity")
		}
	}
	return nil
}

// loadActivities fetches the ordered activities of all given practices in one query.
func (repo practiceRepository) loadActivities(ctx context.Context, ids []string) (map[string][]activityRow, error) {
	var rows []activityRow
	if err := repo.db.SelectContext(ctx, &rows, selectActivitiesStmt, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	byPractice := make(map[string][]activityRow, len(ids))
	for _, row := range rows {
		byPractice[row.PracticeID] = append(byPractice[row.PracticeID], row)
	}
	return byPractice, nil
}

// CreatePractices inserts a whole series expansion in a single transaction so
// a partial series can never be committed.
func (repo practiceRepository) CreatePractices(ctx context.Context, practices []practice.Practice) ([]practice.Practice, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, prac := range practices {
		if _, err = tx.NamedExecContext(ctx, insertPracticeStmt, repo.row(prac)); err != nil {
			return nil, errors.Wrap(err, "inserting practice")
		}
		if err = repo.insertActivities(ctx, tx, prac); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing practices")
	}
	return practices, nil
}

func (repo practiceRepository) QueryPractices(ctx context.Context, filter *practice.QueryFilter, ordering []core.DBOrdering) ([]practice.Practice, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			conds = append(conds, fmt.Sprintf("name ILIKE %s", arg("%"+filter.Search+"%")))
		}
		if filter.SeriesID != "" {
			conds = append(conds, fmt.Sprintf("series_id = %s", arg(filter.SeriesID)))
		}
		if !filter.From.IsZero() {
			conds = append(conds, fmt.Sprintf("start_time >= %s", arg(filter.From.UTC())))
		}
		if !filter.To.IsZero() {
			conds = append(conds, fmt.Sprintf("start_time <= %s", arg(filter.To.UTC())))
		}
	}

	query := selectPracticeStmt
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		query += " ORDER BY start_time ASC"
	}

	var rows []practiceRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying practices")
	}
	return repo.unrowSlice(ctx, rows)
}

func (repo practiceRepository) unrowSlice(ctx context.Context, rows []practiceRow) ([]practice.Practice, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	actsByPractice, err := repo.loadActivities(ctx, ids)
	if err != nil {
		return nil, err
	}
	practices := make([]practice.Practice, 0, len(rows))
	for _, row := range rows {
		practices = append(practices, repo.unrow(row, actsByPractice[row.ID]))
	}
	return practices, nil
}

func (repo practiceRepository) GetPractice(ctx context.Context, id string) (practice.Practice, error) {
	var row practiceRow
	if err := repo.db.GetContext(ctx, &row, selectPracticeStmt+" WHERE id = $1", id); err != nil {
		return practice.Practice{}, repo.trapNoRowsErr(err, "finding practice by ID")
	}
	actsByPractice, err := repo.loadActivities(ctx, []string{row.ID})
	if err != nil {
		return practice.Practice{}, err
	}
	return repo.unrow(row, actsByPractice[row.ID]), nil
}

func (repo practiceRepository) QueryPracticesBySeriesID(ctx context.Context, seriesID string) ([]practice.Practice, error) {
	if seriesID == "" {
		return nil, nil
	}
	var rows []practiceRow
	err := repo.db.SelectContext(ctx, &rows, selectPracticeStmt+" WHERE series_id = $1 ORDER BY start_time ASC", seriesID)
	if err != nil {
		return nil, errors.Wrap(err, "querying practices by series ID")
	}
	return repo.unrowSlice(ctx, rows)
}

// UpdatePractice rewrites the practice row and its activity list in one
// transaction; re-inserting the activities keeps positions authoritative
// after any add/remove/reorder.
func (repo practiceRepository) UpdatePractice(ctx context.Context, prac practice.Practice) (practice.Practice, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return practice.Practice{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NamedExecContext(ctx, updatePracticeStmt, repo.row(prac))
	if err != nil {
		return practice.Practice{}, errors.Wrap(err, "updating practice")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return practice.Practice{}, practice.ErrNotFound
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM activity WHERE practice_id = $1", prac.ID); err != nil {
		return practice.Practice{}, errors.Wrap(err, "clearing activities")
	}
	if err = repo.insertActivities(ctx, tx, prac); err != nil {
		return practice.Practice{}, err
	}

	if err = tx.Commit(); err != nil {
		return practice.Practice{}, errors.Wrap(err, "committing practice update")
	}
	return prac, nil
}

func (repo practiceRepository) DeletePracticesByID(ctx context.Context, ids ...string) (int, error) {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM practice WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, errors.Wrap(err, "deleting practices")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting practices")
	}
	return int(cnt), nil
}

// DeletePracticesBySeriesID removes the whole series in one statement; there
// is no window for a partially deleted series.
func (repo practiceRepository) DeletePracticesBySeriesID(ctx context.Context, seriesID string) (int, error) {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM practice WHERE series_id = $1", seriesID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting series")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting series")
	}
	return int(cnt), nil
}
