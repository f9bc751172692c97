package database

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"homescout/internal/models"
)

// TableName is the single table the pipeline writes and the exporter reads.
const TableName = "results"

// ResultStore is the relational sink for assembled rows. Its column
// set is derived once at construction from the fixed listing columns
// plus the registered POI/collection names; the same ordered list is
// used for the schema, the insert statement and row serialization, so
// positional inserts can never drift out of step with the table.
type ResultStore struct {
	db      *sql.DB
	columns []string
	logger  *logrus.Logger
}

// NewResultStore opens (or creates) the SQLite database at path and
// recreates the results table. distanceNames must already be sorted
// and deduplicated; one NUMERIC column is added per name after the
// fixed columns.
func NewResultStore(path string, distanceNames []string, logger *logrus.Logger) (*ResultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	columns := make([]string, 0, len(models.FixedColumns)+len(distanceNames))
	columns = append(columns, models.FixedColumns...)
	columns = append(columns, distanceNames...)

	// No append semantics across runs: drop and recreate.
	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, TableName)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to drop previous results table: %w", err)
	}
	definitions := make([]string, len(columns))
	for i, column := range columns {
		columnType := "NUMERIC"
		if column == "url" {
			columnType = "TEXT"
		}
		definitions[i] = fmt.Sprintf("%q %s", column, columnType)
	}
	create := fmt.Sprintf(`CREATE TABLE %q (%s)`, TableName, strings.Join(definitions, ", "))
	if _, err := db.Exec(create); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create results table: %w", err)
	}

	return &ResultStore{db: db, columns: columns, logger: logger}, nil
}

// Open opens an existing results database for querying only. No schema
// is created or checked.
func Open(path string, logger *logrus.Logger) (*ResultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &ResultStore{db: db, logger: logger}, nil
}

// Columns returns the ordered column list shared by the schema and
// every insert.
func (s *ResultStore) Columns() []string {
	columns := make([]string, len(s.columns))
	copy(columns, s.columns)
	return columns
}

// InsertRows writes all rows positionally in one statement inside one
// transaction. Inserting nothing is a no-op.
func (s *ResultStore) InsertRows(rows []models.ResultRow) error {
	if len(rows) == 0 {
		return nil
	}

	quoted := make([]string, len(s.columns))
	for i, column := range s.columns {
		quoted[i] = fmt.Sprintf("%q", column)
	}
	builder := sq.Insert(fmt.Sprintf("%q", TableName)).Columns(quoted...)
	for _, row := range rows {
		builder = builder.Values(row.Values(s.columns)...)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert statement: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rows: %w", err)
	}

	s.logger.WithField("rows", len(rows)).Info("Inserted result rows")
	return nil
}

// Rows runs an arbitrary read query and returns the result column
// names along with every row's values in query order.
func (s *ResultStore) Rows(query string) ([]string, [][]interface{}, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var results [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, results, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}
