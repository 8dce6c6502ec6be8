package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"space-missions/models"
	"space-missions/utils"
)

// undefinedTable is the Postgres SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// dbColumns maps the snake_case Postgres column names to canonical headers.
var dbColumns = map[string]string{
	"company":        models.ColCompany,
	"location":       models.ColLocation,
	"date":           models.ColDate,
	"time":           models.ColTime,
	"rocket":         models.ColRocket,
	"mission":        models.ColMission,
	"rocket_status":  models.ColRocketStatus,
	"price":          models.ColPrice,
	"mission_status": models.ColMissionStatus,
}

// PostgresSource reads the mission table from a PostgreSQL table. It never
// writes: the table is owned by whoever populated the database.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource opens a connection to PostgreSQL and pings it using the
// given retry strategy.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.Do(ctx, "postgres-ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &PostgresSource{db: db, table: table}, nil
}

func (ps *PostgresSource) Name() string { return "postgres:" + ps.table }

// Load selects every row of the configured table in insertion (ctid) order.
func (ps *PostgresSource) Load(ctx context.Context) (*models.RawTable, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY ctid", pq.QuoteIdentifier(ps.table))

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == undefinedTable {
			return nil, fmt.Errorf("postgres: table %q: %w: %w", ps.table, ErrSourceNotFound, err)
		}
		return nil, fmt.Errorf("postgres: select: %w", err)
	}
	defer rows.Close()

	dbCols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("postgres: columns: %w", err)
	}
	columns := CanonicalColumns(dbCols)

	table := &models.RawTable{Source: ps.Name(), Columns: columns}
	for rows.Next() {
		values := make([]any, len(dbCols))
		ptrs := make([]any, len(dbCols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatDBValue(columns[i], v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}
	return table, nil
}

// Close releases the connection pool.
func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

// CanonicalColumns translates database column names into source header
// names. Unknown columns keep their database name.
func CanonicalColumns(dbCols []string) []string {
	out := make([]string, len(dbCols))
	for i, c := range dbCols {
		if canonical, ok := dbColumns[c]; ok {
			out[i] = canonical
		} else {
			out[i] = c
		}
	}
	return out
}

// FormatDBValue renders a scanned driver value as the text a CSV source
// would have carried for the same column.
func FormatDBValue(column string, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		switch column {
		case models.ColDate:
			return val.Format(dateLayout)
		case models.ColTime:
			return val.Format("15:04:05")
		default:
			return val.Format(time.RFC3339)
		}
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
