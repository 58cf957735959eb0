package testdata

import (
	"context"
	"database/sql"
	"fmt"

	"api-batch-runner/internal/csvcodec"

	_ "github.com/denisenkom/go-mssqldb" // for sqlserver
	_ "github.com/go-sql-driver/mysql"   // for mysql
	_ "github.com/lib/pq"                // for postgres
)

// DBConfig holds database connection configuration
type DBConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// DBRowSource turns the result set of a SQL query into batch rows, so a
// data team can drive a batch run straight from production-like data
type DBRowSource struct {
	cfg DBConfig
}

// NewDBRowSource creates a new DBRowSource
func NewDBRowSource(cfg DBConfig) *DBRowSource {
	return &DBRowSource{cfg: cfg}
}

// Fetch runs the query and returns its columns as CSV headers and each
// result row as a row mapping, NULLs mapping to empty strings
func (s *DBRowSource) Fetch(ctx context.Context, query string) ([]string, []csvcodec.Row, error) {
	dsn, err := s.dsn()
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(s.cfg.Type, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	result, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %v", err)
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return nil, nil, err
	}

	var rows []csvcodec.Row
	for result.Next() {
		cells := make([]sql.NullString, len(columns))
		scan := make([]interface{}, len(columns))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := result.Scan(scan...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %v", err)
		}

		row := make(csvcodec.Row, len(columns))
		for i, column := range columns {
			row[column] = cells[i].String
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, nil, err
	}
	return columns, rows, nil
}

// dsn builds the driver-specific connection string
func (s *DBRowSource) dsn() (string, error) {
	switch s.cfg.Type {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password, s.cfg.Database), nil
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			s.cfg.User, s.cfg.Password, s.cfg.Host, s.cfg.Port, s.cfg.Database), nil
	case "sqlserver":
		return fmt.Sprintf("server=%s;port=%d;user id=%s;password=%s;database=%s",
			s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password, s.cfg.Database), nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", s.cfg.Type)
	}
}
