package catalog

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"schemaboard/internal/schema"
)

type columnRow struct {
	Table    string `db:"table_name"`
	Column   string `db:"column_name"`
	DataType string `db:"data_type"`
}

const (
	sqliteTablesQuery = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	sqliteColumnsQuery = `
		SELECT name AS column_name, type AS data_type
		FROM pragma_table_info(?)
		ORDER BY cid`

	postgresColumnsQuery = `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1
		ORDER BY table_name, ordinal_position`

	mysqlColumnsQuery = `
		SELECT TABLE_NAME AS table_name, COLUMN_NAME AS column_name, DATA_TYPE AS data_type
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		ORDER BY TABLE_NAME, ORDINAL_POSITION`
)

// Introspect reads table and column names from a live database. The table
// name becomes the table id and the column name the column id.
func Introspect(ctx context.Context, src Source) (*schema.Catalog, error) {
	driver, dsn, err := driverFor(src)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var rows []columnRow
	switch src.Kind {
	case KindSQLite:
		rows, err = sqliteColumns(ctx, db)
	case KindPostgres:
		schemaName := src.Schema
		if schemaName == "" {
			schemaName = "public"
		}
		err = db.SelectContext(ctx, &rows, postgresColumnsQuery, schemaName)
	case KindMySQL:
		err = db.SelectContext(ctx, &rows, mysqlColumnsQuery)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}

	tables := group(rows)
	if err := Validate(tables); err != nil {
		return nil, err
	}
	return schema.NewCatalog(tables), nil
}

func driverFor(src Source) (string, string, error) {
	switch src.Kind {
	case KindSQLite:
		dsn := src.DSN
		if dsn == "" {
			dsn = src.Path
		}
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite catalog needs a path")
		}
		return "sqlite", dsn, nil
	case KindPostgres:
		if src.DSN == "" {
			return "", "", fmt.Errorf("connection string is required for %s catalog", src.Kind)
		}
		return "pgx", src.DSN, nil
	case KindMySQL:
		if src.DSN == "" {
			return "", "", fmt.Errorf("connection string is required for %s catalog", src.Kind)
		}
		return "mysql", src.DSN, nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %s", src.Kind)
	}
}

func sqliteColumns(ctx context.Context, db *sqlx.DB) ([]columnRow, error) {
	var names []string
	if err := db.SelectContext(ctx, &names, sqliteTablesQuery); err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}

	var rows []columnRow
	for _, name := range names {
		var cols []columnRow
		if err := db.SelectContext(ctx, &cols, sqliteColumnsQuery, name); err != nil {
			return nil, fmt.Errorf("failed to load columns for table %s: %w", name, err)
		}
		for _, c := range cols {
			c.Table = name
			rows = append(rows, c)
		}
	}
	return rows, nil
}

// group folds ordered column rows into tables, keeping first-seen order.
func group(rows []columnRow) []schema.Table {
	var tables []schema.Table
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.Table]
		if !ok {
			i = len(tables)
			index[r.Table] = i
			tables = append(tables, schema.Table{ID: r.Table, Name: r.Table})
		}
		tables[i].Columns = append(tables[i].Columns, schema.Column{
			ID:       r.Column,
			Name:     r.Column,
			DataType: r.DataType,
		})
	}
	return tables
}
