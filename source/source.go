// Package source loads records from a JSON file or a MySQL table.
package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	log "github.com/golang/glog"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/config"
	"github.com/delique1984/Experience5-privacy/record"
)

// Timeouts of database operations.
const (
	DialTimeout  = 5 * time.Second
	QueryTimeout = 30 * time.Second
)

// ReadJSON decodes a JSON array of objects into records.
func ReadJSON(r io.Reader) ([]record.Record, error) {
	var rs []record.Record
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, fmt.Errorf("ReadJSON: %w", err)
	}
	return rs, nil
}

// ReadFile reads records from the JSON file at path.
func ReadFile(path string) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	defer f.Close()
	rs, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.V(1).Infof("source: read %d records from %s", len(rs), path)
	return rs, nil
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// MySQL reads records from one table of a MySQL database.
type MySQL struct {
	db    *sql.DB
	table string
	limit int
}

// Open connects to the database described by cfg and checks the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*MySQL, error) {
	if cfg.DSN == "" {
		return nil, checks.NewInputError("source.Open", "no database DSN configured")
	}
	if err := checkIdentifier(cfg.Table); err != nil {
		return nil, fmt.Errorf("source.Open: %w", err)
	}
	dsn, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("source.Open: %w", err)
	}
	if dsn.Timeout == 0 {
		dsn.Timeout = DialTimeout
	}
	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("source.Open: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("source.Open: pinging %s@%s: %w", dsn.User, dsn.Addr, err)
	}
	log.Infof("source: connected to %s/%s", dsn.Addr, dsn.DBName)
	return &MySQL{db: db, table: cfg.Table, limit: cfg.Limit}, nil
}

// Close closes the database.
func (m *MySQL) Close() error { return m.db.Close() }

// Load returns the rows of the table matching filter, with the given columns
// or all of them when columns is empty.
func (m *MySQL) Load(ctx context.Context, columns []string, filter record.Filter) ([]record.Record, error) {
	query, args, err := buildQuery(m.table, columns, filter, m.limit)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var rs []record.Record
	for rows.Next() {
		vals := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("Load: %w", err)
		}
		r := make(record.Record, len(types))
		for i, ct := range types {
			r[ct.Name()] = convert(vals[i], ct.DatabaseTypeName())
		}
		rs = append(rs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	log.V(1).Infof("source: loaded %d rows from %s", len(rs), m.table)
	return rs, nil
}

// buildQuery returns a parameterized SELECT over table. Identifiers are
// quoted; filter values are passed as arguments in field order.
func buildQuery(table string, columns []string, filter record.Filter, limit int) (string, []any, error) {
	if err := checkIdentifier(table); err != nil {
		return "", nil, err
	}
	cols := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			if err := checkIdentifier(c); err != nil {
				return "", nil, err
			}
			quoted[i] = quote(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, quote(table))

	var args []any
	if len(filter) > 0 {
		fields := make([]string, 0, len(filter))
		for f := range filter {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		conds := make([]string, len(fields))
		for i, f := range fields {
			if err := checkIdentifier(f); err != nil {
				return "", nil, err
			}
			if filter[f] == nil {
				conds[i] = quote(f) + " IS NULL"
				continue
			}
			conds[i] = quote(f) + " = ?"
			args = append(args, filter[f])
		}
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(limit))
	}
	return b.String(), args, nil
}

func checkIdentifier(s string) error {
	if s == "" || strings.ContainsAny(s, "`\x00") {
		return checks.NewInputError("source", "invalid identifier %q", s)
	}
	return nil
}

func quote(s string) string { return "`" + s + "`" }

// convert maps a scanned MySQL value to a record value: numeric columns
// become float64, text becomes string and NULL stays nil.
func convert(v any, dbType string) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		s := string(x)
		if numericType(dbType) {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
		return s
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return v
}

func numericType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "DECIMAL", "FLOAT", "DOUBLE", "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		return true
	}
	return false
}
