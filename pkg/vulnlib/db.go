package vulnlib

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"k8s.io/apimachinery/pkg/util/json"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS hosts (
		"IP" TEXT NOT NULL PRIMARY KEY,
		"Updated" INTEGER,
		"Doc" TEXT);`,
	`CREATE TABLE IF NOT EXISTS hostvuln (
		"ID" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"IP" TEXT,
		"OID" TEXT,
		"Updated" INTEGER,
		"Doc" TEXT,
		UNIQUE ("IP", "OID"));`,
	`CREATE TABLE IF NOT EXISTS vulnerabilities (
		"OID" TEXT NOT NULL PRIMARY KEY,
		"Doc" TEXT);`,
	`CREATE TABLE IF NOT EXISTS cves (
		"CVEID" TEXT NOT NULL PRIMARY KEY,
		"Doc" TEXT);`,
	`CREATE TABLE IF NOT EXISTS cwe (
		"CWEID" TEXT NOT NULL PRIMARY KEY,
		"Doc" TEXT);`,
	`CREATE INDEX IF NOT EXISTS idx_hosts_updated ON hosts ("Updated");`,
	`CREATE INDEX IF NOT EXISTS idx_hostvuln_updated ON hostvuln ("Updated");`,
}

// SQLiteStore keeps every record as a JSON document in a "Doc" column,
// with the lookup keys and the updated timestamp (unix nanoseconds) alongside.
type SQLiteStore struct {
	DB   *sql.DB
	Path string
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := mkFolder(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("create folder for %s: %w", dbPath, err)
	}

	if !exists(dbPath) {
		file, err := os.Create(dbPath)
		if err != nil {
			return nil, err
		}
		file.Close()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	for _, table := range tables {
		if _, err = db.Exec(table); err != nil {
			db.Close()
			return nil, fmt.Errorf("init table: %w", err)
		}
	}

	return &SQLiteStore{DB: db, Path: dbPath}, nil
}

func (s *SQLiteStore) Hosts(ctx context.Context) ([]*Host, error) {
	hosts := []*Host{}

	sqlRow := `SELECT "Doc" FROM hosts ORDER BY "IP"`
	rows, err := s.DB.QueryContext(ctx, sqlRow)
	if err != nil {
		return hosts, err
	}

	defer rows.Close()

	for rows.Next() {
		var doc string
		if err = rows.Scan(&doc); err != nil {
			return hosts, err
		}

		h, err := ParseHost(doc)
		if err != nil {
			return hosts, err
		}

		// same as {"oids": {"$exists": true}}
		if h.OIDs == nil {
			continue
		}

		hosts = append(hosts, h)
	}

	if err = rows.Err(); err != nil {
		return hosts, err
	}

	return hosts, nil
}

func (s *SQLiteStore) Vulnerability(ctx context.Context, oid string) (*Vulnerability, error) {
	doc, err := s.queryDoc(ctx, `SELECT "Doc" FROM vulnerabilities WHERE "OID" = ?`, oid)
	if err != nil {
		return nil, err
	}

	return ParseVulnerability(doc)
}

func (s *SQLiteStore) CVE(ctx context.Context, id string) (*CVE, error) {
	doc, err := s.queryDoc(ctx, `SELECT "Doc" FROM cves WHERE "CVEID" = ?`, id)
	if err != nil {
		return nil, err
	}

	return ParseCVE(doc)
}

func (s *SQLiteStore) CWE(ctx context.Context, id string) (*CWE, error) {
	doc, err := s.queryDoc(ctx, `SELECT "Doc" FROM cwe WHERE "CWEID" = ?`, id)
	if err != nil {
		return nil, err
	}

	return ParseCWE(doc)
}

func (s *SQLiteStore) queryDoc(ctx context.Context, sqlRow string, key string) (string, error) {
	var doc string

	err := s.DB.QueryRowContext(ctx, sqlRow, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}

	return doc, err
}

func (s *SQLiteStore) CountStale(ctx context.Context, collection string, before time.Time) (int64, error) {
	if err := staleCollection(collection); err != nil {
		return 0, err
	}

	var count int64
	sqlRow := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE "Updated" < ?`, collection)
	err := s.DB.QueryRowContext(ctx, sqlRow, before.UnixNano()).Scan(&count)

	return count, err
}

func (s *SQLiteStore) RemoveStale(ctx context.Context, collection string, before time.Time) (int64, error) {
	if err := staleCollection(collection); err != nil {
		return 0, err
	}

	sqlRow := fmt.Sprintf(`DELETE FROM %s WHERE "Updated" < ?`, collection)
	res, err := s.DB.ExecContext(ctx, sqlRow, before.UnixNano())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (s *SQLiteStore) PutHost(ctx context.Context, h *Host) error {
	sqlRow := `INSERT OR REPLACE INTO hosts ("IP", "Updated", "Doc") VALUES (?, ?, ?)`
	return s.put(ctx, sqlRow, h, h.IP, stamp(h.Updated))
}

func (s *SQLiteStore) PutHostVuln(ctx context.Context, hv *HostVuln) error {
	sqlRow := `INSERT OR REPLACE INTO hostvuln ("IP", "OID", "Updated", "Doc") VALUES (?, ?, ?, ?)`
	return s.put(ctx, sqlRow, hv, hv.IP, hv.OID, stamp(hv.Updated))
}

func (s *SQLiteStore) PutVulnerability(ctx context.Context, v *Vulnerability) error {
	sqlRow := `INSERT OR REPLACE INTO vulnerabilities ("OID", "Doc") VALUES (?, ?)`
	return s.put(ctx, sqlRow, v, v.OID)
}

func (s *SQLiteStore) PutCVE(ctx context.Context, c *CVE) error {
	sqlRow := `INSERT OR REPLACE INTO cves ("CVEID", "Doc") VALUES (?, ?)`
	return s.put(ctx, sqlRow, c, c.ID)
}

func (s *SQLiteStore) PutCWE(ctx context.Context, c *CWE) error {
	sqlRow := `INSERT OR REPLACE INTO cwe ("CWEID", "Doc") VALUES (?, ?)`
	return s.put(ctx, sqlRow, c, c.ID)
}

// put stores v as the trailing "Doc" argument of sqlRow.
func (s *SQLiteStore) put(ctx context.Context, sqlRow string, v interface{}, keys ...interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	args := append(keys, string(data))
	_, err = s.DB.ExecContext(ctx, sqlRow, args...)

	return err
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

// stamp stores a missing timestamp as NULL so it never matches "Updated" < ?
func stamp(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func staleCollection(collection string) error {
	switch collection {
	case HostCollection, HostVulnCollection:
		return nil
	}

	return fmt.Errorf("collection %q has no updated timestamp", collection)
}
