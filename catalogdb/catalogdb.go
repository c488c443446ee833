/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package catalogdb reads a master catalog of experiments from a MySQL mirror
// of the ENCODE experiment report.

package catalogdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/wtsi-hgi/encode-lookup/types"
)

const (
	sqlDriverName   = "mysql"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

// DB is a connection to the catalog database.
type DB struct {
	pool *sql.DB
}

// New returns a new DB connection using mysql.Config that you can get from
// config.FromEnv().MySQLConfig().
func New(c *mysql.Config) (*DB, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &DB{pool: pool}, pool.Ping()
}

const getEntries = `
SELECT e.accession, COALESCE(e.biosample_summary, ''), COALESCE(e.life_stage, '')
FROM experiment e
WHERE e.accession IS NOT NULL AND e.accession != ''
ORDER BY e.id
`

// Entries returns every experiment in the catalog, in the order they were
// added to it. It satisfies catalog.Source.
func (d *DB) Entries(ctx context.Context) ([]types.CatalogEntry, error) {
	rows, err := d.pool.QueryContext(ctx, getEntries)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var entries []types.CatalogEntry

	for rows.Next() {
		var entry types.CatalogEntry

		if err := rows.Scan(
			&entry.Accession,
			&entry.BiosampleName,
			&entry.Stage,
		); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Close closes the connection to the catalog database.
func (d *DB) Close() error {
	return d.pool.Close()
}
