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

// package sheets lets you read a master catalog of experiments from a Google
// sheet.

package sheets

import (
	"context"
	"fmt"

	"github.com/wtsi-hgi/encode-lookup/types"
	"google.golang.org/api/option"
	googleSheets "google.golang.org/api/sheets/v4"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData        = Error("no data found in sheet")
	ErrMissingColumn = Error("column not found in sheet")

	AccessionColumn = "accession"
	NameColumn      = "biosample_summary"
	StageColumn     = "life_stage"

	DefaultSheetName = "Experiments"
)

// Sheets allows the retrival of sheets from Google docs.
type Sheets struct {
	srv *googleSheets.Service
}

// New returns a Sheets that you can Read() sheets from Google docs with.
func New(ctx context.Context, sc *ServiceCredentials) (*Sheets, error) {
	client := sc.toJWTConfig().Client(ctx)

	srv, err := googleSheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	return &Sheets{srv: srv}, nil
}

// Sheet contains the retrieved cells in a Google sheet.
type Sheet struct {
	ColumnHeaders []string
	Rows          [][]string
}

// Read retrieves the contents of a given document and sheet within that
// document. The id of a Google sheet is the long string of characters in the
// URL when viewing that document.
func (s *Sheets) Read(ctx context.Context, docID, sheetName string) (*Sheet, error) {
	valRange, err := s.srv.Spreadsheets.Values.Get(docID, sheetName).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return newSheet(valRange.Values), nil
}

func newSheet(values [][]any) *Sheet {
	sheet := &Sheet{}

	if len(values) == 0 {
		return sheet
	}

	sheet.ColumnHeaders = rowToStringSlice(values[0])
	sheet.Rows = make([][]string, len(values)-1)

	for i, row := range values[1:] {
		sheet.Rows[i] = rowToStringSlice(row)
	}

	return sheet
}

func rowToStringSlice(in []any) []string {
	out := make([]string, len(in))

	for i, cols := range in {
		out[i] = fmt.Sprint(cols)
	}

	return out
}

// Columns returns the values of the given columns for every row, in the order
// the columns were asked for. Cells missing from the end of short rows are
// returned as blank.
func (s *Sheet) Columns(names ...string) ([][]string, error) {
	indexes := make([]int, len(names))

	for i, name := range names {
		indexes[i] = -1

		for j, header := range s.ColumnHeaders {
			if header == name {
				indexes[i] = j

				break
			}
		}

		if indexes[i] == -1 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	rows := make([][]string, len(s.Rows))

	for r, row := range s.Rows {
		rows[r] = make([]string, len(indexes))

		for i, idx := range indexes {
			if idx < len(row) {
				rows[r][i] = row[idx]
			}
		}
	}

	return rows, nil
}

// CatalogEntries converts the rows of a sheet with AccessionColumn, NameColumn
// and StageColumn in to catalog entries. Rows with a blank accession are
// skipped.
func (s *Sheet) CatalogEntries() ([]types.CatalogEntry, error) {
	if len(s.Rows) == 0 {
		return nil, ErrNoData
	}

	rows, err := s.Columns(AccessionColumn, NameColumn, StageColumn)
	if err != nil {
		return nil, err
	}

	entries := make([]types.CatalogEntry, 0, len(rows))

	for _, row := range rows {
		if row[0] == "" {
			continue
		}

		entries = append(entries, types.CatalogEntry{
			Accession:     row[0],
			BiosampleName: row[1],
			Stage:         row[2],
		})
	}

	return entries, nil
}

// CatalogSource is a catalog.Source backed by a sheet in a Google doc.
type CatalogSource struct {
	Sheets    *Sheets
	DocID     string
	SheetName string
}

// Entries reads the sheet and returns its catalog entries.
func (c *CatalogSource) Entries(ctx context.Context) ([]types.CatalogEntry, error) {
	name := c.SheetName
	if name == "" {
		name = DefaultSheetName
	}

	sheet, err := c.Sheets.Read(ctx, c.DocID, name)
	if err != nil {
		return nil, err
	}

	return sheet.CatalogEntries()
}
