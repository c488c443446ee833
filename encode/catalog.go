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

package encode

import (
	"errors"
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/wtsi-hgi/encode-lookup/types"
)

// Column indexes in the header-less ENCODE experiment report used as the
// master catalog.
const (
	CatalogAccessionColumn = 1
	CatalogNameColumn      = 6
	CatalogStageColumn     = 20

	catalogMinColumns = CatalogStageColumn + 1
)

// ReadCatalog parses a header-less master catalog. Rows too short to hold a
// stage are skipped.
func ReadCatalog(r io.Reader) ([]types.CatalogEntry, error) {
	tr := tsv.NewReader(r)
	tr.LazyQuotes = true
	tr.FieldsPerRecord = -1

	var entries []types.CatalogEntry

	for {
		fields, err := tr.Reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		if len(fields) < catalogMinColumns {
			continue
		}

		entries = append(entries, types.CatalogEntry{
			Accession:     fields[CatalogAccessionColumn],
			BiosampleName: fields[CatalogNameColumn],
			Stage:         fields[CatalogStageColumn],
		})
	}

	return entries, nil
}

// LoadCatalog reads the master catalog at path. Errors wrap ErrFatalInput.
func LoadCatalog(path string) ([]types.CatalogEntry, error) {
	return readFile(path, ReadCatalog)
}
