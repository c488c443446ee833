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

// package output writes the consolidated metadata files consumed by the
// downstream analysis pipeline.

package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/tsv"
	"github.com/wtsi-hgi/encode-lookup/consolidate"
	"github.com/wtsi-hgi/encode-lookup/types"
)

const (
	LookupBasename         = "input_data_lookup.tsv"
	FullMetadataBasename   = "full_metadata.tsv"
	UniqueMetadataBasename = "unique_metadata.tsv"
	LinksBasename          = "linkstodownload.txt"

	runTypeListPrefix   = "unique_"
	runTypeListSuffix   = "_h3k27ac_dhs_files.tsv"
	accessionListHeader = "File accession"
)

// RunTypeListBasename returns the basename of the accession list for the given
// run type, eg. "unique_singleend_h3k27ac_dhs_files.tsv".
func RunTypeListBasename(rt types.RunType) string {
	return runTypeListPrefix + rt.Title() + runTypeListSuffix
}

// WriteTable writes the given table as TSV with a header line to path.
func WriteTable(path string, t *consolidate.Table) error {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.Header)
	rows = append(rows, t.Rows...)

	return writeRows(path, rows)
}

func writeRows(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if errc := f.Close(); err == nil {
			err = errc
		}
	}()

	w := tsv.NewWriter(f)

	for _, row := range rows {
		for _, cell := range row {
			w.WriteString(cell)
		}

		if err = w.EndLine(); err != nil {
			return err
		}
	}

	return w.Flush()
}

// WriteLookup writes the lookup table of the result to LookupBasename in dir,
// returning the path written to.
func WriteLookup(dir string, res *consolidate.Result) (string, error) {
	path := filepath.Join(dir, LookupBasename)

	return path, WriteTable(path, res.Lookup())
}

// WriteMetadata writes the full and unique metadata tables of the result to
// FullMetadataBasename and UniqueMetadataBasename in dir.
func WriteMetadata(dir string, res *consolidate.Result) error {
	if err := WriteTable(filepath.Join(dir, FullMetadataBasename), res.FullTable()); err != nil {
		return err
	}

	return WriteTable(filepath.Join(dir, UniqueMetadataBasename), res.UniqueTable())
}

// WriteRunTypeLists writes one accession list per run type in types.RunTypes
// to dir, each with a header line, returning the paths written to.
func WriteRunTypeLists(dir string, lists consolidate.RunTypeLists) ([]string, error) {
	paths := make([]string, 0, len(types.RunTypes))

	for _, rt := range types.RunTypes {
		path := filepath.Join(dir, RunTypeListBasename(rt))

		if err := writeColumn(path, accessionListHeader, lists[rt]); err != nil {
			return nil, fmt.Errorf("%s list: %w", rt, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func writeColumn(path, header string, values []string) error {
	rows := make([][]string, 0, len(values)+1)

	if header != "" {
		rows = append(rows, []string{header})
	}

	for _, v := range values {
		rows = append(rows, []string{v})
	}

	return writeRows(path, rows)
}

// WriteLinks writes the given URLs, one per line, to LinksBasename in dir,
// returning the path written to.
func WriteLinks(dir string, urls []string) (string, error) {
	path := filepath.Join(dir, LinksBasename)

	return path, writeColumn(path, "", urls)
}
