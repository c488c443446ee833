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

package consolidate

import (
	"strconv"
	"strings"

	"github.com/wtsi-hgi/encode-lookup/types"
)

const (
	// MissingValue is written in place of values that are not known, such as
	// the fragment length of a record without runs.
	MissingValue = "NA"

	uniqueKeySeparator = "\x1e"
	replicateSeparator = ", "

	groupColumn                = "Replicate group"
	accessibilityExpColumn     = "Accessibility experiments"
	markExpColumn              = "H3K27ac experiments"
	experimentAccessionColumn  = "Experiment accession"
	fileAccessionColumn        = "File accession"
	downloadURLColumn          = "File download URL"
	runTypeColumn              = "Run type"
	fragmentLengthColumn       = "Fragment length"
	biosampleStageColumn       = "Biosample stage"
	assayColumn                = "Assay"
	biologicalReplicatesColumn = "Biological replicate(s)"
	technicalReplicatesColumn  = "Technical replicate(s)"
	biosampleSummaryColumn     = "Biosample summary"
)

// Result holds the consolidated metadata.
type Result struct {
	// Full has every joined row, annotated with its replicate group.
	Full []*Row

	// Unique has the first row of each replicate group, in group order.
	Unique []*Row

	HasMark bool

	UnmatchedAccessibility int
	UnmatchedMark          int
}

// uniqueKey identifies a replicate group: the biological condition plus the
// combination of assays that cover it.
func uniqueKey(r *Row) string {
	return r.Key.Key() + uniqueKeySeparator + r.Identity()
}

// Consolidate groups the joined rows in to replicate groups. The returned Full
// rows are copies of the joined rows in the same order, with Group and the
// experiment counts set; Unique holds the first Full row of each group.
func Consolidate(j *Joined) *Result {
	groups := make(map[string]int)
	accExps := make(map[int]map[string]bool)
	markExps := make(map[int]map[string]bool)

	res := &Result{
		Full:                   make([]*Row, len(j.Rows)),
		HasMark:                j.HasMark,
		UnmatchedAccessibility: j.UnmatchedAccessibility,
		UnmatchedMark:          j.UnmatchedMark,
	}

	for i, r := range j.Rows {
		row := *r
		res.Full[i] = &row

		key := uniqueKey(&row)

		group, seen := groups[key]
		if !seen {
			group = len(groups) + 1
			groups[key] = group
			accExps[group] = make(map[string]bool)
			markExps[group] = make(map[string]bool)

			res.Unique = append(res.Unique, &row)
		}

		row.Group = group
		accExps[group][row.Accessibility.ExperimentAccession] = true

		if row.Mark != nil {
			markExps[group][row.Mark.ExperimentAccession] = true
		}
	}

	for _, row := range res.Full {
		row.AccessibilityExperiments = len(accExps[row.Group])
		row.MarkExperiments = len(markExps[row.Group])
	}

	return res
}

// Assays returns the assays that have columns in the result.
func (r *Result) Assays() []types.Assay {
	return (&Joined{HasMark: r.HasMark}).Assays()
}

// Table is a header and rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Lookup returns the per-file table needed by downstream analysis, derived
// from Full: replicate group, biosample summary and, for each assay, the
// experiment and file accessions, download URL, run type, fragment length and
// biosample stage.
func (r *Result) Lookup() *Table {
	t := &Table{Header: []string{groupColumn, biosampleSummaryColumn}}

	for _, a := range r.Assays() {
		t.Header = append(t.Header,
			experimentAccessionColumn+a.Suffix(),
			fileAccessionColumn+a.Suffix(),
			downloadURLColumn+a.Suffix(),
			runTypeColumn+a.Suffix(),
			fragmentLengthColumn+a.Suffix(),
			biosampleStageColumn+a.Suffix(),
		)
	}

	for _, row := range r.Full {
		cells := []string{strconv.Itoa(row.Group), row.Key.BiosampleSummary}

		for _, a := range r.Assays() {
			rec := row.Side(a)
			cells = append(cells,
				rec.ExperimentAccession,
				rec.FileAccession,
				rec.DownloadURL,
				string(rec.RunType),
				formatLength(rec.FragmentLength),
				rec.BiosampleStage,
			)
		}

		t.Rows = append(t.Rows, cells)
	}

	return t
}

// FullTable renders every Full row with all JoinKey columns followed by the
// suffixed columns of each assay.
func (r *Result) FullTable() *Table {
	return r.metadataTable(r.Full)
}

// UniqueTable is like FullTable(), but for the Unique rows.
func (r *Result) UniqueTable() *Table {
	return r.metadataTable(r.Unique)
}

func (r *Result) metadataTable(rows []*Row) *Table {
	t := &Table{Header: []string{groupColumn, accessibilityExpColumn}}

	if r.HasMark {
		t.Header = append(t.Header, markExpColumn)
	}

	t.Header = append(t.Header, types.JoinKeyColumns...)

	for _, a := range r.Assays() {
		for _, col := range []string{
			experimentAccessionColumn, fileAccessionColumn, assayColumn,
			biologicalReplicatesColumn, technicalReplicatesColumn, runTypeColumn,
			fragmentLengthColumn, biosampleStageColumn, downloadURLColumn,
		} {
			t.Header = append(t.Header, col+a.Suffix())
		}
	}

	for _, row := range rows {
		cells := []string{strconv.Itoa(row.Group), strconv.Itoa(row.AccessibilityExperiments)}

		if r.HasMark {
			cells = append(cells, strconv.Itoa(row.MarkExperiments))
		}

		cells = append(cells, row.Key.Values()...)

		for _, a := range r.Assays() {
			rec := row.Side(a)
			cells = append(cells,
				rec.ExperimentAccession,
				rec.FileAccession,
				rec.Assay,
				strings.Join(rec.BiologicalReplicates, replicateSeparator),
				strings.Join(rec.TechnicalReplicates, replicateSeparator),
				string(rec.RunType),
				formatLength(rec.FragmentLength),
				rec.BiosampleStage,
				rec.DownloadURL,
			)
		}

		t.Rows = append(t.Rows, cells)
	}

	return t
}

func formatLength(length *float64) string {
	if length == nil {
		return MissingValue
	}

	return strconv.FormatFloat(*length, 'f', -1, 64)
}
