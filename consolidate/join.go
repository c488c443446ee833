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

// package consolidate joins normalised experiment records across assays on
// their biological descriptors, then groups the result in to replicate groups.

package consolidate

import (
	"github.com/wtsi-hgi/encode-lookup/types"
)

// Row is one record of the accessibility assay, paired with one record of the
// histone mark assay that has the same JoinKey. Mark is nil when no mark assay
// was joined.
type Row struct {
	Key           types.JoinKey
	Accessibility *types.ExperimentRecord
	Mark          *types.ExperimentRecord

	// Group is the 1-based replicate group the row belongs to, set by
	// Consolidate().
	Group int

	// AccessibilityExperiments and MarkExperiments are the number of distinct
	// experiments in the row's replicate group, set by Consolidate().
	AccessibilityExperiments int
	MarkExperiments          int
}

// Identity describes which assays contributed to the row, eg.
// "Accessibility+H3K27ac".
func (r *Row) Identity() string {
	if r.Mark == nil {
		return types.AssayAccessibility.String()
	}

	return types.AssayAccessibility.String() + "+" + types.AssayMark.String()
}

// Replicated is true if the row's replicate group has 2 or more distinct
// experiments for one of its assays.
func (r *Row) Replicated() bool {
	return r.AccessibilityExperiments > 1 || r.MarkExperiments > 1
}

// Side returns the record of the given assay, which may be nil.
func (r *Row) Side(a types.Assay) *types.ExperimentRecord {
	if a == types.AssayMark {
		return r.Mark
	}

	return r.Accessibility
}

// Joined is the result of joining assays.
type Joined struct {
	Rows    []*Row
	HasMark bool

	// UnmatchedAccessibility and UnmatchedMark count records dropped by the
	// inner join because no record of the other assay had their JoinKey.
	UnmatchedAccessibility int
	UnmatchedMark          int
}

// Assays returns the assays that have columns in the joined rows.
func (j *Joined) Assays() []types.Assay {
	if j.HasMark {
		return []types.Assay{types.AssayAccessibility, types.AssayMark}
	}

	return []types.Assay{types.AssayAccessibility}
}

// Layout is one of the supported combinations of assay tables. Each knows how
// to join its own tables.
type Layout interface {
	Join() *Joined
	layout()
}

// AccessibilityOnly is the layout where no histone mark table is available. Its
// rows are kept without joining. Alt, if any, is a second accessibility assay
// whose rows are appended after those of Accessibility.
type AccessibilityOnly struct {
	Accessibility []*types.ExperimentRecord
	Alt           []*types.ExperimentRecord
}

func (AccessibilityOnly) layout() {}

// Join returns a row for every record, with no Mark.
func (l AccessibilityOnly) Join() *Joined {
	rows := make([]*Row, 0, len(l.Accessibility)+len(l.Alt))

	for _, records := range [][]*types.ExperimentRecord{l.Accessibility, l.Alt} {
		for _, r := range records {
			rows = append(rows, &Row{Key: r.JoinKey, Accessibility: r})
		}
	}

	return &Joined{Rows: rows}
}

// AccessibilityWithMark is the layout with an accessibility table and a
// histone mark table.
type AccessibilityWithMark struct {
	Accessibility []*types.ExperimentRecord
	Mark          []*types.ExperimentRecord
}

func (AccessibilityWithMark) layout() {}

// Join inner joins the accessibility and mark records on their JoinKeys.
func (l AccessibilityWithMark) Join() *Joined {
	pairs, unmatchedAcc, unmatchedMark := innerJoin(l.Accessibility, l.Mark)

	return &Joined{
		Rows:                   pairsToRows(pairs),
		HasMark:                true,
		UnmatchedAccessibility: unmatchedAcc,
		UnmatchedMark:          unmatchedMark,
	}
}

// AccessibilityWithMarkAndAlt is the layout with an accessibility table, a
// histone mark table, and a second accessibility table (eg. ATAC-seq alongside
// DNase-seq).
type AccessibilityWithMarkAndAlt struct {
	Accessibility []*types.ExperimentRecord
	Mark          []*types.ExperimentRecord
	Alt           []*types.ExperimentRecord
}

func (AccessibilityWithMarkAndAlt) layout() {}

// Join inner joins each accessibility table with the mark table, and returns
// the rows of the Accessibility join followed by the rows of the Alt join. The
// same condition can therefore appear once per accessibility assay.
//
// Unmatched counts are of accessibility records in either table, and of mark
// records that matched neither.
func (l AccessibilityWithMarkAndAlt) Join() *Joined {
	pairs, unmatchedAcc, _ := innerJoin(l.Accessibility, l.Mark)
	altPairs, unmatchedAlt, _ := innerJoin(l.Alt, l.Mark)

	all := append(pairs, altPairs...)
	matchedMark := make(map[*types.ExperimentRecord]bool)

	for _, p := range all {
		matchedMark[p[1]] = true
	}

	return &Joined{
		Rows:                   pairsToRows(all),
		HasMark:                true,
		UnmatchedAccessibility: unmatchedAcc + unmatchedAlt,
		UnmatchedMark:          len(l.Mark) - len(matchedMark),
	}
}

// NewLayout returns the Layout appropriate for the given tables. A nil mark or
// alt means that assay was not supplied.
func NewLayout(accessibility, mark, alt []*types.ExperimentRecord) Layout {
	switch {
	case mark == nil:
		return AccessibilityOnly{Accessibility: accessibility, Alt: alt}
	case alt == nil:
		return AccessibilityWithMark{Accessibility: accessibility, Mark: mark}
	default:
		return AccessibilityWithMarkAndAlt{Accessibility: accessibility, Mark: mark, Alt: alt}
	}
}

type pair [2]*types.ExperimentRecord

// innerJoin pairs every left record with every right record that has the same
// JoinKey, in left order and then right order. It also returns the number of
// left and right records that had no partner.
func innerJoin(left, right []*types.ExperimentRecord) ([]pair, int, int) {
	byKey := make(map[string][]*types.ExperimentRecord, len(right))

	for _, r := range right {
		k := r.JoinKey.Key()
		byKey[k] = append(byKey[k], r)
	}

	var pairs []pair

	matchedKeys := make(map[string]bool)
	unmatchedLeft := 0

	for _, l := range left {
		k := l.JoinKey.Key()

		partners := byKey[k]
		if len(partners) == 0 {
			unmatchedLeft++

			continue
		}

		matchedKeys[k] = true

		for _, r := range partners {
			pairs = append(pairs, pair{l, r})
		}
	}

	unmatchedRight := 0

	for k, rs := range byKey {
		if !matchedKeys[k] {
			unmatchedRight += len(rs)
		}
	}

	return pairs, unmatchedLeft, unmatchedRight
}

func pairsToRows(pairs []pair) []*Row {
	rows := make([]*Row, len(pairs))

	for i, p := range pairs {
		rows[i] = &Row{Key: p[0].JoinKey, Accessibility: p[0], Mark: p[1]}
	}

	return rows
}
