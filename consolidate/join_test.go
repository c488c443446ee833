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
	"sort"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/encode-lookup/types"
)

func newRecord(exp, file, biosample string, rt types.RunType) *types.ExperimentRecord {
	return &types.ExperimentRecord{
		JoinKey: types.JoinKey{
			BiosampleTermName: biosample,
			BiosampleOrganism: "Homo sapiens",
			FileAssembly:      "GRCh38",
			FileFormat:        "bam",
			OutputType:        "alignments",
			BiosampleSummary:  biosample,
		},
		ExperimentAccession: exp,
		FileAccession:       file,
		RunType:             rt,
		DownloadURL:         "https://example.org/" + file + ".bam",
	}
}

func pairFiles(pairs []pair, swap bool) []string {
	out := make([]string, len(pairs))

	for i, p := range pairs {
		a, b := p[0].FileAccession, p[1].FileAccession
		if swap {
			a, b = b, a
		}

		out[i] = a + ":" + b
	}

	sort.Strings(out)

	return out
}

func TestJoin(t *testing.T) {
	Convey("Given accessibility and mark records", t, func() {
		acc := []*types.ExperimentRecord{
			newRecord("ENCSR_D1", "ENCFF_D1", "K562", types.RunTypeSingle),
			newRecord("ENCSR_D2", "ENCFF_D2", "K562", types.RunTypePaired),
			newRecord("ENCSR_D3", "ENCFF_D3", "HepG2", types.RunTypeSingle),
			newRecord("ENCSR_D4", "ENCFF_D4", "A549", types.RunTypeSingle),
		}
		mark := []*types.ExperimentRecord{
			newRecord("ENCSR_H1", "ENCFF_H1", "K562", types.RunTypeSingle),
			newRecord("ENCSR_H2", "ENCFF_H2", "HepG2", types.RunTypePaired),
			newRecord("ENCSR_H3", "ENCFF_H3", "GM12878", types.RunTypePaired),
		}

		Convey("The inner join keeps only pairs with identical JoinKeys, in left order", func() {
			pairs, unmatchedLeft, unmatchedRight := innerJoin(acc, mark)
			So(pairFiles(pairs, false), ShouldResemble, []string{
				"ENCFF_D1:ENCFF_H1", "ENCFF_D2:ENCFF_H1", "ENCFF_D3:ENCFF_H2",
			})
			So(pairs[0][0].FileAccession, ShouldEqual, "ENCFF_D1")
			So(pairs[2][0].FileAccession, ShouldEqual, "ENCFF_D3")
			So(unmatchedLeft, ShouldEqual, 1)
			So(unmatchedRight, ShouldEqual, 1)

			Convey("And it is commutative in row content", func() {
				swapped, _, _ := innerJoin(mark, acc)
				So(pairFiles(swapped, true), ShouldResemble, pairFiles(pairs, false))
			})
		})

		Convey("A differing descriptor prevents a match", func() {
			treated := newRecord("ENCSR_H9", "ENCFF_H9", "K562", types.RunTypeSingle)
			treated.Treatments = "sorafenib"

			pairs, _, unmatchedRight := innerJoin(acc, []*types.ExperimentRecord{treated})
			So(pairs, ShouldBeEmpty)
			So(unmatchedRight, ShouldEqual, 1)
		})

		Convey("Without a mark table, accessibility rows are kept unjoined", func() {
			layout := NewLayout(acc, nil, nil)
			So(layout, ShouldHaveSameTypeAs, AccessibilityOnly{})

			j := layout.Join()
			So(j.HasMark, ShouldBeFalse)
			So(j.Rows, ShouldHaveLength, len(acc))
			So(j.Assays(), ShouldResemble, []types.Assay{types.AssayAccessibility})

			for i, row := range j.Rows {
				So(row.Accessibility, ShouldEqual, acc[i])
				So(row.Mark, ShouldBeNil)
				So(row.Identity(), ShouldEqual, "Accessibility")
			}
		})

		Convey("An alt table without a mark table is appended as more accessibility rows", func() {
			alt := []*types.ExperimentRecord{newRecord("ENCSR_A1", "ENCFF_A1", "K562", types.RunTypePaired)}

			j := NewLayout(acc, nil, alt).Join()
			So(j.Rows, ShouldHaveLength, len(acc)+1)
			So(j.Rows[len(acc)].Accessibility, ShouldEqual, alt[0])
		})

		Convey("With a mark table, rows are inner joined", func() {
			layout := NewLayout(acc, mark, nil)
			So(layout, ShouldHaveSameTypeAs, AccessibilityWithMark{})

			j := layout.Join()
			So(j.HasMark, ShouldBeTrue)
			So(j.Rows, ShouldHaveLength, 3)
			So(j.UnmatchedAccessibility, ShouldEqual, 1)
			So(j.UnmatchedMark, ShouldEqual, 1)
			So(j.Rows[0].Mark.FileAccession, ShouldEqual, "ENCFF_H1")
			So(j.Rows[0].Identity(), ShouldEqual, "Accessibility+H3K27ac")
			So(j.Rows[0].Side(types.AssayMark), ShouldEqual, j.Rows[0].Mark)
		})

		Convey("With mark and alt tables, both joins are concatenated", func() {
			alt := []*types.ExperimentRecord{
				newRecord("ENCSR_A1", "ENCFF_A1", "GM12878", types.RunTypePaired),
				newRecord("ENCSR_A2", "ENCFF_A2", "K562", types.RunTypePaired),
				newRecord("ENCSR_A3", "ENCFF_A3", "Liver", types.RunTypePaired),
			}

			layout := NewLayout(acc, mark, alt)
			So(layout, ShouldHaveSameTypeAs, AccessibilityWithMarkAndAlt{})

			j := layout.Join()
			So(j.Rows, ShouldHaveLength, 5)
			So(j.Rows[3].Accessibility.FileAccession, ShouldEqual, "ENCFF_A1")
			So(j.Rows[3].Mark.FileAccession, ShouldEqual, "ENCFF_H3")
			So(j.Rows[4].Accessibility.FileAccession, ShouldEqual, "ENCFF_A2")
			So(j.UnmatchedAccessibility, ShouldEqual, 2)
			So(j.UnmatchedMark, ShouldEqual, 0)
		})
	})
}
