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

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/encode-lookup/encode"
	"github.com/wtsi-hgi/encode-lookup/internal/fixture"
	"github.com/wtsi-hgi/encode-lookup/types"
)

func TestCatalog(t *testing.T) {
	Convey("Given a catalog", t, func() {
		c := New([]types.CatalogEntry{
			{Accession: "ENCSR1", BiosampleName: "K562  treated with\tsorafenib", Stage: "child"},
			{Accession: "ENCSR2", BiosampleName: "GM12878", Stage: "adult"},
			{Accession: "ENCSR1", BiosampleName: "ignored", Stage: "ignored"},
		})
		So(c.Len(), ShouldEqual, 2)

		Convey("You can look up normalised names and stages", func() {
			name, stage, found := c.Lookup("ENCSR1", "K562")
			So(found, ShouldBeTrue)
			So(name, ShouldEqual, "K562__treated_with_sorafenib")
			So(stage, ShouldEqual, "child")

			name, stage, found = c.Lookup("ENCSR9", "HepG2")
			So(found, ShouldBeFalse)
			So(name, ShouldEqual, "HepG2")
			So(stage, ShouldEqual, types.StageUnknown)
		})

		Convey("You can normalise records", func() {
			records := []*types.ExperimentRecord{
				{ExperimentAccession: "ENCSR1", FileAccession: "ENCFF1",
					JoinKey: types.JoinKey{BiosampleTermName: "K562", BiosampleSummary: "raw"}},
				{ExperimentAccession: "ENCSR1", FileAccession: "ENCFF2",
					JoinKey: types.JoinKey{BiosampleTermName: "K562", BiosampleSummary: "raw"}},
				{ExperimentAccession: "ENCSR3", FileAccession: "ENCFF3",
					JoinKey: types.JoinKey{BiosampleTermName: "HepG2", BiosampleSummary: "raw"}},
			}

			normalized := Normalize(records, c)
			So(normalized, ShouldHaveLength, 3)

			for _, n := range normalized[:2] {
				So(n.BiosampleSummary, ShouldEqual, "K562__treated_with_sorafenib")
				So(n.BiosampleStage, ShouldEqual, "child")
			}

			So(normalized[2].BiosampleSummary, ShouldEqual, "HepG2")
			So(normalized[2].BiosampleStage, ShouldEqual, types.StageUnknown)

			So(records[0].BiosampleSummary, ShouldEqual, "raw")
			So(records[0].BiosampleStage, ShouldBeEmpty)
		})

		Convey("Matching is exact", func() {
			_, stage, found := c.Lookup("encsr1", "K562")
			So(found, ShouldBeFalse)
			So(stage, ShouldEqual, types.StageUnknown)
		})
	})

	Convey("You can build a catalog from a file", t, func() {
		dir := t.TempDir()

		path, err := fixture.Write(dir, "catalog.tsv", fixture.Catalog(
			[3]string{"ENCSR1", "K562 cell line", "child"},
		))
		So(err, ShouldBeNil)

		c, err := FromSource(context.Background(), FileSource(path))
		So(err, ShouldBeNil)
		So(c.Len(), ShouldEqual, 1)

		name, _, _ := c.Lookup("ENCSR1", "")
		So(name, ShouldEqual, "K562_cell_line")

		_, err = FromSource(context.Background(), FileSource(filepath.Join(dir, "missing")))
		So(errors.Is(err, encode.ErrFatalInput), ShouldBeTrue)
	})
}
