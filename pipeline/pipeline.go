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

// package pipeline chains the loading, length mapping, normalisation, joining
// and consolidation of ENCODE assay tables, and writes the results.

package pipeline

import (
	"context"
	"fmt"

	"github.com/wtsi-hgi/encode-lookup/catalog"
	"github.com/wtsi-hgi/encode-lookup/consolidate"
	"github.com/wtsi-hgi/encode-lookup/encode"
	"github.com/wtsi-hgi/encode-lookup/lengths"
	"github.com/wtsi-hgi/encode-lookup/output"
	"github.com/wtsi-hgi/encode-lookup/retrieve"
	"github.com/wtsi-hgi/encode-lookup/types"
)

// AssayFiles are the two tables downloaded from ENCODE for one assay.
type AssayFiles struct {
	// Metadata is the file report of the processed (eg. bam) files.
	Metadata string

	// Runs is the file report of the fastq files of the same experiments.
	Runs string
}

// Inputs describes what Run() works on. Accessibility is required. Alt is a
// second accessibility assay, eg. ATAC-seq alongside DNase-seq. A nil Catalog
// leaves every record unmatched.
type Inputs struct {
	Accessibility  *AssayFiles
	Mark           *AssayFiles
	Alt            *AssayFiles
	Catalog        catalog.Source
	GenomeAssembly string
}

// Run loads the assays in the given inputs, keeps only records of the genome
// assembly, maps read lengths on to them, normalises their biosample names and
// stages against the catalog, joins the assays and consolidates the result.
//
// Only input that can't be read or parsed gives an error, which wraps
// encode.ErrFatalInput.
func Run(ctx context.Context, in Inputs) (*consolidate.Result, error) {
	if in.Accessibility == nil {
		return nil, fmt.Errorf("%w: no accessibility assay", encode.ErrFatalInput)
	}

	cat, err := loadCatalog(ctx, in.Catalog)
	if err != nil {
		return nil, err
	}

	acc, err := prepare(in.Accessibility, cat, in.GenomeAssembly)
	if err != nil {
		return nil, err
	}

	mark, err := prepare(in.Mark, cat, in.GenomeAssembly)
	if err != nil {
		return nil, err
	}

	alt, err := prepare(in.Alt, cat, in.GenomeAssembly)
	if err != nil {
		return nil, err
	}

	return consolidate.Consolidate(consolidate.NewLayout(acc, mark, alt).Join()), nil
}

func loadCatalog(ctx context.Context, src catalog.Source) (*catalog.Catalog, error) {
	if src == nil {
		return catalog.New(nil), nil
	}

	cat, err := catalog.FromSource(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog: %w", encode.ErrFatalInput, err)
	}

	return cat, nil
}

// prepare returns nil for nil files, which NewLayout() takes as an absent
// table.
func prepare(files *AssayFiles, cat *catalog.Catalog, assembly string) ([]*types.ExperimentRecord, error) {
	if files == nil {
		return nil, nil
	}

	a, err := encode.LoadAssay(files.Metadata, files.Runs)
	if err != nil {
		return nil, err
	}

	records := encode.FilterAssembly(a.Experiments, assembly)

	return catalog.Normalize(lengths.Map(records, a.Runs), cat), nil
}

// Write writes the lookup table, the full and unique metadata tables and the
// per run type accession lists of the result to outDir, returning the paths
// written to.
func Write(res *consolidate.Result, outDir string) ([]string, error) {
	lookup, err := output.WriteLookup(outDir, res)
	if err != nil {
		return nil, err
	}

	if err = output.WriteMetadata(outDir, res); err != nil {
		return nil, err
	}

	lists, err := output.WriteRunTypeLists(outDir, res.Partition())
	if err != nil {
		return nil, err
	}

	return append([]string{lookup}, lists...), nil
}

// Download writes the distinct download links of the result to outDir, then
// uses the Retriever to fetch them all in to dataDir. Failures to fetch
// individual files are in the returned results, not the error.
func Download(ctx context.Context, res *consolidate.Result, r *retrieve.Retriever,
	outDir, dataDir string) ([]retrieve.Result, error) {
	links := retrieve.Links(res)

	if _, err := output.WriteLinks(outDir, links); err != nil {
		return nil, err
	}

	return r.Retrieve(ctx, links, dataDir)
}
