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

// package encode reads the metadata reports that can be downloaded from the
// ENCODE portal.

package encode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/tsv"
	"github.com/wtsi-hgi/encode-lookup/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrFatalInput is wrapped by all errors caused by a required input being
	// missing or unparsable.
	ErrFatalInput = Error("required input could not be read")

	commentChar = '#'
)

// fileReportRow is a row of an ENCODE file report. Other columns in the report
// are ignored.
type fileReportRow struct {
	FileAccession                   string `tsv:"File accession"`
	ExperimentAccession             string `tsv:"Experiment accession"`
	Assay                           string `tsv:"Assay"`
	BiosampleTermName               string `tsv:"Biosample term name"`
	BiosampleOrganism               string `tsv:"Biosample organism"`
	Treatments                      string `tsv:"Biosample treatments"`
	TreatmentsAmount                string `tsv:"Biosample treatments amount"`
	TreatmentsDuration              string `tsv:"Biosample treatments duration"`
	GeneticModificationsMethods     string `tsv:"Biosample genetic modifications methods"`
	GeneticModificationsCategories  string `tsv:"Biosample genetic modifications categories"`
	GeneticModificationsTargets     string `tsv:"Biosample genetic modifications targets"`
	GeneticModificationsGeneTargets string `tsv:"Biosample genetic modifications gene targets"`
	FileAssembly                    string `tsv:"File assembly"`
	GenomeAnnotation                string `tsv:"Genome annotation"`
	FileFormat                      string `tsv:"File format"`
	FileType                        string `tsv:"File type"`
	OutputType                      string `tsv:"Output type"`
	Lab                             string `tsv:"Lab"`
	BiosampleSummary                string `tsv:"Biosample summary"`
	BiologicalReplicates            string `tsv:"Biological replicate(s)"`
	TechnicalReplicates             string `tsv:"Technical replicate(s)"`
	RunType                         string `tsv:"Run type"`
	DownloadURL                     string `tsv:"File download URL"`
}

func (row *fileReportRow) toRecord() (*types.ExperimentRecord, error) {
	runType, err := types.StringToRunType(row.RunType)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w: %q", row.FileAccession, err, row.RunType)
	}

	return &types.ExperimentRecord{
		JoinKey: types.JoinKey{
			BiosampleTermName:               row.BiosampleTermName,
			BiosampleOrganism:               row.BiosampleOrganism,
			Treatments:                      row.Treatments,
			TreatmentsAmount:                row.TreatmentsAmount,
			TreatmentsDuration:              row.TreatmentsDuration,
			GeneticModificationsMethods:     row.GeneticModificationsMethods,
			GeneticModificationsCategories:  row.GeneticModificationsCategories,
			GeneticModificationsTargets:     row.GeneticModificationsTargets,
			GeneticModificationsGeneTargets: row.GeneticModificationsGeneTargets,
			FileAssembly:                    row.FileAssembly,
			GenomeAnnotation:                row.GenomeAnnotation,
			FileFormat:                      row.FileFormat,
			FileType:                        row.FileType,
			OutputType:                      row.OutputType,
			Lab:                             row.Lab,
			BiosampleSummary:                row.BiosampleSummary,
		},
		ExperimentAccession:  row.ExperimentAccession,
		FileAccession:        row.FileAccession,
		Assay:                row.Assay,
		BiologicalReplicates: types.SplitReplicates(row.BiologicalReplicates),
		TechnicalReplicates:  types.SplitReplicates(row.TechnicalReplicates),
		RunType:              runType,
		DownloadURL:          row.DownloadURL,
	}, nil
}

// runReportRow is a row of an ENCODE file report restricted to FASTQ files,
// as used for the run-level table.
type runReportRow struct {
	FileAccession        string `tsv:"File accession"`
	ExperimentAccession  string `tsv:"Experiment accession"`
	BiologicalReplicates string `tsv:"Biological replicate(s)"`
	ReadLength           string `tsv:"Read length"`
	RunType              string `tsv:"Run type"`
}

func newHeaderReader(r io.Reader) *tsv.Reader {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	tr.LazyQuotes = true
	tr.Comment = commentChar

	return tr
}

// ReadExperiments parses an ENCODE file report in to ExperimentRecords, in file
// order.
func ReadExperiments(r io.Reader) ([]*types.ExperimentRecord, error) {
	tr := newHeaderReader(r)

	var records []*types.ExperimentRecord

	for {
		var row fileReportRow
		if err := tr.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// ReadRuns parses the FASTQ file report of an assay in to RunRecords, in file
// order.
func ReadRuns(r io.Reader) ([]*types.RunRecord, error) {
	tr := newHeaderReader(r)

	var runs []*types.RunRecord

	for {
		var row runReportRow
		if err := tr.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		runType, err := types.StringToRunType(row.RunType)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w: %q", row.FileAccession, err, row.RunType)
		}

		runs = append(runs, &types.RunRecord{
			ExperimentAccession:  row.ExperimentAccession,
			FileAccession:        row.FileAccession,
			BiologicalReplicates: types.SplitReplicates(row.BiologicalReplicates),
			ReadLength:           row.ReadLength,
			RunType:              runType,
		})
	}

	return runs, nil
}

// Assay holds the two tables loaded for one assay type.
type Assay struct {
	Experiments []*types.ExperimentRecord
	Runs        []*types.RunRecord
}

// LoadAssay reads the experiment (file report) table at metadataPath and the
// run-level table at runsPath. Errors wrap ErrFatalInput.
func LoadAssay(metadataPath, runsPath string) (*Assay, error) {
	experiments, err := readFile(metadataPath, ReadExperiments)
	if err != nil {
		return nil, err
	}

	runs, err := readFile(runsPath, ReadRuns)
	if err != nil {
		return nil, err
	}

	return &Assay{Experiments: experiments, Runs: runs}, nil
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrFatalInput, err)
	}

	defer f.Close()

	result, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrFatalInput, path, err)
	}

	return result, nil
}

// FilterAssembly returns the records whose File assembly is the given genome
// assembly. A blank assembly returns all records.
func FilterAssembly(records []*types.ExperimentRecord, assembly string) []*types.ExperimentRecord {
	if assembly == "" {
		return records
	}

	kept := make([]*types.ExperimentRecord, 0, len(records))

	for _, r := range records {
		if r.FileAssembly == assembly {
			kept = append(kept, r)
		}
	}

	return kept
}
