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

package types

import (
	"slices"
	"strings"
)

const joinKeySeparator = "\x1f"

// JoinKeyColumns are the ENCODE column names of the JoinKey descriptors, in
// the order JoinKey.Values() returns them.
var JoinKeyColumns = []string{ //nolint:gochecknoglobals
	"Biosample term name",
	"Biosample organism",
	"Biosample treatments",
	"Biosample treatments amount",
	"Biosample treatments duration",
	"Biosample genetic modifications methods",
	"Biosample genetic modifications categories",
	"Biosample genetic modifications targets",
	"Biosample genetic modifications gene targets",
	"File assembly",
	"Genome annotation",
	"File format",
	"File type",
	"Output type",
	"Lab",
	"Biosample summary",
}

// JoinKey holds the biological and technical descriptors that must be identical
// for records of different assays to be considered the same biological
// condition.
type JoinKey struct {
	BiosampleTermName               string
	BiosampleOrganism               string
	Treatments                      string
	TreatmentsAmount                string
	TreatmentsDuration              string
	GeneticModificationsMethods     string
	GeneticModificationsCategories  string
	GeneticModificationsTargets     string
	GeneticModificationsGeneTargets string
	FileAssembly                    string
	GenomeAnnotation                string
	FileFormat                      string
	FileType                        string
	OutputType                      string
	Lab                             string
	BiosampleSummary                string
}

// Values returns the descriptors in JoinKeyColumns order.
func (k JoinKey) Values() []string {
	return []string{
		k.BiosampleTermName,
		k.BiosampleOrganism,
		k.Treatments,
		k.TreatmentsAmount,
		k.TreatmentsDuration,
		k.GeneticModificationsMethods,
		k.GeneticModificationsCategories,
		k.GeneticModificationsTargets,
		k.GeneticModificationsGeneTargets,
		k.FileAssembly,
		k.GenomeAnnotation,
		k.FileFormat,
		k.FileType,
		k.OutputType,
		k.Lab,
		k.BiosampleSummary,
	}
}

// Key returns a string that is equal for two JoinKeys exactly when all their
// descriptors are equal.
func (k JoinKey) Key() string {
	return strings.Join(k.Values(), joinKeySeparator)
}

// ExperimentRecord is one file of an ENCODE experiment. Experiment accessions
// are shared by all files of an experiment; file accessions are unique.
type ExperimentRecord struct {
	JoinKey

	ExperimentAccession  string
	FileAccession        string
	Assay                string
	BiologicalReplicates []string
	TechnicalReplicates  []string
	RunType              RunType
	DownloadURL          string

	// FragmentLength is nil when no run-level length is known.
	FragmentLength *float64

	// BiosampleStage is set by catalog normalisation.
	BiosampleStage string
}

// Clone returns a deep copy of the record, so that pipeline stages can return
// new records without altering their input.
func (r *ExperimentRecord) Clone() *ExperimentRecord {
	c := *r
	c.BiologicalReplicates = slices.Clone(r.BiologicalReplicates)
	c.TechnicalReplicates = slices.Clone(r.TechnicalReplicates)

	if r.FragmentLength != nil {
		length := *r.FragmentLength
		c.FragmentLength = &length
	}

	return &c
}

// SharesBiologicalReplicate returns true if any of the given replicates is
// also one of the record's biological replicates.
func (r *ExperimentRecord) SharesBiologicalReplicate(replicates []string) bool {
	for _, rep := range replicates {
		if slices.Contains(r.BiologicalReplicates, rep) {
			return true
		}
	}

	return false
}

// RunRecord is one sequencing run (FASTQ file) of an ENCODE experiment.
type RunRecord struct {
	ExperimentAccession  string
	FileAccession        string
	BiologicalReplicates []string
	ReadLength           string
	RunType              RunType
}

// CatalogEntry holds the authoritative biosample name and developmental stage
// of an experiment in the master catalog.
type CatalogEntry struct {
	Accession     string
	BiosampleName string
	Stage         string
}

// SplitReplicates splits an ENCODE replicate cell like "1, 2" in to its
// values. Blank cells give nil.
func SplitReplicates(cell string) []string {
	var reps []string

	for _, rep := range strings.Split(cell, ",") {
		rep = strings.TrimSpace(rep)
		if rep != "" {
			reps = append(reps, rep)
		}
	}

	return reps
}
