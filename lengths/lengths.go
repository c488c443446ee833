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

// package lengths associates run-level read lengths with experiment records.

package lengths

import (
	"strconv"
	"strings"

	"github.com/wtsi-hgi/encode-lookup/types"
)

// Map returns copies of the given records, in the same order, with
// FragmentLength set from the runs of the same experiment.
//
// Where some of an experiment's runs share a biological replicate with a
// record, only those runs are considered for it. The first considered run with
// a numeric read length supplies the length; records with none keep a nil
// FragmentLength. Records with a blank run type take the run type of the first
// considered run that has one.
//
// Every record is kept: an experiment with several files gives several output
// records.
func Map(records []*types.ExperimentRecord, runs []*types.RunRecord) []*types.ExperimentRecord {
	byExperiment := make(map[string][]*types.RunRecord)

	for _, run := range runs {
		byExperiment[run.ExperimentAccession] = append(byExperiment[run.ExperimentAccession], run)
	}

	mapped := make([]*types.ExperimentRecord, len(records))

	for i, record := range records {
		mapped[i] = mapRecord(record, candidateRuns(record, byExperiment[record.ExperimentAccession]))
	}

	return mapped
}

func candidateRuns(record *types.ExperimentRecord, runs []*types.RunRecord) []*types.RunRecord {
	var sameReplicate []*types.RunRecord

	for _, run := range runs {
		if record.SharesBiologicalReplicate(run.BiologicalReplicates) {
			sameReplicate = append(sameReplicate, run)
		}
	}

	if len(sameReplicate) > 0 {
		return sameReplicate
	}

	return runs
}

func mapRecord(record *types.ExperimentRecord, runs []*types.RunRecord) *types.ExperimentRecord {
	mapped := record.Clone()
	mapped.FragmentLength = nil

	for _, run := range runs {
		if length, ok := parseLength(run.ReadLength); ok {
			mapped.FragmentLength = &length

			break
		}
	}

	if mapped.RunType != types.RunTypeUnknown {
		return mapped
	}

	for _, run := range runs {
		if run.RunType != types.RunTypeUnknown {
			mapped.RunType = run.RunType

			break
		}
	}

	return mapped
}

func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
