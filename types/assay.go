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

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRunType = Error("invalid run type")

	// StageUnknown is the developmental stage given to records whose
	// experiment is not in the master catalog.
	StageUnknown = "unknown"
)

// RunType is the sequencing read layout of a file.
type RunType string

const (
	RunTypeSingle  RunType = "single-ended"
	RunTypePaired  RunType = "paired-ended"
	RunTypeUnknown RunType = ""
)

// RunTypes are the run type categories files are partitioned in to, in output
// order.
var RunTypes = []RunType{RunTypeSingle, RunTypePaired} //nolint:gochecknoglobals

// StringToRunType converts a string to a RunType. Blank strings are treated as
// RunTypeUnknown.
func StringToRunType(s string) (RunType, error) {
	switch RunType(s) {
	case RunTypeSingle:
		return RunTypeSingle, nil
	case RunTypePaired:
		return RunTypePaired, nil
	case RunTypeUnknown:
		return RunTypeUnknown, nil
	default:
		return RunTypeUnknown, ErrInvalidRunType
	}
}

// Title is the short form of the run type used in output file names, eg.
// "singleend".
func (r RunType) Title() string {
	switch r {
	case RunTypeSingle:
		return "singleend"
	case RunTypePaired:
		return "pairedend"
	default:
		return "unknown"
	}
}

// Assay is the role a table plays in the consolidation: the required
// chromatin accessibility assay (DNase-seq or ATAC-seq), or the histone mark
// assay (H3K27ac).
type Assay int

const (
	AssayAccessibility Assay = iota
	AssayMark
)

// Suffix is appended to the names of non-key columns to record which assay a
// value came from.
func (a Assay) Suffix() string {
	if a == AssayMark {
		return "_H3K27ac"
	}

	return "_Accessibility"
}

// String returns the assay role name, eg. "Accessibility".
func (a Assay) String() string {
	return a.Suffix()[1:]
}
