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

// package fixture builds ENCODE-style report files for tests.

package fixture

import (
	"os"
	"path/filepath"
	"strings"
)

const filePerm = 0600

// FileReportHeader is the header of a file report, including columns that the
// readers ignore.
var FileReportHeader = []string{ //nolint:gochecknoglobals
	"File accession", "File format", "File type", "Output type",
	"Experiment accession", "Assay", "Biosample term name", "Biosample organism",
	"Biosample treatments", "Biosample treatments amount", "Biosample treatments duration",
	"Biosample genetic modifications methods", "Biosample genetic modifications categories",
	"Biosample genetic modifications targets", "Biosample genetic modifications gene targets",
	"Biosample summary", "Biological replicate(s)", "Technical replicate(s)", "Read length",
	"Run type", "Paired end", "Lab", "File download URL", "File assembly", "Genome annotation",
	"File Status",
}

// Defaults are the file report values used for columns a row doesn't set.
var Defaults = map[string]string{ //nolint:gochecknoglobals
	"File format":             "bam",
	"File type":               "bam",
	"Output type":             "alignments",
	"Assay":                   "DNase-seq",
	"Biosample term name":     "K562",
	"Biosample organism":      "Homo sapiens",
	"Biosample summary":       "Homo sapiens K562",
	"Biological replicate(s)": "1",
	"Technical replicate(s)":  "1_1",
	"Run type":                "single-ended",
	"Lab":                     "ENCODE Processing Pipeline",
	"File assembly":           "GRCh38",
	"Genome annotation":       "V29",
	"File Status":             "released",
}

// Row is a set of column values; unset columns take Defaults.
type Row map[string]string

// FileReport returns the contents of a file report with the given rows.
func FileReport(rows ...Row) string {
	return report(FileReportHeader, rows)
}

func report(header []string, rows []Row) string {
	var b strings.Builder

	b.WriteString(strings.Join(header, "\t"))
	b.WriteString("\n")

	for _, row := range rows {
		fields := make([]string, len(header))

		for i, col := range header {
			v, ok := row[col]
			if !ok {
				v = Defaults[col]
			}

			fields[i] = v
		}

		b.WriteString(strings.Join(fields, "\t"))
		b.WriteString("\n")
	}

	return b.String()
}

// RunReport returns the contents of a FASTQ file report with the given rows.
func RunReport(rows ...Row) string {
	fastqRows := make([]Row, len(rows))

	for i, row := range rows {
		fastqRows[i] = Row{"File format": "fastq", "File type": "fastq", "Output type": "reads"}
		for k, v := range row {
			fastqRows[i][k] = v
		}
	}

	return report(FileReportHeader, fastqRows)
}

// Catalog returns the contents of a header-less master catalog, where each
// given entry is {accession, biosample name, stage}.
func Catalog(entries ...[3]string) string {
	var b strings.Builder

	for _, e := range entries {
		fields := make([]string, 22)
		fields[0] = "/experiments/" + e[0] + "/"
		fields[1] = e[0]
		fields[2] = "DNase-seq"
		fields[6] = e[1]
		fields[20] = e[2]

		b.WriteString(strings.Join(fields, "\t"))
		b.WriteString("\n")
	}

	return b.String()
}

// Write writes contents to a file called name in dir and returns its path.
func Write(dir, name, contents string) (string, error) {
	path := filepath.Join(dir, name)

	return path, os.WriteFile(path, []byte(contents), filePerm)
}
