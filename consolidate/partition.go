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

import "github.com/wtsi-hgi/encode-lookup/types"

// RunTypeLists holds, per run type, the distinct file accessions with that run
// type.
type RunTypeLists map[types.RunType][]string

// Partition returns, for each of types.RunTypes, the distinct accessibility
// file accessions of Full rows with that run type, followed by the distinct
// mark file accessions with that run type. No accession appears twice in one
// list. An accession can appear in more than one list if its run type differs
// between rows.
func (r *Result) Partition() RunTypeLists {
	lists := make(RunTypeLists, len(types.RunTypes))

	for _, rt := range types.RunTypes {
		seen := make(map[string]bool)
		accessions := []string{}

		for _, a := range r.Assays() {
			for _, row := range r.Full {
				rec := row.Side(a)
				if rec.RunType != rt || seen[rec.FileAccession] {
					continue
				}

				seen[rec.FileAccession] = true
				accessions = append(accessions, rec.FileAccession)
			}
		}

		lists[rt] = accessions
	}

	return lists
}
