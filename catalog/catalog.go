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

// package catalog normalises biosample names and developmental stages of
// experiment records against a master catalog of ENCODE experiments.

package catalog

import (
	"context"
	"strings"
	"unicode"

	"github.com/wtsi-hgi/encode-lookup/encode"
	"github.com/wtsi-hgi/encode-lookup/types"
)

const nameConnector = '_'

// Source provides master catalog entries.
type Source interface {
	// Entries returns every entry in the catalog.
	Entries(ctx context.Context) ([]types.CatalogEntry, error)
}

// FileSource is a Source backed by a header-less catalog file on disk.
type FileSource string

// Entries reads the catalog file. Errors wrap encode.ErrFatalInput.
func (f FileSource) Entries(_ context.Context) ([]types.CatalogEntry, error) {
	return encode.LoadCatalog(string(f))
}

// Catalog maps experiment accessions to their authoritative biosample name and
// stage.
type Catalog struct {
	entries map[string]types.CatalogEntry
}

// New returns a Catalog of the given entries. Where an accession appears more
// than once, the first entry is used.
func New(entries []types.CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[string]types.CatalogEntry, len(entries))}

	for _, e := range entries {
		if _, exists := c.entries[e.Accession]; !exists {
			c.entries[e.Accession] = e
		}
	}

	return c
}

// FromSource returns a Catalog of all the entries in the given Source.
func FromSource(ctx context.Context, s Source) (*Catalog, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}

	return New(entries), nil
}

// Len returns the number of distinct accessions in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the normalised biosample summary and stage for the given
// experiment. Experiments in the catalog get the catalog's name, with each
// whitespace character replaced by an underscore, and stage. Others get the
// given fallback name and StageUnknown. The bool says if the accession was
// found.
func (c *Catalog) Lookup(accession, fallbackName string) (string, string, bool) {
	e, ok := c.entries[accession]
	if !ok {
		return fallbackName, types.StageUnknown, false
	}

	return connectWhitespace(e.BiosampleName), e.Stage, true
}

func connectWhitespace(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return nameConnector
		}

		return r
	}, name)
}

// Normalize returns copies of the given records with BiosampleSummary and
// BiosampleStage set by Lookup() of their experiment accession, falling back
// to their own BiosampleTermName.
func Normalize(records []*types.ExperimentRecord, c *Catalog) []*types.ExperimentRecord {
	normalized := make([]*types.ExperimentRecord, len(records))

	for i, r := range records {
		n := r.Clone()
		n.BiosampleSummary, n.BiosampleStage, _ = c.Lookup(r.ExperimentAccession, r.BiosampleTermName)
		normalized[i] = n
	}

	return normalized
}
