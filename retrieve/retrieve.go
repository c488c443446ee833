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

package retrieve

import (
	"context"
	"os"

	"github.com/grailbio/base/traverse"
	"github.com/inconshreveable/log15"
)

const dirPerm = 0755

// Result is the outcome of retrieving one URL.
type Result struct {
	URL string

	// Filename is the name of the file in the destination directory; blank if
	// the URL has none.
	Filename string

	// Stderr is the diagnostic output of the fetch, kept even on success.
	Stderr []byte

	Err error
}

type task struct {
	url      string
	filename string
	skip     error
}

// Retriever retrieves batches of URLs with a Fetcher.
type Retriever struct {
	Fetcher Fetcher

	// Parallel enables fetching with Workers concurrent fetches. Otherwise, or
	// if Workers is less than 2, URLs are fetched one at a time in order.
	Parallel bool
	Workers  int

	// Logger, if set, receives a message before each fetch and for each
	// failure.
	Logger log15.Logger
}

// New returns a Retriever that uses the given Fetcher, with up to workers
// concurrent fetches if parallel is true.
func New(f Fetcher, parallel bool, workers int) *Retriever {
	return &Retriever{Fetcher: f, Parallel: parallel, Workers: workers}
}

func (r *Retriever) logger() log15.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}

// Retrieve fetches every URL in to dir, which is created if necessary. The only
// error returned is a failure to create dir; failures of individual fetches are
// in the returned Results, which are in the same order as urls.
//
// URLs whose Filename() is the same as that of an earlier URL in the batch are
// not fetched and have Err ErrFilenameCollision. Existing files are not
// checked for.
//
// In parallel mode all fetches have finished by the time this returns.
func (r *Retriever) Retrieve(ctx context.Context, urls []string, dir string) ([]Result, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, err
	}

	tasks := planTasks(urls)
	results := make([]Result, len(tasks))
	log := r.logger()

	do := func(i int) error {
		results[i] = r.fetch(ctx, log, tasks[i], dir)

		return nil
	}

	if !r.Parallel || r.Workers < 2 {
		for i := range tasks {
			do(i) //nolint:errcheck
		}

		return results, nil
	}

	return results, traverse.Limit(r.Workers).Each(len(tasks), do)
}

func planTasks(urls []string) []task {
	tasks := make([]task, len(urls))
	owners := make(map[string]bool, len(urls))

	for i, u := range urls {
		tasks[i].url = u

		name, err := Filename(u)
		if err != nil {
			tasks[i].skip = err

			continue
		}

		tasks[i].filename = name

		if owners[name] {
			tasks[i].skip = ErrFilenameCollision

			continue
		}

		owners[name] = true
	}

	return tasks
}

func (r *Retriever) fetch(ctx context.Context, log log15.Logger, t task, dir string) Result {
	res := Result{URL: t.url, Filename: t.filename, Err: t.skip}

	if t.skip != nil {
		log.Warn("not retrieving", "url", t.url, "err", t.skip)

		return res
	}

	if c, ok := r.Fetcher.(CommandFetcher); ok {
		log.Info("running: " + c.CommandLine(t.url, dir))
	} else {
		log.Info("retrieving", "url", t.url, "dir", dir)
	}

	res.Stderr, res.Err = r.Fetcher.Fetch(ctx, t.url, dir)
	if res.Err != nil {
		log.Warn("retrieval failed", "url", t.url, "err", res.Err, "stderr", string(res.Stderr))
	}

	return res
}

// Failed returns the results that have an error.
func Failed(results []Result) []Result {
	var failed []Result

	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}

	return failed
}
