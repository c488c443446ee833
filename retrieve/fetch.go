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

// package retrieve downloads the data files referenced by consolidated
// metadata.

package retrieve

import (
	"bytes"
	"context"
	"net/url"
	"os/exec"
	"path"
	"strings"

	"github.com/wtsi-hgi/encode-lookup/consolidate"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrFilenameCollision = Error("another url in the batch has the same file name")
	ErrNoFilename        = Error("url has no file name")
	ErrUnsupportedScheme = Error("unsupported url scheme")

	DefaultFetchProgram = "wget"
)

// Links returns the distinct, non-blank download URLs of the result's Full
// rows: those of the accessibility assay in row order, then those of the mark
// assay.
func Links(res *consolidate.Result) []string {
	seen := make(map[string]bool)

	var links []string

	for _, a := range res.Assays() {
		for _, row := range res.Full {
			u := row.Side(a).DownloadURL
			if u == "" || seen[u] {
				continue
			}

			seen[u] = true
			links = append(links, u)
		}
	}

	return links
}

// Filename returns the name of the file a URL will be downloaded to: the last
// element of its path.
func Filename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", ErrNoFilename
	}

	return name, nil
}

// Fetcher retrieves a URL in to a directory.
type Fetcher interface {
	// Fetch retrieves the url in to dir, returning any diagnostic output of the
	// retrieval mechanism.
	Fetch(ctx context.Context, url, dir string) ([]byte, error)
}

// CommandFetcher fetches by running an external program.
type CommandFetcher struct {
	// Program is the executable to run, looked up in PATH if not absolute.
	Program string

	// Args returns the arguments for Program to retrieve url in to dir. If nil,
	// wget style arguments "<url> -P <dir>" are used.
	Args func(url, dir string) []string
}

// NewCommandFetcher returns a CommandFetcher running the given program with
// wget style arguments. A blank program means DefaultFetchProgram.
func NewCommandFetcher(program string) CommandFetcher {
	if program == "" {
		program = DefaultFetchProgram
	}

	return CommandFetcher{Program: program}
}

func wgetArgs(url, dir string) []string {
	return []string{url, "-P", dir}
}

func (c CommandFetcher) args(url, dir string) []string {
	if c.Args == nil {
		return wgetArgs(url, dir)
	}

	return c.Args(url, dir)
}

// CommandLine returns the command line that Fetch() would run.
func (c CommandFetcher) CommandLine(url, dir string) string {
	return strings.Join(append([]string{c.Program}, c.args(url, dir)...), " ")
}

// Fetch runs the program, returning its STDERR. A non-zero exit is returned as
// an error.
func (c CommandFetcher) Fetch(ctx context.Context, url, dir string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Program, c.args(url, dir)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stderr.Bytes(), err
}

// SchemeFetcher picks a Fetcher by the scheme of each URL.
type SchemeFetcher struct {
	// Default is used for schemes not in ByScheme. If nil, such URLs fail with
	// ErrUnsupportedScheme.
	Default Fetcher

	ByScheme map[string]Fetcher
}

// Fetch passes the url to the Fetcher for its scheme.
func (s SchemeFetcher) Fetch(ctx context.Context, rawURL, dir string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	if f, ok := s.ByScheme[strings.ToLower(u.Scheme)]; ok {
		return f.Fetch(ctx, rawURL, dir)
	}

	if s.Default == nil {
		return nil, ErrUnsupportedScheme
	}

	return s.Default.Fetch(ctx, rawURL, dir)
}
