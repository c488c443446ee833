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
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/encode-lookup/consolidate"
	"github.com/wtsi-hgi/encode-lookup/types"
)

const errMock = Error("mock error")

// mockFetcher writes a file named after the url, and records concurrency.
type mockFetcher struct {
	delay   time.Duration
	fail    map[string]bool
	active  atomic.Int32
	maxSeen atomic.Int32

	mu      sync.Mutex
	fetched []string
}

func (m *mockFetcher) Fetch(_ context.Context, u, dir string) ([]byte, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)

	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	time.Sleep(m.delay)

	m.mu.Lock()
	m.fetched = append(m.fetched, u)
	m.mu.Unlock()

	if m.fail[u] {
		return []byte("failed: " + u), errMock
	}

	name, err := Filename(u)
	if err != nil {
		return nil, err
	}

	return nil, os.WriteFile(filepath.Join(dir, name), []byte(u), filePerm)
}

type mockS3 struct {
	objects map[string]string
}

func (m *mockS3) GetObject(_ context.Context, params *s3.GetObjectInput,
	_ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := m.objects[*params.Bucket+"/"+*params.Key]
	if !ok {
		return nil, errMock
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLinks(t *testing.T) {
	Convey("Links are the distinct accessibility then mark download urls", t, func() {
		rec := func(file, url string) *types.ExperimentRecord {
			return &types.ExperimentRecord{FileAccession: file, DownloadURL: url}
		}

		res := &consolidate.Result{
			HasMark: true,
			Full: []*consolidate.Row{
				{Accessibility: rec("D1", "http://x/d1.bam"), Mark: rec("H1", "http://x/h1.bam")},
				{Accessibility: rec("D1", "http://x/d1.bam"), Mark: rec("H2", "http://x/h2.bam")},
				{Accessibility: rec("D2", ""), Mark: rec("H1", "http://x/h1.bam")},
			},
		}

		So(Links(res), ShouldResemble, []string{"http://x/d1.bam", "http://x/h1.bam", "http://x/h2.bam"})

		res.HasMark = false
		So(Links(res), ShouldResemble, []string{"http://x/d1.bam"})
	})

	Convey("Filenames come from the last element of the url path", t, func() {
		name, err := Filename("https://www.encodeproject.org/files/ENCFF1/@@download/ENCFF1.bam")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "ENCFF1.bam")

		name, err = Filename("s3://encode-public/2020/01/01/abc/ENCFF2.bam")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "ENCFF2.bam")

		_, err = Filename("http://x/")
		So(err, ShouldEqual, ErrNoFilename)
	})
}

func TestRetrieve(t *testing.T) {
	Convey("Given urls and a destination directory that doesn't exist", t, func() {
		dir := filepath.Join(t.TempDir(), "data")
		urls := []string{"http://x/a.bam", "http://x/b.bam", "http://x/c.bam"}
		m := &mockFetcher{delay: 20 * time.Millisecond}

		Convey("You can retrieve them in parallel with a bounded number of workers", func() {
			r := New(m, true, 2)

			results, err := r.Retrieve(context.Background(), urls, dir)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 3)
			So(Failed(results), ShouldBeEmpty)
			So(m.maxSeen.Load(), ShouldBeLessThanOrEqualTo, 2)
			So(m.maxSeen.Load(), ShouldBeGreaterThan, 0)

			for i, u := range urls {
				So(results[i].URL, ShouldEqual, u)

				contents, readErr := os.ReadFile(filepath.Join(dir, results[i].Filename))
				So(readErr, ShouldBeNil)
				So(string(contents), ShouldEqual, u)
			}
		})

		Convey("You can retrieve them sequentially, in order", func() {
			r := New(m, false, 4)

			results, err := r.Retrieve(context.Background(), urls, dir)
			So(err, ShouldBeNil)
			So(Failed(results), ShouldBeEmpty)
			So(m.fetched, ShouldResemble, urls)
			So(m.maxSeen.Load(), ShouldEqual, 1)
		})

		Convey("Failures don't stop the batch and keep their diagnostics", func() {
			m.fail = map[string]bool{"http://x/b.bam": true}
			r := New(m, true, 2)

			results, err := r.Retrieve(context.Background(), urls, dir)
			So(err, ShouldBeNil)

			failed := Failed(results)
			So(failed, ShouldHaveLength, 1)
			So(failed[0].URL, ShouldEqual, "http://x/b.bam")
			So(errors.Is(failed[0].Err, errMock), ShouldBeTrue)
			So(string(failed[0].Stderr), ShouldEqual, "failed: http://x/b.bam")

			_, err = os.Stat(filepath.Join(dir, "c.bam"))
			So(err, ShouldBeNil)
		})

		Convey("Urls sharing a file name are only retrieved once", func() {
			r := New(m, false, 1)

			results, err := r.Retrieve(context.Background(),
				[]string{"http://x/a.bam", "http://y/a.bam", "http://x/"}, dir)
			So(err, ShouldBeNil)
			So(results[0].Err, ShouldBeNil)
			So(results[1].Err, ShouldEqual, ErrFilenameCollision)
			So(results[2].Err, ShouldEqual, ErrNoFilename)
			So(m.fetched, ShouldResemble, []string{"http://x/a.bam"})
		})
	})

	Convey("A CommandFetcher runs an external program and captures STDERR", t, func() {
		srcDir := t.TempDir()
		destDir := t.TempDir()

		src := filepath.Join(srcDir, "a.bam")
		So(os.WriteFile(src, []byte("data"), filePerm), ShouldBeNil)

		c := CommandFetcher{Program: "cp", Args: func(u, dir string) []string { return []string{u, dir} }}
		So(c.CommandLine(src, destDir), ShouldEqual, "cp "+src+" "+destDir)

		stderr, err := c.Fetch(context.Background(), src, destDir)
		So(err, ShouldBeNil)
		So(stderr, ShouldBeEmpty)

		contents, err := os.ReadFile(filepath.Join(destDir, "a.bam"))
		So(err, ShouldBeNil)
		So(string(contents), ShouldEqual, "data")

		stderr, err = c.Fetch(context.Background(), filepath.Join(srcDir, "missing.bam"), destDir)
		So(err, ShouldNotBeNil)
		So(string(stderr), ShouldContainSubstring, "missing.bam")

		Convey("And defaults to wget", func() {
			w := NewCommandFetcher("")
			So(w.CommandLine("http://x/a.bam", "/data"), ShouldEqual, "wget http://x/a.bam -P /data")
		})
	})

	Convey("An S3Fetcher streams objects to files", t, func() {
		dir := t.TempDir()
		f := &S3Fetcher{Client: &mockS3{objects: map[string]string{"bucket/path/to/a.bam": "s3data"}}}

		_, err := f.Fetch(context.Background(), "s3://bucket/path/to/a.bam", dir)
		So(err, ShouldBeNil)

		contents, err := os.ReadFile(filepath.Join(dir, "a.bam"))
		So(err, ShouldBeNil)
		So(string(contents), ShouldEqual, "s3data")

		_, err = f.Fetch(context.Background(), "s3://bucket/missing.bam", dir)
		So(err, ShouldEqual, errMock)

		_, err = f.Fetch(context.Background(), "http://bucket/a.bam", dir)
		So(errors.Is(err, ErrNotS3URL), ShouldBeTrue)

		Convey("And a SchemeFetcher picks it for s3 urls", func() {
			m := &mockFetcher{}
			s := SchemeFetcher{Default: m, ByScheme: map[string]Fetcher{S3Scheme: f}}

			_, err = s.Fetch(context.Background(), "s3://bucket/path/to/a.bam", t.TempDir())
			So(err, ShouldBeNil)
			So(m.fetched, ShouldBeEmpty)

			_, err = s.Fetch(context.Background(), "http://x/b.bam", dir)
			So(err, ShouldBeNil)
			So(m.fetched, ShouldResemble, []string{"http://x/b.bam"})

			_, err = SchemeFetcher{}.Fetch(context.Background(), "ftp://x/c.bam", dir)
			So(err, ShouldEqual, ErrUnsupportedScheme)
		})
	})

	Convey("You can make an S3Fetcher with a real client", t, func() {
		f, err := NewS3Fetcher(context.Background(), S3Config{
			Endpoint:        "http://localhost:9000",
			AccessKeyID:     "AKIA",
			SecretAccessKey: "SECRET",
		})
		So(err, ShouldBeNil)
		So(f.Client, ShouldNotBeNil)

		f, err = NewS3Fetcher(context.Background(), S3Config{Anonymous: true})
		So(err, ShouldBeNil)
		So(f.Client, ShouldNotBeNil)
	})
}
