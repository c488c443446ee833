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
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	ErrNotS3URL = Error("not an s3://bucket/key url")

	S3Scheme        = "s3"
	defaultS3Region = "us-west-2"
	filePerm        = 0644
)

// S3GetObjectAPI is the part of the s3.Client used by S3Fetcher.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the S3 client of NewS3Fetcher().
type S3Config struct {
	// Region defaults to us-west-2, the region of the ENCODE public bucket.
	Region string

	// Endpoint is optional, for S3-compatible stores.
	Endpoint string

	// AccessKeyID and SecretAccessKey, if both set, are used instead of the
	// default credential chain.
	AccessKeyID     string
	SecretAccessKey string

	// Anonymous makes unsigned requests, as needed for public buckets without
	// AWS credentials. It is ignored if an access key is set.
	Anonymous bool
}

// S3Fetcher retrieves s3://bucket/key URLs.
type S3Fetcher struct {
	Client S3GetObjectAPI
}

// NewS3Fetcher returns an S3Fetcher with a client made from the default AWS
// configuration chain and the given options.
func NewS3Fetcher(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}

	switch {
	case cfg.AccessKeyID != "" && cfg.SecretAccessKey != "":
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	case cfg.Anonymous:
		loadOpts = append(loadOpts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Fetcher{Client: client}, nil
}

func parseS3URL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}

	key := strings.TrimPrefix(u.Path, "/")

	if !strings.EqualFold(u.Scheme, S3Scheme) || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotS3URL, rawURL)
	}

	return u.Host, key, nil
}

// Fetch streams the object to a file in dir named after the last element of
// its key. It has no diagnostic output beyond the returned error.
func (f *S3Fetcher) Fetch(ctx context.Context, rawURL, dir string) (_ []byte, err error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, err
	}

	defer out.Body.Close()

	file, err := os.OpenFile(filepath.Join(dir, path.Base(key)), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, err
	}

	defer func() {
		if errc := file.Close(); err == nil {
			err = errc
		}
	}()

	_, err = io.Copy(file, out.Body)

	return nil, err
}
