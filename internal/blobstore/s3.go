/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdkcfg "github.com/aws/aws-sdk-go-v2/config"
	sdkcrd "github.com/aws/aws-sdk-go-v2/credentials"
	sdks3 "github.com/aws/aws-sdk-go-v2/service/s3"
	sdks3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/nabbar/slamd/internal/errs"
)

// S3Config is the subset of connection parameters an S3Store needs; it
// mirrors aws/pusher config shape without the full helper
// client.
type S3Config struct {
	Region          string
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store is the alternate blob-store backend, keying
// objects by job id under Bucket.
type S3Store struct {
	cli    *sdks3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, errs.Error) {
	opts := []func(*sdkcfg.LoadOptions) error{
		sdkcfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, sdkcfg.WithCredentialsProvider(
			sdkcrd.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := sdkcfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}

	cli := sdks3.NewFromConfig(awsCfg, func(o *sdks3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = sdkaws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.Endpoint != ""
	})

	return &S3Store{cli: cli, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) errs.Error {
	_, err := s.cli.PutObject(ctx, &sdks3.PutObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return errs.CodeBlobIO.Error(err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, errs.Error) {
	out, err := s.cli.GetObject(ctx, &sdks3.GetObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		var nsk *sdks3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, errs.CodeBlobNotFound.Errorf("key %q", key)
		}
		return nil, errs.CodeBlobIO.Error(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}
	return data, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, errs.Error) {
	var out []string
	var token *string

	for {
		res, err := s.cli.ListObjectsV2(ctx, &sdks3.ListObjectsV2Input{
			Bucket: sdkaws.String(s.bucket), Prefix: sdkaws.String(prefix), ContinuationToken: token,
		})
		if err != nil {
			return nil, errs.CodeBlobIO.Error(err)
		}
		for _, obj := range res.Contents {
			out = append(out, sdkaws.ToString(obj.Key))
		}
		if !sdkaws.ToBool(res.IsTruncated) {
			break
		}
		token = res.NextContinuationToken
	}
	return out, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) errs.Error {
	_, err := s.cli.DeleteObject(ctx, &sdks3.DeleteObjectInput{
		Bucket: sdkaws.String(s.bucket), Key: sdkaws.String(key),
	})
	if err != nil {
		return errs.CodeBlobIO.Error(err)
	}
	return nil
}
