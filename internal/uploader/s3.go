// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package uploader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3 uploads recipe images to an S3-compatible bucket with public-read
// objects, configured for path-style access (required by CEPH/Hetzner).
type S3 struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// NewS3 creates an S3 uploader with static credentials and path-style
// addressing.
func NewS3(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*S3, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("s3 uploader: endpoint, credentials, and bucket are required")
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3{
		s3:        client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores the image under a unique key and returns its public URL.
// Objects get a public-read ACL so they can be served directly.
func (u *S3) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := u.objectKey(filename)

	_, err := u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", u.bucket, key, err)
	}
	return u.fileURL(key), nil
}

// Delete removes the object behind rawURL when it lives in the managed
// bucket. Foreign URLs are ignored.
func (u *S3) Delete(ctx context.Context, rawURL string) error {
	key, ok := u.extractKey(rawURL)
	if !ok {
		return nil
	}
	_, err := u.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", u.bucket, key, err)
	}
	return nil
}

// Owns reports whether rawURL points into the managed bucket.
func (u *S3) Owns(rawURL string) bool {
	_, ok := u.extractKey(rawURL)
	return ok
}

// objectKey builds a unique storage key, grouped by year/month so the
// bucket stays browsable.
func (u *S3) objectKey(filename string) string {
	now := time.Now()
	ext := filepath.Ext(filename)
	return fmt.Sprintf("recipes/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)
}

// fileURL returns the public URL for a key. Uses the configured public URL
// if set, otherwise builds a path-style URL.
func (u *S3) fileURL(key string) string {
	if u.publicURL != "" {
		return u.publicURL + "/" + key
	}
	return u.endpoint + "/" + u.bucket + "/" + key
}

// extractKey extracts the object key from a public file URL. Returns the
// key and true if the URL matches the storage URL pattern, or ("", false)
// if it doesn't belong to this bucket.
func (u *S3) extractKey(rawURL string) (string, bool) {
	// Try publicURL prefix first (CDN or custom domain).
	if u.publicURL != "" {
		prefix := u.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	// Try endpoint/bucket prefix (path-style S3).
	prefix := u.endpoint + "/" + u.bucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}
