// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// profile photos, blog media, and career CVs. It wraps the AWS SDK v2
// and is configured for path-style access (required by CEPH/Hetzner).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client for upload operations on three buckets:
// profile photos and blog media are public-read, career CVs are private
// and served through presigned URLs.
type Client struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	profileBucket string
	mediaBucket   string
	careersBucket string
	endpoint      string
	publicURL     string // optional CDN/direct URL for public files
}

// New creates an S3 storage client configured for CEPH/Hetzner with
// path-style addressing. Returns (nil, nil) if endpoint or credentials
// are empty, allowing the app to start without storage.
func New(endpoint, region, accessKey, secretKey, profileBucket, mediaBucket, careersBucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:            s3Client,
		presigner:     s3.NewPresignClient(s3Client),
		profileBucket: profileBucket,
		mediaBucket:   mediaBucket,
		careersBucket: careersBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object in the specified bucket. Public buckets get a
// public-read ACL so objects can be served directly.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	if bucket != c.careersBucket {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	_, err := c.s3.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes an object from the specified bucket.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for an object in a public bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(bucket, key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + bucket + "/" + key
	}
	return c.endpoint + "/" + bucket + "/" + key
}

// PresignedURL generates a pre-signed GET URL for a private object.
// The URL is valid for the specified duration (max 7 days per S3 spec).
func (c *Client) PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// ProfileBucket returns the bucket name for profile photos.
func (c *Client) ProfileBucket() string { return c.profileBucket }

// MediaBucket returns the bucket name for blog media.
func (c *Client) MediaBucket() string { return c.mediaBucket }

// CareersBucket returns the bucket name for career CVs.
func (c *Client) CareersBucket() string { return c.careersBucket }
