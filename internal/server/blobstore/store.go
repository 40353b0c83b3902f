// Package blobstore keeps uploaded files in an S3-compatible bucket and
// hands out public URLs for them.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/filex"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// objectAPI is the subset of *s3.Client used by Store.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newObjectAPI = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Settings describes one bucket on an S3-compatible endpoint.
type Settings struct {
	Region        string
	AccessKey     string
	SecretKey     string
	BaseEndpoint  string
	PublicBaseURL string
	Bucket        string
}

// Store is a blob store bound to a single bucket.
type Store struct {
	api        objectAPI
	bucket     string
	publicBase string
}

// NewS3Store builds a Store with static credentials. Path-style addressing
// is used so MinIO and similar endpoints work without DNS buckets.
func NewS3Store(ctx context.Context, s Settings) (*Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	api := newObjectAPI(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.BaseEndpoint)
		o.UsePathStyle = true
	})

	public := s.PublicBaseURL
	if public == "" {
		public = s.BaseEndpoint
	}
	return &Store{api: api, bucket: s.Bucket, publicBase: strings.TrimRight(public, "/")}, nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// PublicURL returns the public link of key.
func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + path.Join(s.bucket, key)
}

// Put stores data under key.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (models.UploadResult, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("put %s/%s: %w", s.bucket, key, err)
	}
	return models.UploadResult{ObjectKey: key, PublicURL: s.PublicURL(key)}, nil
}

// Get returns the object bytes and content type, or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("get %s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s/%s: %w", s.bucket, key, err)
	}
	return data, aws.ToString(out.ContentType), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// List returns the objects under prefix. Folder placeholders (keys ending
// in "/") and dot files are skipped.
func (s *Store) List(ctx context.Context, prefix string) ([]models.CloudFile, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if prefix != "" {
		in.Prefix = aws.String(prefix)
	}

	files := make([]models.CloudFile, 0)
	p := s3.NewListObjectsV2Paginator(s.api, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || strings.HasPrefix(path.Base(key), ".") {
				continue
			}
			f := models.CloudFile{
				Name:      key,
				ID:        strings.Trim(aws.ToString(obj.ETag), `"`),
				Size:      aws.ToInt64(obj.Size),
				MimeType:  filex.TypeByExtension(key),
				PublicURL: s.PublicURL(key),
			}
			if obj.LastModified != nil {
				f.CreatedAt = *obj.LastModified
			}
			files = append(files, f)
		}
	}
	return files, nil
}

// Name is used by health checks.
func (s *Store) Name() string {
	return "s3:" + s.bucket
}

// Check verifies the bucket is reachable.
func (s *Store) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
