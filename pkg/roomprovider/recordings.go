package roomprovider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config describes the bucket the provider exports recordings to.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, S3-compatible stores use path-style addressing
	URLTTL          time.Duration
}

// objectLister is the subset of *s3.Client used here.
type objectLister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Recordings lists objects under "<roomID>/" and returns presigned download URLs.
type S3Recordings struct {
	bucket    string
	ttl       time.Duration
	lister    objectLister
	presigner objectPresigner
}

func NewS3Recordings(ctx context.Context, cfg S3Config) (*S3Recordings, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Recordings(cfg.Bucket, cfg.URLTTL, client, s3.NewPresignClient(client)), nil
}

func newS3Recordings(bucket string, ttl time.Duration, lister objectLister, presigner objectPresigner) *S3Recordings {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &S3Recordings{bucket: bucket, ttl: ttl, lister: lister, presigner: presigner}
}

func (s *S3Recordings) List(ctx context.Context, roomID string) ([]domain.Recording, error) {
	prefix := strings.Trim(roomID, "/") + "/"
	recordings := []domain.Recording{}

	var token *string
	for {
		out, err := s.lister.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list recordings of %s: %w", roomID, err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			signed, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(s.ttl))
			if err != nil {
				return nil, fmt.Errorf("failed to presign %s: %w", key, err)
			}
			recordings = append(recordings, domain.Recording{
				Key:       key,
				URL:       signed.URL,
				SizeBytes: aws.ToInt64(obj.Size),
				CreatedAt: aws.ToTime(obj.LastModified).UTC(),
			})
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].CreatedAt.Before(recordings[j].CreatedAt)
	})
	return recordings, nil
}
