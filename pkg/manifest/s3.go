package manifest

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/city/internal/errors"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the manifest as an S3 object.
type S3Store struct {
	Client S3API
	Bucket string
	Key    string
}

func newS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

func (s *S3Store) location() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// Load fetches and decodes the manifest object.
func (s *S3Store) Load(ctx context.Context) (*Manifest, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if stderrors.As(err, &nsk) {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, errors.New("E222").WithDetail(s.location()).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E222").WithDetail(s.location()).Wrap(err)
	}
	return Decode(data)
}

// Save encodes m and uploads it.
func (s *S3Store) Save(ctx context.Context, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	version := m.Version
	if version == 0 {
		version = Version
	}
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"manifest-version": fmt.Sprint(version),
		},
	})
	if err != nil {
		return errors.New("E222").WithDetail(s.location()).Wrap(err)
	}
	return nil
}
