package manifest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/city/internal/errors"
)

// Store loads and saves a manifest.
type Store interface {
	Load(ctx context.Context) (*Manifest, error)
	Save(ctx context.Context, m *Manifest) error
}

// FileStore keeps the manifest in a local file.
type FileStore struct {
	Path string
}

// Load reads and decodes the manifest file.
func (s *FileStore) Load(ctx context.Context) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E222").
				WithDetail(s.Path + " does not exist").
				WithSuggestion("Generate it with 'city routes --out " + s.Path + "'").
				Wrap(fmt.Errorf("%w: %w", ErrNotFound, err))
		}
		return nil, errors.New("E222").WithDetail(s.Path).Wrap(err)
	}
	return Decode(data)
}

// Save encodes m and writes it atomically.
func (s *FileStore) Save(ctx context.Context, m *Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(m)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("E222").WithDetail(dir).Wrap(err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return errors.New("E222").WithDetail(s.Path).Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.New("E222").WithDetail(s.Path).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.New("E222").WithDetail(s.Path).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return errors.New("E222").WithDetail(s.Path).Wrap(err)
	}
	return nil
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	s3Client S3API
	region   string
}

// WithS3Client sets the client used for s3:// locations. Without it, Open
// builds one from the default AWS configuration.
func WithS3Client(c S3API) OpenOption {
	return func(o *openOptions) { o.s3Client = c }
}

// WithRegion sets the AWS region used when Open builds the S3 client.
func WithRegion(region string) OpenOption {
	return func(o *openOptions) { o.region = region }
}

// Open returns the store for a manifest location: a file path, a file://
// URL or an s3://bucket/key URL.
func Open(ctx context.Context, location string, opts ...OpenOption) (Store, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.Contains(location, "://") {
		if location == "" {
			return nil, errors.New("E223").WithDetail("empty location")
		}
		return &FileStore{Path: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.New("E223").WithDetail(location).Wrap(err)
	}

	switch u.Scheme {
	case "file":
		path := u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = u.Host + path
		}
		if path == "" {
			return nil, errors.New("E223").WithDetail(location)
		}
		return &FileStore{Path: path}, nil

	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, errors.New("E223").
				WithDetailf("%q needs a bucket and a key", location)
		}
		client := o.s3Client
		if client == nil {
			client, err = newS3Client(ctx, o.region)
			if err != nil {
				return nil, errors.New("E222").WithDetail("loading AWS configuration").Wrap(err)
			}
		}
		return &S3Store{Client: client, Bucket: u.Host, Key: key}, nil
	}

	return nil, errors.New("E223").WithDetailf("unsupported scheme %q", u.Scheme)
}
