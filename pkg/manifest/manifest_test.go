package manifest

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
)

func sample() *Manifest {
	m := New()
	m.TrailingSlash = true
	m.Routes = []Route{
		{Path: "/blog/[slug]", Pattern: `^/blog/([^/]+?)/?$`, ParamNames: []string{"slug"}, Modules: []string{"layout", "blog/[slug]"}, Methods: []string{"OnGet"}},
		{Path: "/api/health", Pattern: `^/api/health/?$`, Type: TypeEndpoint, Modules: []string{"api/health"}},
	}
	m.Menus = map[string]*content.Menu{
		"/docs/": {Text: "Docs", Items: []*content.Menu{{Text: "Intro", Href: "/docs/intro"}}},
	}
	return m
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sample())
	require.NoError(t, err)

	m, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, Version, m.Version)
	assert.True(t, m.TrailingSlash)
	require.Len(t, m.Routes, 2)
	assert.False(t, m.Routes[0].IsEndpoint())
	assert.True(t, m.Routes[1].IsEndpoint())
	assert.Equal(t, []string{"layout", "blog/[slug]"}, m.Routes[0].Modules)
	assert.Equal(t, "/docs/intro", m.Menus["/docs/"].Items[0].Href)
}

func TestEncodeLeavesInputUnchanged(t *testing.T) {
	in := sample()
	in.Version = 0

	data, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, 0, in.Version)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
	assert.False(t, bytes.HasSuffix(data, []byte("\n\n")))

	m, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Version, m.Version)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Equal(t, "E221", errors.Code(err))

	_, err = Decode([]byte(`{"version": 99, "routes": []}`))
	assert.Equal(t, "E220", errors.Code(err))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeNilRoutes(t *testing.T) {
	m, err := Decode([]byte(`{"version": 1}`))
	require.NoError(t, err)
	assert.NotNil(t, m.Routes)
}

func TestFindAndModuleIDs(t *testing.T) {
	m := sample()

	r, ok := m.Find("/api/health")
	require.True(t, ok)
	assert.Equal(t, "endpoint /api/health (^/api/health/?$)", r.String())

	_, ok = m.Find("/missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"layout", "blog/[slug]", "api/health"}, m.ModuleIDs())
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "build", "city.manifest.json")
	store := &FileStore{Path: path}

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "E222", errors.Code(err))

	require.NoError(t, store.Save(ctx, sample()))

	m, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, m.Routes, 2)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should be cleaned up")
}

func TestFileStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &FileStore{Path: filepath.Join(t.TempDir(), "m.json")}
	assert.ErrorIs(t, store.Save(ctx, sample()), context.Canceled)
}

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
	getErr  error
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := &S3Store{Client: fake, Bucket: "routes", Key: "prod/city.manifest.json"}

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, sample()))
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "application/json", aws.ToString(fake.puts[0].ContentType))
	assert.Equal(t, "1", fake.puts[0].Metadata["manifest-version"])

	m, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/blog/[slug]", m.Routes[0].Path)
}

func TestS3StoreError(t *testing.T) {
	boom := stderrors.New("access denied")
	store := &S3Store{Client: &fakeS3{getErr: boom}, Bucket: "b", Key: "k"}

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "E222", errors.Code(err))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}

	tests := []struct {
		name     string
		location string
		want     Store
		code     string
	}{
		{name: "plain path", location: "build/m.json", want: &FileStore{Path: "build/m.json"}},
		{name: "file url", location: "file:///srv/m.json", want: &FileStore{Path: "/srv/m.json"}},
		{name: "s3 url", location: "s3://bucket/a/b.json", want: &S3Store{Client: fake, Bucket: "bucket", Key: "a/b.json"}},
		{name: "s3 without key", location: "s3://bucket", code: "E223"},
		{name: "unknown scheme", location: "gs://bucket/key", code: "E223"},
		{name: "empty", location: "", code: "E223"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.location, WithS3Client(fake))
			if tt.code != "" {
				assert.Equal(t, tt.code, errors.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, store)
		})
	}
}
