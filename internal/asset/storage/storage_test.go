package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	_ BlobStorage = (*LocalStorage)(nil)
	_ BlobStorage = (*S3Storage)(nil)
)

func TestCleanKey(t *testing.T) {
	valid := map[string]string{
		"7/abc.enc":      "7/abc.enc",
		"7/./x/../a.enc": "7/a.enc",
	}
	for in, want := range valid {
		got, err := cleanKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "/etc/passwd", "../x", "a/../../x", "..", ".", `a\b`} {
		_, err := cleanKey(in)
		assert.ErrorIs(t, err, ErrInvalidKey, in)
	}
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "blobs")
	store, err := NewLocalStorage(root)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "7/one.enc", strings.NewReader("ciphertext")))

	rc, err := store.Open(ctx, "7/one.enc")
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "ciphertext", string(content))

	entries, err := os.ReadDir(filepath.Join(root, "7"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary upload file left behind")

	require.NoError(t, store.Delete(ctx, "7/one.enc"))
	require.NoError(t, store.Delete(ctx, "7/one.enc"))

	_, err = store.Open(ctx, "7/one.enc")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Put(context.Background(), "../escape.enc", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestLocalStorage_PutFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root)
	require.NoError(t, err)

	err = store.Put(context.Background(), "a.enc", errReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockS3) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	_ ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func objectKeyIs(key string) any {
	return mock.MatchedBy(func(in any) bool {
		switch v := in.(type) {
		case *s3.PutObjectInput:
			return *v.Bucket == "vault" && *v.Key == key
		case *s3.GetObjectInput:
			return *v.Bucket == "vault" && *v.Key == key
		case *s3.DeleteObjectInput:
			return *v.Bucket == "vault" && *v.Key == key
		}
		return false
	})
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	client := &mockS3{}
	store := newS3Storage(client, "vault", "assets/")

	client.On("PutObject", ctx, objectKeyIs("assets/7/one.enc")).Return(nil).Once()
	require.NoError(t, store.Put(ctx, "7/one.enc", bytes.NewReader([]byte("x"))))

	client.On("GetObject", ctx, objectKeyIs("assets/7/one.enc")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("x"))}, nil).Once()
	rc, err := store.Open(ctx, "7/one.enc")
	require.NoError(t, err)
	_ = rc.Close()

	client.On("GetObject", ctx, objectKeyIs("assets/7/missing.enc")).
		Return(nil, &types.NoSuchKey{}).Once()
	_, err = store.Open(ctx, "7/missing.enc")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	client.On("DeleteObject", ctx, objectKeyIs("assets/7/one.enc")).Return(errors.New("throttled")).Once()
	assert.ErrorContains(t, store.Delete(ctx, "7/one.enc"), "throttled")

	_, err = store.Open(ctx, "../x")
	assert.ErrorIs(t, err, ErrInvalidKey)

	client.AssertExpectations(t)
}
