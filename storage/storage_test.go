package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failKey string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKey != "" && strings.HasSuffix(*in.Key, f.failKey) {
		return nil, errors.New("AccessDenied")
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func file(name string) File {
	return File{
		Filename:    name,
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(name))), nil
		},
	}
}

func TestS3Store_URLs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		store    *S3Store
		expected string
	}{
		{"Virtual Hosted", NewS3Store(newFakeS3(), "shop", "products", "", "", "ap-south-1"), "https://shop.s3.ap-south-1.amazonaws.com/products/a.png"},
		{"CDN", NewS3Store(newFakeS3(), "shop", "/products/", "", "cdn.example.com/", "ap-south-1"), "https://cdn.example.com/products/a.png"},
		{"Path Style Endpoint", NewS3Store(newFakeS3(), "shop", "", "http://localhost:4566/", "", "us-east-1"), "http://localhost:4566/shop/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := tt.store.Upload(ctx, "a.png", strings.NewReader("x"), "image/png")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)

			key, err := tt.store.keyFromURL(url)
			require.NoError(t, err)
			assert.Equal(t, tt.store.key("a.png"), key)
		})
	}
}

func TestUploadAll(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store := NewS3Store(client, "shop", "products", "", "", "us-east-1")

	urls, err := UploadAll(ctx, store, []File{file("a.JPG"), file("b.png"), file("c.webp")})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.True(t, strings.HasSuffix(urls[0], ".jpg"), "extension kept and lowered")
	assert.True(t, strings.HasSuffix(urls[2], ".webp"), "input order kept")
	assert.Equal(t, 3, client.len())

	require.NoError(t, DeleteAll(ctx, store, append(urls, "")))
	assert.Zero(t, client.len())
}

func TestUploadAll_CleansUpOnFailure(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	client.failKey = ".gif"
	store := NewS3Store(client, "shop", "products", "", "", "us-east-1")

	_, err := UploadAll(ctx, store, []File{file("a.png"), file("b.gif"), file("c.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.gif")
	assert.Zero(t, client.len(), "successful uploads are removed again")
}

func TestUploadAll_OpenFailure(t *testing.T) {
	broken := File{Filename: "x.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("disk gone") }}
	_, err := UploadAll(context.Background(), NewS3Store(newFakeS3(), "b", "", "", "", "us-east-1"), []File{broken})
	assert.ErrorContains(t, err, "open x.png")
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345/products/abc.jpg", "products/abc", false},
		{"https://res.cloudinary.com/demo/image/upload/abc.png", "abc", false},
		{"https://res.cloudinary.com/demo/image/upload/v1/x/y/z.webp", "x/y/z", false},
		{"https://example.com/abc.jpg", "", true},
		{"https://res.cloudinary.com/demo/image/upload/", "", true},
	}
	for _, tt := range tests {
		got, err := PublicIDFromURL(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
			continue
		}
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.expected, got)
	}
}
