package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImageStore puts product images somewhere publicly reachable.
type ImageStore interface {
	// Upload stores body and returns its public URL.
	Upload(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
	// Delete removes the object behind a URL returned by Upload.
	Delete(ctx context.Context, url string) error
}

// File is one image waiting to be uploaded.
type File struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts a multipart form file.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// objectName builds a collision-free name that keeps the original extension.
func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(filename))
}

// UploadAll uploads files in parallel and returns URLs in input order. If any
// upload fails the ones that succeeded are deleted before the error is
// returned.
func UploadAll(ctx context.Context, store ImageStore, files []File) ([]string, error) {
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range files {
		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", f.Filename, err)
			}
			defer rc.Close()

			url, err := store.Upload(gctx, objectName(f.Filename), rc, f.ContentType)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var uploaded []string
		for _, u := range urls {
			if u != "" {
				uploaded = append(uploaded, u)
			}
		}
		// ctx may already be done; cleanup gets its own.
		if cerr := DeleteAll(context.WithoutCancel(ctx), store, uploaded); cerr != nil {
			zap.L().Warn("failed to clean up partially uploaded images", zap.Error(cerr), zap.Strings("urls", uploaded))
		}
		return nil, err
	}
	return urls, nil
}

// DeleteAll removes every URL in parallel and reports the first failure.
func DeleteAll(ctx context.Context, store ImageStore, urls []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range urls {
		if u == "" {
			continue
		}
		g.Go(func() error {
			if err := store.Delete(gctx, u); err != nil {
				return fmt.Errorf("delete %s: %w", u, err)
			}
			return nil
		})
	}
	return g.Wait()
}
