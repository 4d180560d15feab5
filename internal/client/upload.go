package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/content"
)

// UploadFile is one file picked for upload. Size, when known, lets the client
// refuse oversized files without sending them.
type UploadFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type FileFailure struct {
	Name string
	Err  error
}

// BatchError names the files of a batch that failed. The other files of the
// batch were uploaded and stay uploaded.
type BatchError struct {
	Failures []FileFailure
}

func (e *BatchError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Name
	}
	return fmt.Sprintf("failed to upload %s", strings.Join(names, ", "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

func (c *Client) Upload(ctx context.Context, moduleID uuid.UUID, target content.Target, f UploadFile) (*content.FileDescriptor, error) {
	if f.Size > c.maxUploadBytes {
		return nil, content.ErrFileTooLarge
	}

	var out content.FileDescriptor
	req := c.request(ctx).SetFileReader("file", f.Name, f.Reader).SetResult(&out)
	if err := do(req, http.MethodPost, fmt.Sprintf("/modules/%s/files/%s", moduleID, target)); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadBatch sends the files one request at a time, in order. A failed file
// never stops or undoes the others.
func (c *Client) UploadBatch(ctx context.Context, moduleID uuid.UUID, target content.Target, files []UploadFile) ([]*content.FileDescriptor, error) {
	var (
		uploaded []*content.FileDescriptor
		failures []FileFailure
	)
	for _, f := range files {
		desc, err := c.Upload(ctx, moduleID, target, f)
		if err != nil {
			failures = append(failures, FileFailure{Name: f.Name, Err: err})
			continue
		}
		uploaded = append(uploaded, desc)
	}

	if len(failures) > 0 {
		return uploaded, &BatchError{Failures: failures}
	}
	return uploaded, nil
}

func (c *Client) ListFiles(ctx context.Context, moduleID uuid.UUID, target content.Target) ([]*content.FileDescriptor, error) {
	var out []*content.FileDescriptor
	req := c.request(ctx).SetResult(&out)
	if target != "" {
		req.SetQueryParam("target", string(target))
	}
	if err := do(req, http.MethodGet, fmt.Sprintf("/modules/%s/files", moduleID)); err != nil {
		return nil, err
	}
	return out, nil
}

// CommitFiles keeps the files staged while editing the module.
func (c *Client) CommitFiles(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var out content.CommitResponse
	if err := do(c.request(ctx).SetResult(&out), http.MethodPost, fmt.Sprintf("/modules/%s/files/commit", moduleID)); err != nil {
		return 0, err
	}
	return out.Committed, nil
}

// DiscardFiles drops the files staged while editing the module.
func (c *Client) DiscardFiles(ctx context.Context, moduleID uuid.UUID) (int, error) {
	var out content.DiscardResponse
	if err := do(c.request(ctx).SetResult(&out), http.MethodDelete, fmt.Sprintf("/modules/%s/files/staged", moduleID)); err != nil {
		return 0, err
	}
	return out.Discarded, nil
}

func (c *Client) DeleteFile(ctx context.Context, id uuid.UUID) error {
	return do(c.request(ctx), http.MethodDelete, "/files/"+id.String())
}
