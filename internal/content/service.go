package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
)

var (
	ErrFileNotFound = fmt.Errorf("file: %w", apperr.ErrNotFound)
	ErrFileTooLarge = fmt.Errorf("file exceeds the upload limit: %w", apperr.ErrTooLarge)
)

const sniffLen = 3072

type ContentService interface {
	Upload(ctx context.Context, moduleID uuid.UUID, target Target, name string, r io.Reader) (*FileDescriptor, error)
	List(ctx context.Context, moduleID uuid.UUID, target Target) ([]*FileDescriptor, error)
	Commit(ctx context.Context, moduleID uuid.UUID) (int64, error)
	Discard(ctx context.Context, moduleID uuid.UUID) (int, error)
	Open(ctx context.Context, id uuid.UUID) (*File, io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// PurgeStaged removes staged files uploaded before cutoff. It runs without a caller.
	PurgeStaged(ctx context.Context, cutoff time.Time) (int, error)
}

type contentService struct {
	repo     FileRepository
	storage  Storage
	guard    coursemodule.Guard
	maxBytes int64
	now      func() time.Time
}

func NewService(repo FileRepository, storage Storage, guard coursemodule.Guard, maxBytes int64) ContentService {
	return &contentService{
		repo:     repo,
		storage:  storage,
		guard:    guard,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Upload stages one file. The content type is sniffed from the bytes, not
// taken from the client.
func (s *contentService) Upload(ctx context.Context, moduleID uuid.UUID, target Target, name string, r io.Reader) (*FileDescriptor, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"module_id": moduleID, "target": target})

	if !target.IsValid() {
		verr := apperr.NewValidation()
		verr.Add("target", "must be one of: chapter syllabus reference")
		return nil, verr
	}
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		verr := apperr.NewValidation()
		verr.Add("file", "file name is required")
		return nil, verr
	}

	if _, err := s.guard.CanAuthor(ctx, moduleID); err != nil {
		return nil, err
	}
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	uploaderID, err := claims.UserUUID()
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, s.readError(err)
	}
	head = head[:n]
	fileType := mimetype.Detect(head).String()

	f := &File{
		ID:           uuid.New(),
		ModuleID:     moduleID,
		Target:       target,
		OriginalName: name,
		FileType:     fileType,
		Temporary:    true,
		UploadedBy:   uploaderID,
		UploadedAt:   s.now(),
	}
	f.StorageKey = fmt.Sprintf("modules/%s/%s/%s%s", moduleID, target, f.ID, strings.ToLower(filepath.Ext(name)))

	body := &countingReader{r: io.MultiReader(bytes.NewReader(head), r), limit: s.maxBytes}
	if err := s.storage.Put(ctx, f.StorageKey, body, fileType); err != nil {
		_ = s.storage.Delete(ctx, f.StorageKey)
		if body.exceeded {
			log.WithField("name", name).Warn("Upload over the size limit")
			return nil, ErrFileTooLarge
		}
		log.WithError(err).Error("Failed to store upload")
		return nil, s.readError(err)
	}
	f.Size = body.n

	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.storage.Delete(ctx, f.StorageKey)
		log.WithError(err).Error("Failed to record upload")
		return nil, err
	}

	log.WithFields(logrus.Fields{"file_id": f.ID, "size": f.Size, "type": fileType}).Info("File staged")
	return toDescriptor(f), nil
}

func (s *contentService) readError(err error) error {
	if errors.Is(err, ErrFileTooLarge) {
		return ErrFileTooLarge
	}
	return err
}

// List shows committed files to everyone and staged files to authors only.
func (s *contentService) List(ctx context.Context, moduleID uuid.UUID, target Target) ([]*FileDescriptor, error) {
	if target != "" && !target.IsValid() {
		verr := apperr.NewValidation()
		verr.Add("target", "must be one of: chapter syllabus reference")
		return nil, verr
	}
	if _, err := s.guard.CanRead(ctx, moduleID); err != nil {
		return nil, err
	}

	files, err := s.repo.List(ctx, moduleID, target, s.isAuthor(ctx, moduleID))
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list files")
		return nil, err
	}

	out := make([]*FileDescriptor, 0, len(files))
	for _, f := range files {
		out = append(out, toDescriptor(f))
	}
	return out, nil
}

func (s *contentService) Commit(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	if _, err := s.guard.CanAuthor(ctx, moduleID); err != nil {
		return 0, err
	}

	n, err := s.repo.CommitStaged(ctx, moduleID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to commit staged files")
		return 0, err
	}
	config.WithContext(ctx).WithField("module_id", moduleID).Infof("Committed %d staged files", n)
	return n, nil
}

func (s *contentService) Discard(ctx context.Context, moduleID uuid.UUID) (int, error) {
	if _, err := s.guard.CanAuthor(ctx, moduleID); err != nil {
		return 0, err
	}

	files, err := s.repo.ListStaged(ctx, moduleID)
	if err != nil {
		return 0, err
	}
	n := s.remove(ctx, files)
	config.WithContext(ctx).WithField("module_id", moduleID).Infof("Discarded %d staged files", n)
	return n, nil
}

func (s *contentService) Open(ctx context.Context, id uuid.UUID) (*File, io.ReadCloser, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.guard.CanRead(ctx, f.ModuleID); err != nil {
		return nil, nil, ErrFileNotFound
	}
	if f.Temporary && !s.isAuthor(ctx, f.ModuleID) {
		return nil, nil, ErrFileNotFound
	}

	body, err := s.storage.Open(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			config.WithContext(ctx).WithField("file_id", id).Error("File record without stored bytes")
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}
	return f, body, nil
}

func (s *contentService) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.guard.CanAuthor(ctx, f.ModuleID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	if err := s.storage.Delete(ctx, f.StorageKey); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to delete stored file")
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *contentService) PurgeStaged(ctx context.Context, cutoff time.Time) (int, error) {
	files, err := s.repo.ListStagedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	return s.remove(ctx, files), nil
}

// remove deletes bytes then rows, skipping files whose bytes could not be
// deleted so a later run can retry them.
func (s *contentService) remove(ctx context.Context, files []*File) int {
	log := config.WithContext(ctx)
	removed := 0
	for _, f := range files {
		if err := s.storage.Delete(ctx, f.StorageKey); err != nil {
			log.WithError(err).WithField("file_id", f.ID).Warn("Failed to delete stored file")
			continue
		}
		if err := s.repo.Delete(ctx, f.ID); err != nil && !errors.Is(err, ErrFileNotFound) {
			log.WithError(err).WithField("file_id", f.ID).Warn("Failed to delete file record")
			continue
		}
		removed++
	}
	return removed
}

func (s *contentService) isAuthor(ctx context.Context, moduleID uuid.UUID) bool {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil || !claims.Is(auth.RoleTeacher, auth.RoleAdmin) {
		return false
	}
	_, err = s.guard.CanAuthor(ctx, moduleID)
	return err == nil
}

// countingReader fails once more than limit bytes have been read.
type countingReader struct {
	r        io.Reader
	n        int64
	limit    int64
	exceeded bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit > 0 && c.n > c.limit {
		c.exceeded = true
		return n, ErrFileTooLarge
	}
	return n, err
}
