package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id uuid.UUID) (*File, error)
	List(ctx context.Context, moduleID uuid.UUID, target Target, includeStaged bool) ([]*File, error)
	ListStaged(ctx context.Context, moduleID uuid.UUID) ([]*File, error)
	ListStagedBefore(ctx context.Context, cutoff time.Time) ([]*File, error)
	CommitStaged(ctx context.Context, moduleID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, f *File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id uuid.UUID) (*File, error) {
	var f File
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns the module's files oldest first. An empty target lists all of them.
func (r *fileRepository) List(ctx context.Context, moduleID uuid.UUID, target Target, includeStaged bool) ([]*File, error) {
	q := r.db.WithContext(ctx).Where("module_id = ?", moduleID)
	if target != "" {
		q = q.Where("target = ?", target)
	}
	if !includeStaged {
		q = q.Where("temporary = ?", false)
	}

	var files []*File
	if err := q.Order("uploaded_at ASC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) ListStaged(ctx context.Context, moduleID uuid.UUID) ([]*File, error) {
	var files []*File
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND temporary = ?", moduleID, true).
		Find(&files).Error
	return files, err
}

func (r *fileRepository) ListStagedBefore(ctx context.Context, cutoff time.Time) ([]*File, error) {
	var files []*File
	err := r.db.WithContext(ctx).
		Where("temporary = ? AND uploaded_at < ?", true, cutoff).
		Find(&files).Error
	return files, err
}

func (r *fileRepository) CommitStaged(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&File{}).
		Where("module_id = ? AND temporary = ?", moduleID, true).
		Update("temporary", false)
	return res.RowsAffected, res.Error
}

func (r *fileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&File{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}
