package coursemodule

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModuleRepository interface {
	Create(ctx context.Context, m *Module) error
	GetByID(ctx context.Context, id uuid.UUID) (*Module, error)
	ListAll(ctx context.Context) ([]*Module, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*Module, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Module, error)
	Enroll(ctx context.Context, moduleID, studentID uuid.UUID) error
	IsEnrolled(ctx context.Context, moduleID, studentID uuid.UUID) (bool, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, m *Module) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *moduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Module, error) {
	var m Module
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepository) ListAll(ctx context.Context) ([]*Module, error) {
	var modules []*Module
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*Module, error) {
	var modules []*Module
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Module, error) {
	var modules []*Module
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.module_id = modules.id").
		Where("enrollments.student_id = ?", studentID).
		Order("modules.created_at DESC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) Enroll(ctx context.Context, moduleID, studentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Enrollment{ModuleID: moduleID, StudentID: studentID}).Error
}

func (r *moduleRepository) IsEnrolled(ctx context.Context, moduleID, studentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("module_id = ? AND student_id = ?", moduleID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
