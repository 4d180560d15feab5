package coursemodule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

var (
	ErrModuleNotFound = fmt.Errorf("module: %w", apperr.ErrNotFound)
	ErrNotAuthor      = fmt.Errorf("only the module teacher can change its content: %w", apperr.ErrForbidden)
)

// Guard answers the access questions other features ask about a module.
// A module the caller cannot read is reported as not found.
type Guard interface {
	CanRead(ctx context.Context, moduleID uuid.UUID) (*Module, error)
	CanAuthor(ctx context.Context, moduleID uuid.UUID) (*Module, error)
}

type ModuleService interface {
	Guard
	Create(ctx context.Context, dto CreateModuleDTO) (*Module, error)
	List(ctx context.Context) ([]*Module, error)
	Get(ctx context.Context, id uuid.UUID) (*Module, error)
	Enroll(ctx context.Context, id uuid.UUID) error
}

type moduleService struct {
	repo ModuleRepository
}

func NewService(repo ModuleRepository) ModuleService {
	return &moduleService{repo: repo}
}

func (s *moduleService) Create(ctx context.Context, dto CreateModuleDTO) (*Module, error) {
	log := config.WithContext(ctx)
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	m := &Module{
		Title:       dto.Title,
		Description: dto.Description,
		TeacherID:   uuid.MustParse(dto.TeacherID),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		log.WithError(err).Error("Failed to create module")
		return nil, err
	}

	log.WithField("module_id", m.ID).Info("Module created")
	return m, nil
}

func (s *moduleService) List(ctx context.Context) ([]*Module, error) {
	claims, userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case auth.RoleAdmin:
		return s.repo.ListAll(ctx)
	case auth.RoleTeacher:
		return s.repo.ListByTeacher(ctx, userID)
	case auth.RoleStudent:
		return s.repo.ListByStudent(ctx, userID)
	default:
		return nil, apperr.ErrForbidden
	}
}

func (s *moduleService) Get(ctx context.Context, id uuid.UUID) (*Module, error) {
	return s.CanRead(ctx, id)
}

func (s *moduleService) Enroll(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)
	claims, userID, err := caller(ctx)
	if err != nil {
		return err
	}
	if claims.Role != auth.RoleStudent {
		return fmt.Errorf("only students enroll: %w", apperr.ErrForbidden)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Enroll(ctx, id, userID); err != nil {
		log.WithError(err).Error("Failed to enroll student")
		return err
	}

	log.WithField("module_id", id).Info("Student enrolled")
	return nil
}

func (s *moduleService) CanRead(ctx context.Context, moduleID uuid.UUID) (*Module, error) {
	claims, userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case auth.RoleAdmin:
		return m, nil
	case auth.RoleTeacher:
		if m.TeacherID == userID {
			return m, nil
		}
	case auth.RoleStudent:
		enrolled, err := s.repo.IsEnrolled(ctx, moduleID, userID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return m, nil
		}
	}

	config.WithContext(ctx).WithField("module_id", moduleID).Warn("Module not accessible to caller")
	return nil, ErrModuleNotFound
}

func (s *moduleService) CanAuthor(ctx context.Context, moduleID uuid.UUID) (*Module, error) {
	m, err := s.CanRead(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	claims, userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if claims.Role == auth.RoleAdmin || (claims.Role == auth.RoleTeacher && m.TeacherID == userID) {
		return m, nil
	}
	return nil, ErrNotAuthor
}

func caller(ctx context.Context) (*auth.Claims, uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, uuid.Nil, apperr.ErrUnauthorized
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, uuid.Nil, apperr.ErrUnauthorized
	}
	return claims, userID, nil
}
