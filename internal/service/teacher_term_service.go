package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type teacherTermRepo interface {
	List(ctx context.Context, filter models.TeacherTermFilter) ([]models.TeacherTerm, int, error)
	BulkInsert(ctx context.Context, periodo string, teachers []models.TeacherTerm) error
}

// TeacherUpload is one roster row in a bulk teacher-term load.
type TeacherUpload struct {
	DocenteID string          `json:"docenteId" validate:"required"`
	Nombre    string          `json:"nombre" validate:"required"`
	Rol       string          `json:"rol"`
	Programa  string          `json:"programa"`
	Modalidad string          `json:"modalidad"`
	ESA       *float64        `json:"esa"`
	Cursos    []models.Course `json:"cursos"`
}

// TeacherTermService manages per-term roster loads and reads.
type TeacherTermService struct {
	repo      teacherTermRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherTermService constructs the roster service.
func NewTeacherTermService(repo teacherTermRepo, validate *validator.Validate, logger *zap.Logger) *TeacherTermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherTermService{repo: repo, validator: validate, logger: logger}
}

// List returns the newest roster generation for a term.
func (s *TeacherTermService) List(ctx context.Context, filter models.TeacherTermFilter) ([]models.TeacherTerm, *models.Pagination, error) {
	if !models.ValidPeriodo(filter.Periodo) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("periodo %q must match YYYY-N", filter.Periodo))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// BulkLoad writes a fresh roster generation for one term. Upload order is
// preserved and defines the processing order of the next match run.
func (s *TeacherTermService) BulkLoad(ctx context.Context, periodo string, uploads []TeacherUpload) (int, error) {
	if !models.ValidPeriodo(periodo) {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("periodo %q must match YYYY-N", periodo))
	}
	if len(uploads) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "at least one teacher is required")
	}

	teachers := make([]models.TeacherTerm, 0, len(uploads))
	for i, upload := range uploads {
		if err := s.validator.Struct(upload); err != nil {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("teacher %d: %v", i, err))
		}
		docenteID := strings.TrimSpace(upload.DocenteID)
		if docenteID == "" {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("teacher %d: docenteId is required", i))
		}
		teachers = append(teachers, models.TeacherTerm{
			Periodo:   periodo,
			DocenteID: docenteID,
			Nombre:    upload.Nombre,
			Rol:       upload.Rol,
			Programa:  upload.Programa,
			Modalidad: upload.Modalidad,
			ESA:       upload.ESA,
			Cursos:    models.CourseList(upload.Cursos),
		})
	}

	if err := s.repo.BulkInsert(ctx, periodo, teachers); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	s.logger.Sugar().Infow("roster loaded", "periodo", periodo, "docentes", len(teachers))
	return len(teachers), nil
}
