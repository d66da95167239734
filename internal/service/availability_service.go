package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type availabilityRepo interface {
	ListAll(ctx context.Context) ([]models.SpecialistAvailability, error)
	ReplaceAll(ctx context.Context, specialists []models.SpecialistAvailability) error
}

// SpecialistUpload is one specialist row in a bulk availability load.
type SpecialistUpload struct {
	DNI    models.SpecialistID       `json:"dni" validate:"required"`
	Nombre string                    `json:"nombre" validate:"required"`
	Slots  []models.AvailabilitySlot `json:"disponibilidad" validate:"dive"`
}

// AvailabilityService manages the specialist availability pool.
type AvailabilityService struct {
	repo      availabilityRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs the availability service.
func NewAvailabilityService(repo availabilityRepo, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// List returns the full availability pool in load order.
func (s *AvailabilityService) List(ctx context.Context) ([]models.SpecialistAvailability, error) {
	specialists, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return specialists, nil
}

// Replace swaps the whole availability pool for the uploaded one. Upload
// order is preserved and becomes the tie-break order for matching.
func (s *AvailabilityService) Replace(ctx context.Context, uploads []SpecialistUpload) (int, error) {
	if len(uploads) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "at least one specialist is required")
	}

	specialists := make([]models.SpecialistAvailability, 0, len(uploads))
	for i, upload := range uploads {
		if err := s.validator.Struct(upload); err != nil {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("specialist %d: %v", i, err))
		}
		dni := upload.DNI.String()
		if dni == "" {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("specialist %d: dni is required", i))
		}
		specialists = append(specialists, models.SpecialistAvailability{
			DNI:    models.SpecialistID(dni),
			Nombre: upload.Nombre,
			Slots:  models.AvailabilitySlotList(upload.Slots),
		})
	}

	if err := s.repo.ReplaceAll(ctx, specialists); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace availability")
	}

	s.logger.Sugar().Infow("availability pool replaced", "especialistas", len(specialists))
	return len(specialists), nil
}
