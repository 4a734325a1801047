package service

import (
	"context"
	"fmt"
	"strings"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
)

// ReferenceService manages positions, ship types, and question categories.
type ReferenceService interface {
	List(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error)
	GetByID(ctx context.Context, kind domain.ReferenceKind, id string) (*domain.Reference, error)
	Create(ctx context.Context, kind domain.ReferenceKind, req *dto.ReferenceRequest) (*domain.Reference, error)
}

type referenceService struct {
	repo domain.ReferenceRepository
}

func NewReferenceService(repo domain.ReferenceRepository) ReferenceService {
	return &referenceService{repo: repo}
}

func (s *referenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error) {
	if !kind.Valid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown reference kind: %s", kind))
	}
	refs, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list references", err)
	}
	if refs == nil {
		refs = []*domain.Reference{}
	}
	return refs, nil
}

func (s *referenceService) GetByID(ctx context.Context, kind domain.ReferenceKind, id string) (*domain.Reference, error) {
	if !kind.Valid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown reference kind: %s", kind))
	}
	ref, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get reference", err)
	}
	if ref == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, id))
	}
	return ref, nil
}

// Create rejects a name that already exists for the kind, compared case-insensitively.
func (s *referenceService) Create(ctx context.Context, kind domain.ReferenceKind, req *dto.ReferenceRequest) (*domain.Reference, error) {
	if !kind.Valid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown reference kind: %s", kind))
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("name")}
	}

	existing, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list references", err)
	}
	for _, ref := range existing {
		if strings.EqualFold(strings.TrimSpace(ref.Name), name) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("%s %q already exists", kind, name)).
				WithContext("id", ref.ID)
		}
	}

	ref := &domain.Reference{Kind: kind, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.Create(ctx, ref); err != nil {
		logger.Get().Error("Failed to create reference", zap.Error(err), zap.String("kind", string(kind)), zap.String("name", name))
		return nil, domain.NewInternalError("Failed to create reference", err)
	}
	logger.Get().Info("Reference created", zap.String("kind", string(kind)), zap.String("id", ref.ID))
	return ref, nil
}
