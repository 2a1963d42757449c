package repositories

import (
	"errors"
	"fmt"

	"sahulat/internal/models"

	"gorm.io/gorm"
)

type CaseRequestRepository interface {
	Create(req *models.CaseRequest) error
	GetByID(id uint) (*models.CaseRequest, error)
	ListByUser(userID uint) ([]models.CaseRequest, error)
	ListByStatus(caseType string, statuses ...string) ([]models.CaseRequest, error)
	CountByStatus(caseType string, statuses ...string) (int64, error)
	UpdateStatus(id uint, status string, handledBy uint, remarks string) (*models.CaseRequest, error)
}

type caseRequestRepository struct {
	db *gorm.DB
}

func NewCaseRequestRepository(db *gorm.DB) CaseRequestRepository {
	return &caseRequestRepository{db: db}
}

func (r *caseRequestRepository) Create(req *models.CaseRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create case request: %w", err)
	}
	return nil
}

func (r *caseRequestRepository) GetByID(id uint) (*models.CaseRequest, error) {
	var req models.CaseRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case request: %w", err)
	}
	return &req, nil
}

func (r *caseRequestRepository) ListByUser(userID uint) ([]models.CaseRequest, error) {
	var reqs []models.CaseRequest
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list case requests: %w", err)
	}
	return reqs, nil
}

func (r *caseRequestRepository) ListByStatus(caseType string, statuses ...string) ([]models.CaseRequest, error) {
	var reqs []models.CaseRequest
	q := r.db.Where("status IN ?", statuses).Order("created_at DESC")
	if caseType != "" {
		q = q.Where("type = ?", caseType)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list case requests: %w", err)
	}
	return reqs, nil
}

func (r *caseRequestRepository) CountByStatus(caseType string, statuses ...string) (int64, error) {
	var count int64
	q := r.db.Model(&models.CaseRequest{}).Where("status IN ?", statuses)
	if caseType != "" {
		q = q.Where("type = ?", caseType)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count case requests: %w", err)
	}
	return count, nil
}

func (r *caseRequestRepository) UpdateStatus(id uint, status string, handledBy uint, remarks string) (*models.CaseRequest, error) {
	req, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	req.Status = status
	req.HandledBy = &handledBy
	req.Remarks = remarks
	if err := r.db.Save(req).Error; err != nil {
		return nil, fmt.Errorf("failed to update case request: %w", err)
	}
	return req, nil
}
