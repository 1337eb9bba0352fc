package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/scriptink/writofest-api/internal/models"
	"github.com/scriptink/writofest-api/internal/registration"
	"gorm.io/gorm"
)

// RegistrationStore persists registrations with gorm.
type RegistrationStore struct {
	db *gorm.DB
}

func NewRegistrationStore(db *gorm.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

// FindByIdentifier returns the most recent record for usn.
func (s *RegistrationStore) FindByIdentifier(ctx context.Context, usn string) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.WithContext(ctx).
		Where("usn = ?", usn).
		Order("id desc").
		First(&reg).Error
	return found(&reg, err)
}

// FindDuplicate matches on identifier, name and the joined events string.
func (s *RegistrationStore) FindDuplicate(ctx context.Context, usn, name, events string) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.WithContext(ctx).
		Where("usn = ? AND name = ? AND events = ?", usn, name, events).
		First(&reg).Error
	return found(&reg, err)
}

func (s *RegistrationStore) Insert(ctx context.Context, reg *models.Registration) error {
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing record, zero values included.
func (s *RegistrationStore) Update(ctx context.Context, reg *models.Registration) error {
	if reg.ID == 0 {
		return fmt.Errorf("update registration: missing id")
	}
	if err := s.db.WithContext(ctx).Save(reg).Error; err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Event string
}

// List returns registrations newest first.
func (s *RegistrationStore) List(ctx context.Context, filter ListFilter) ([]models.Registration, error) {
	q := s.db.WithContext(ctx).Order("created_at desc, id desc")
	if filter.Event != "" {
		q = q.Where("events LIKE ?", "%"+filter.Event+"%")
	}

	var regs []models.Registration
	if err := q.Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func found(reg *models.Registration, err error) (*models.Registration, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, registration.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}
