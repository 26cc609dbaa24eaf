package services

import (
	"context"
	"fmt"

	"dental-clinic-server/internal/models"

	"gorm.io/gorm"
)

// ToothUpdate describes the new state for one tooth in an odontogram
// update. Teeth not mentioned keep their previous state.
type ToothUpdate struct {
	Number    int                   `json:"number" binding:"required"`
	Condition models.ToothCondition `json:"condition" binding:"required"`
	Occlusal  string                `json:"occlusal"`
	Mesial    string                `json:"mesial"`
	Distal    string                `json:"distal"`
	Buccal    string                `json:"buccal"`
	Lingual   string                `json:"lingual"`
	Notes     string                `json:"notes"`
}

// OdontogramService maintains the versioned dental chart. Versions are
// immutable: every update copies all teeth into a new version row.
type OdontogramService struct {
	DB *gorm.DB
}

// NewOdontogramService creates a new OdontogramService.
func NewOdontogramService(db *gorm.DB) *OdontogramService {
	return &OdontogramService{DB: db}
}

// Current returns the patient's current odontogram with teeth preloaded,
// or gorm.ErrRecordNotFound if none exists yet.
func (s *OdontogramService) Current(ctx context.Context, patientID string) (*models.Odontogram, error) {
	var odontogram models.Odontogram
	err := s.DB.WithContext(ctx).Preload("Teeth").
		Where("patient_id = ? AND is_current = ?", patientID, true).
		First(&odontogram).Error
	if err != nil {
		return nil, err
	}
	return &odontogram, nil
}

// Initial creates version 1 of a patient's odontogram, seeding the 32
// permanent teeth as healthy.
func (s *OdontogramService) Initial(ctx context.Context, patientID string) (*models.Odontogram, error) {
	odontogram := &models.Odontogram{
		PatientID: patientID,
		Version:   1,
		IsCurrent: true,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Odontogram{}).Where("patient_id = ?", patientID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("patient already has an odontogram")
		}
		if err := tx.Create(odontogram).Error; err != nil {
			return err
		}
		teeth := make([]models.Tooth, 0, len(models.PermanentFDINumbers))
		for _, n := range models.PermanentFDINumbers {
			teeth = append(teeth, models.Tooth{
				OdontogramID: odontogram.ID,
				Number:       n,
				Condition:    models.ConditionHealthy,
			})
		}
		if err := tx.Create(&teeth).Error; err != nil {
			return err
		}
		odontogram.Teeth = teeth
		return nil
	})
	if err != nil {
		return nil, err
	}
	return odontogram, nil
}

// Update applies tooth changes by creating a new version: all teeth of the
// current version are copied, the listed updates overwrite their copies,
// the previous version loses the current flag. One transaction, strictly
// linear history.
func (s *OdontogramService) Update(ctx context.Context, patientID string, updates []ToothUpdate, notes string) (*models.Odontogram, error) {
	byNumber := make(map[int]ToothUpdate, len(updates))
	for _, u := range updates {
		if !models.ValidFDINumber(u.Number) {
			return nil, fmt.Errorf("invalid FDI tooth number %d", u.Number)
		}
		byNumber[u.Number] = u
	}

	var next *models.Odontogram
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Odontogram
		if err := tx.Preload("Teeth").
			Where("patient_id = ? AND is_current = ?", patientID, true).
			First(&current).Error; err != nil {
			return err
		}

		next = &models.Odontogram{
			PatientID: patientID,
			Version:   current.Version + 1,
			IsCurrent: true,
			Notes:     notes,
		}
		if err := tx.Create(next).Error; err != nil {
			return err
		}

		teeth := make([]models.Tooth, 0, len(current.Teeth))
		seen := make(map[int]bool, len(current.Teeth))
		for _, t := range current.Teeth {
			copied := models.Tooth{
				OdontogramID: next.ID,
				Number:       t.Number,
				Condition:    t.Condition,
				Occlusal:     t.Occlusal,
				Mesial:       t.Mesial,
				Distal:       t.Distal,
				Buccal:       t.Buccal,
				Lingual:      t.Lingual,
				Notes:        t.Notes,
			}
			if u, ok := byNumber[t.Number]; ok {
				applyToothUpdate(&copied, u)
			}
			seen[t.Number] = true
			teeth = append(teeth, copied)
		}
		// Updates for teeth not yet on the chart (temporary dentition) are
		// added as new entries.
		for number, u := range byNumber {
			if seen[number] {
				continue
			}
			added := models.Tooth{OdontogramID: next.ID, Number: number}
			applyToothUpdate(&added, u)
			teeth = append(teeth, added)
		}
		if err := tx.Create(&teeth).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Odontogram{}).
			Where("id = ?", current.ID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		next.Teeth = teeth
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// History returns every odontogram version for a patient, newest first,
// without teeth.
func (s *OdontogramService) History(ctx context.Context, patientID string) ([]models.Odontogram, error) {
	var versions []models.Odontogram
	err := s.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("version desc").
		Find(&versions).Error
	return versions, err
}

// Version returns one specific odontogram version with teeth preloaded.
func (s *OdontogramService) Version(ctx context.Context, patientID string, version int) (*models.Odontogram, error) {
	var odontogram models.Odontogram
	err := s.DB.WithContext(ctx).Preload("Teeth").
		Where("patient_id = ? AND version = ?", patientID, version).
		First(&odontogram).Error
	if err != nil {
		return nil, err
	}
	return &odontogram, nil
}

func applyToothUpdate(t *models.Tooth, u ToothUpdate) {
	t.Condition = u.Condition
	t.Occlusal = u.Occlusal
	t.Mesial = u.Mesial
	t.Distal = u.Distal
	t.Buccal = u.Buccal
	t.Lingual = u.Lingual
	t.Notes = u.Notes
}
