package repository

import (
	"network-subsite-menu/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	GetValues(keys ...string) (map[string]string, error)
	SetValues(values map[string]string, deleteKeys ...string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetValues loads several keys at once. Missing keys are absent from the map.
func (r *settingRepository) GetValues(keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	var settings []models.Setting
	if err := r.db.Where("key IN ?", keys).Find(&settings).Error; err != nil {
		return nil, err
	}
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// SetValues writes all values and removes deleteKeys in one transaction.
// Either every change is applied or none is.
func (r *settingRepository) SetValues(values map[string]string, deleteKeys ...string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		if len(deleteKeys) == 0 {
			return nil
		}
		return tx.Unscoped().Delete(&models.Setting{}, "key IN ?", deleteKeys).Error
	})
}

func upsertSetting(db *gorm.DB, key, value string) error {
	setting := &models.Setting{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")}),
	}).Create(setting).Error
}
