package repository

import (
	"network-subsite-menu/internal/models"

	"gorm.io/gorm"
)

type SiteRepository interface {
	List() ([]models.Site, error)
	GetByID(id uint) (*models.Site, error)
	GetByDomain(domain, path string) (*models.Site, error)
	Create(site *models.Site) error
	Delete(id uint) error
	Count() (int64, error)
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) List() ([]models.Site, error) {
	var sites []models.Site
	err := r.db.Order("id ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepository) GetByID(id uint) (*models.Site, error) {
	var site models.Site
	err := r.db.First(&site, id).Error
	return &site, err
}

// GetByDomain prefers an exact path match and falls back to the domain root.
func (r *siteRepository) GetByDomain(domain, path string) (*models.Site, error) {
	var site models.Site
	err := r.db.
		Where("domain = ? AND path IN ?", domain, []string{path, "/"}).
		Order("LENGTH(path) DESC").
		First(&site).Error
	return &site, err
}

func (r *siteRepository) Create(site *models.Site) error {
	return r.db.Create(site).Error
}

func (r *siteRepository) Delete(id uint) error {
	return r.db.Delete(&models.Site{}, id).Error
}

func (r *siteRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Site{}).Count(&count).Error
	return count, err
}
