package service

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/repository"
)

type memorySettingRepository struct {
	store  map[string]string
	getErr error
	setErr error
	writes int
}

func newMemorySettingRepository() *memorySettingRepository {
	return &memorySettingRepository{store: make(map[string]string)}
}

func (m *memorySettingRepository) GetValues(keys ...string) (map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := m.store[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func (m *memorySettingRepository) SetValues(values map[string]string, deleteKeys ...string) error {
	m.writes++
	if m.setErr != nil {
		return m.setErr
	}
	for key, value := range values {
		m.store[key] = value
	}
	for _, key := range deleteKeys {
		delete(m.store, key)
	}
	return nil
}

var _ repository.SettingRepository = (*memorySettingRepository)(nil)

type memorySiteRepository struct {
	sites   map[uint]models.Site
	deleted map[uint]models.Site
	nextID  uint
	getErr  error
	gets    int
}

func newMemorySiteRepository(sites ...models.Site) *memorySiteRepository {
	repo := &memorySiteRepository{
		sites:   make(map[uint]models.Site),
		deleted: make(map[uint]models.Site),
		nextID:  1,
	}
	for _, site := range sites {
		repo.sites[site.ID] = site
		if site.ID >= repo.nextID {
			repo.nextID = site.ID + 1
		}
	}
	return repo
}

func (m *memorySiteRepository) List() ([]models.Site, error) {
	result := make([]models.Site, 0, len(m.sites))
	for _, site := range m.sites {
		result = append(result, site)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memorySiteRepository) GetByID(id uint) (*models.Site, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	site, ok := m.sites[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &site, nil
}

func (m *memorySiteRepository) GetByDomain(domain, path string) (*models.Site, error) {
	var match *models.Site
	for _, site := range m.sites {
		site := site
		if site.Domain != domain {
			continue
		}
		if site.Path == path {
			return &site, nil
		}
		if site.Path == "/" {
			match = &site
		}
	}
	if match == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return match, nil
}

func (m *memorySiteRepository) Create(site *models.Site) error {
	for _, existing := range m.sites {
		if existing.Domain == site.Domain && existing.Path == site.Path {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	site.ID = m.nextID
	m.nextID++
	m.sites[site.ID] = *site
	return nil
}

// Delete keeps the row aside like a soft delete; only live rows take part in
// the domain/path uniqueness check.
func (m *memorySiteRepository) Delete(id uint) error {
	if site, ok := m.sites[id]; ok {
		m.deleted[id] = site
		delete(m.sites, id)
	}
	return nil
}

func (m *memorySiteRepository) Count() (int64, error) {
	return int64(len(m.sites)), nil
}

var _ repository.SiteRepository = (*memorySiteRepository)(nil)

func networkSites() *memorySiteRepository {
	return newMemorySiteRepository(
		models.Site{ID: 1, Name: "Main", Domain: "network.test", Path: "/", URL: "https://network.test"},
		models.Site{ID: 2, Name: "Blog 2", Domain: "network.test", Path: "/blog/", URL: "https://b2.test"},
		models.Site{ID: 3, Name: "Shop", Domain: "shop.test", Path: "/", URL: "https://shop.test"},
	)
}
