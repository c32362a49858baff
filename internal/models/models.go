package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"network-subsite-menu/pkg/navigation"
)

type Setting struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Site is a subsite registered in the network directory.
type Site struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	// Soft-deleted rows are excluded from the unique index so a removed site
	// can be registered again.
	Domain   string `gorm:"size:255;uniqueIndex:idx_sites_domain_path,where:deleted_at IS NULL" json:"domain"`
	Path     string `gorm:"size:255;uniqueIndex:idx_sites_domain_path,where:deleted_at IS NULL;default:'/'" json:"path"`
	URL      string `gorm:"size:2048;not null" json:"url"`
	Public   bool   `gorm:"default:true" json:"public"`
	Archived bool   `gorm:"default:false" json:"archived"`
}

// Navigation converts the directory row into the record the menu renderer
// works with.
func (s Site) Navigation() navigation.Site {
	return navigation.Site{
		ID:       navigation.SiteID(s.ID),
		Name:     s.Name,
		URL:      s.URL,
		Domain:   s.Domain,
		Path:     s.Path,
		Public:   s.Public,
		Archived: s.Archived,
	}
}

type CreateSiteRequest struct {
	Name   string `json:"name" binding:"required,max=255,no_html"`
	URL    string `json:"url" binding:"required,url,max=2048"`
	Domain string `json:"domain" binding:"omitempty,hostname_port|hostname,max=255"`
	Path   string `json:"path" binding:"omitempty,startswith=/,max=255"`
}

// NetworkMenuSettings is the stored shape of the network menu configuration.
// The manual order lives under its own setting key.
type NetworkMenuSettings struct {
	EnabledSites []navigation.SiteID          `json:"enabled_sites"`
	URLs         map[navigation.SiteID]string `json:"urls,omitempty"`
	Labels       map[navigation.SiteID]string `json:"labels,omitempty"`
	MobileLabels map[navigation.SiteID]string `json:"mobile_labels,omitempty"`
}

// NetworkMenuConfig is the full snapshot loaded for one render.
type NetworkMenuConfig struct {
	NetworkMenuSettings
	MenuOrder string `json:"menu_order"`
}

// Enabled reports whether the menu has anything to show.
func (c NetworkMenuConfig) Enabled() bool {
	return len(c.EnabledSites) > 0
}

// Navigation converts the snapshot into the renderer configuration. A blank
// or malformed manual order is dropped.
func (c NetworkMenuConfig) Navigation() navigation.Config {
	cfg := navigation.Config{
		EnabledSites: append([]navigation.SiteID(nil), c.EnabledSites...),
		Labels:       copyOverrides(c.Labels),
		MobileLabels: copyOverrides(c.MobileLabels),
		URLs:         copyOverrides(c.URLs),
	}
	if order, ok := navigation.ParseMenuOrder(c.MenuOrder); ok {
		cfg.MenuOrder = order
	}
	return cfg
}

func copyOverrides(values map[navigation.SiteID]string) map[navigation.SiteID]string {
	result := make(map[navigation.SiteID]string, len(values))
	for id, value := range values {
		result[id] = value
	}
	return result
}

type UpdateNetworkMenuRequest struct {
	EnabledSites []navigation.SiteID          `json:"enabled_sites" binding:"omitempty,dive,gt=0"`
	URLs         map[navigation.SiteID]string `json:"urls" binding:"omitempty,dive,keys,gt=0,endkeys,max=2048"`
	Labels       map[navigation.SiteID]string `json:"labels" binding:"omitempty,dive,keys,gt=0,endkeys,max=255"`
	MobileLabels map[navigation.SiteID]string `json:"mobile_labels" binding:"omitempty,dive,keys,gt=0,endkeys,max=255"`
	MenuOrder    string                       `json:"menu_order" binding:"max=2048"`
}

// NetworkMenuEditorSite is one row of the admin editor: a directory site with
// its effective values.
type NetworkMenuEditorSite struct {
	ID          navigation.SiteID `json:"id"`
	Name        string            `json:"name"`
	SiteURL     string            `json:"site_url"`
	Enabled     bool              `json:"enabled"`
	URL         string            `json:"url"`
	Label       string            `json:"label"`
	MobileLabel string            `json:"mobile_label"`
}

type NetworkMenuEditor struct {
	Sites     []NetworkMenuEditorSite `json:"sites"`
	MenuOrder string                  `json:"menu_order"`
}

// NormalizeHost lowercases a host header and strips the port.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if strings.HasPrefix(host, "[") {
		if end := strings.Index(host, "]"); end != -1 {
			return host[1:end]
		}
		return host
	}
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
