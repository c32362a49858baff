package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"network-subsite-menu/internal/metrics"
	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/repository"
	"network-subsite-menu/pkg/cache"
	"network-subsite-menu/pkg/logger"
	"network-subsite-menu/pkg/navigation"
	"network-subsite-menu/pkg/validator"
)

const (
	settingKeyMenuSiteSettings = "network_menu.site_settings"
	settingKeyMenuOrder        = "network_menu.menu_order"
)

// ErrInvalidMenuSettings wraps every validation failure of a settings update.
var ErrInvalidMenuSettings = errors.New("invalid menu settings")

type MenuSettingsService struct {
	settingRepo repository.SettingRepository
	siteRepo    repository.SiteRepository
	cache       *cache.Cache
	cacheTTL    time.Duration
}

func NewMenuSettingsService(settingRepo repository.SettingRepository, siteRepo repository.SiteRepository, cacheService *cache.Cache, cacheTTL time.Duration) *MenuSettingsService {
	if settingRepo == nil {
		return nil
	}
	return &MenuSettingsService{
		settingRepo: settingRepo,
		siteRepo:    siteRepo,
		cache:       cacheService,
		cacheTTL:    cacheTTL,
	}
}

// Load returns the stored configuration. Missing keys yield an empty
// configuration, which renders nothing.
func (s *MenuSettingsService) Load(ctx context.Context) (models.NetworkMenuConfig, error) {
	if s == nil || s.settingRepo == nil {
		return models.NetworkMenuConfig{}, errors.New("setting repository not configured")
	}

	var cfg models.NetworkMenuConfig
	err := s.cache.GetCachedMenuSettings(ctx, &cfg)
	switch {
	case err == nil:
		metrics.SettingsCacheResults.WithLabelValues("hit").Inc()
		return cfg, nil
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.SettingsCacheResults.WithLabelValues("miss").Inc()
	case errors.Is(err, cache.ErrCacheDisabled):
	default:
		cfg = models.NetworkMenuConfig{}
		metrics.SettingsCacheResults.WithLabelValues("error").Inc()
		logger.FromContext(ctx).WithError(err).Warn("Failed to read menu settings from cache")
	}

	values, err := s.settingRepo.GetValues(settingKeyMenuSiteSettings, settingKeyMenuOrder)
	if err != nil {
		return models.NetworkMenuConfig{}, fmt.Errorf("failed to load menu settings: %w", err)
	}

	if raw := strings.TrimSpace(values[settingKeyMenuSiteSettings]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.NetworkMenuSettings); err != nil {
			return models.NetworkMenuConfig{}, fmt.Errorf("failed to decode menu settings: %w", err)
		}
	}
	cfg.MenuOrder = strings.TrimSpace(values[settingKeyMenuOrder])

	if err := s.cache.CacheMenuSettings(ctx, cfg, s.cacheTTL); err != nil {
		logger.FromContext(ctx).WithError(err).Debug("Failed to cache menu settings")
	}

	return cfg, nil
}

// Save validates and persists a settings update. Overrides equal to the
// directory defaults are not stored so later renames of a site show up.
func (s *MenuSettingsService) Save(ctx context.Context, req models.UpdateNetworkMenuRequest) (models.NetworkMenuConfig, error) {
	if s == nil || s.settingRepo == nil {
		return models.NetworkMenuConfig{}, errors.New("setting repository not configured")
	}

	directory, err := s.directory()
	if err != nil {
		return models.NetworkMenuConfig{}, err
	}

	enabled, err := normalizeEnabledSites(req.EnabledSites, directory)
	if err != nil {
		return models.NetworkMenuConfig{}, err
	}

	settings := models.NetworkMenuSettings{
		EnabledSites: enabled,
		URLs:         map[navigation.SiteID]string{},
		Labels:       map[navigation.SiteID]string{},
		MobileLabels: map[navigation.SiteID]string{},
	}

	for id, raw := range req.URLs {
		value := strings.TrimSpace(raw)
		site, known := directory[id]
		if value == "" || !known || value == site.URL {
			continue
		}
		if !validator.ValidateMenuURL(value) {
			return models.NetworkMenuConfig{}, fmt.Errorf("%w: url for site %d must be an http(s) URL or a path", ErrInvalidMenuSettings, id)
		}
		settings.URLs[id] = value
	}

	for id, raw := range req.Labels {
		value := validator.NormalizeLabel(raw)
		site, known := directory[id]
		if value == "" || !known || value == site.Name {
			continue
		}
		settings.Labels[id] = value
	}

	for id, raw := range req.MobileLabels {
		value := validator.NormalizeLabel(raw)
		if _, known := directory[id]; value == "" || !known {
			continue
		}
		label := directory[id].Name
		if custom, ok := settings.Labels[id]; ok {
			label = custom
		}
		if value == label {
			continue
		}
		settings.MobileLabels[id] = value
	}

	menuOrder := ""
	if raw := strings.TrimSpace(req.MenuOrder); raw != "" {
		order, ok := navigation.ParseMenuOrder(raw)
		if !ok {
			return models.NetworkMenuConfig{}, fmt.Errorf("%w: menu order must be a comma separated list of site ids", ErrInvalidMenuSettings)
		}
		menuOrder = navigation.FormatMenuOrder(order)
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		return models.NetworkMenuConfig{}, err
	}

	// Settings and order are written in one transaction.
	values := map[string]string{settingKeyMenuSiteSettings: string(payload)}
	var clearKeys []string
	if menuOrder == "" {
		clearKeys = append(clearKeys, settingKeyMenuOrder)
	} else {
		values[settingKeyMenuOrder] = menuOrder
	}
	if err := s.settingRepo.SetValues(values, clearKeys...); err != nil {
		return models.NetworkMenuConfig{}, fmt.Errorf("failed to save menu settings: %w", err)
	}

	if err := s.cache.InvalidateMenuSettings(ctx); err != nil {
		logger.Error(err, "Failed to invalidate menu settings cache", nil)
	}

	cfg := models.NetworkMenuConfig{NetworkMenuSettings: settings, MenuOrder: menuOrder}
	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"enabled_sites": len(cfg.EnabledSites),
		"menu_order":    cfg.MenuOrder,
	}).Info("Network menu settings updated")

	return cfg, nil
}

func (s *MenuSettingsService) directory() (map[navigation.SiteID]models.Site, error) {
	result := map[navigation.SiteID]models.Site{}
	if s.siteRepo == nil {
		return result, nil
	}
	sites, err := s.siteRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	for _, site := range sites {
		result[navigation.SiteID(site.ID)] = site
	}
	return result, nil
}

func normalizeEnabledSites(ids []navigation.SiteID, directory map[navigation.SiteID]models.Site) ([]navigation.SiteID, error) {
	seen := make(map[navigation.SiteID]struct{}, len(ids))
	result := make([]navigation.SiteID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := directory[id]; !ok {
			return nil, fmt.Errorf("%w: site %d does not exist", ErrInvalidMenuSettings, id)
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}
