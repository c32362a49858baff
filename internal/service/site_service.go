package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/repository"
	"network-subsite-menu/pkg/cache"
	"network-subsite-menu/pkg/logger"
	"network-subsite-menu/pkg/navigation"
)

var (
	// ErrSiteNotFound is returned when a site is not in the directory.
	ErrSiteNotFound = errors.New("site not found")
	// ErrInvalidSite wraps validation failures for new sites.
	ErrInvalidSite = errors.New("invalid site")
)

type SiteService struct {
	repo      repository.SiteRepository
	cache     *cache.Cache
	cacheTTL  time.Duration
	defaultID navigation.SiteID
}

func NewSiteService(repo repository.SiteRepository, cacheService *cache.Cache, cacheTTL time.Duration, defaultID uint) *SiteService {
	if repo == nil {
		return nil
	}
	return &SiteService{
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		defaultID: navigation.SiteID(defaultID),
	}
}

func (s *SiteService) List(ctx context.Context) ([]models.Site, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("site repository not configured")
	}
	return s.repo.List()
}

// Directory returns every site as a renderer record.
func (s *SiteService) Directory(ctx context.Context) ([]navigation.Site, error) {
	sites, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]navigation.Site, 0, len(sites))
	for _, site := range sites {
		result = append(result, site.Navigation())
	}
	return result, nil
}

func (s *SiteService) Create(ctx context.Context, req models.CreateSiteRequest) (*models.Site, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("site repository not configured")
	}

	name := strings.TrimSpace(req.Name)
	siteURL := strings.TrimSpace(req.URL)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSite)
	}

	parsed, err := url.Parse(siteURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) URL", ErrInvalidSite)
	}

	domain := models.NormalizeHost(req.Domain)
	if domain == "" {
		domain = models.NormalizeHost(parsed.Host)
	}

	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = parsed.Path
	}
	path = normalizeSitePath(path)

	site := &models.Site{
		Name:   name,
		Domain: domain,
		Path:   path,
		URL:    siteURL,
		Public: true,
	}
	if err := s.repo.Create(site); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithField("site_id", site.ID).Info("Site registered")
	return site, nil
}

// EnsureMainSite registers the main site when the directory is empty. The
// returned flag reports whether a site was created.
func (s *SiteService) EnsureMainSite(ctx context.Context, name, siteURL string) (*models.Site, bool, error) {
	if s == nil || s.repo == nil {
		return nil, false, errors.New("site repository not configured")
	}

	count, err := s.repo.Count()
	if err != nil {
		return nil, false, err
	}
	if count > 0 {
		return nil, false, nil
	}

	site, err := s.Create(ctx, models.CreateSiteRequest{Name: name, URL: siteURL})
	if err != nil {
		return nil, false, err
	}
	return site, true, nil
}

func (s *SiteService) Delete(ctx context.Context, id uint) error {
	if s == nil || s.repo == nil {
		return errors.New("site repository not configured")
	}

	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	if err := s.cache.InvalidateSite(ctx, id); err != nil {
		logger.Error(err, "Failed to invalidate site cache", map[string]interface{}{"site_id": id})
	}
	return nil
}

// Lookup resolves a site for the menu renderer. Missing sites and lookup
// failures are both reported as absent; failures are logged.
func (s *SiteService) Lookup(ctx context.Context, id navigation.SiteID) (navigation.Site, bool) {
	if s == nil || s.repo == nil || id == 0 {
		return navigation.Site{}, false
	}

	var cached navigation.Site
	if err := s.cache.GetCachedSite(ctx, uint(id), &cached); err == nil {
		return cached, true
	}

	site, err := s.repo.GetByID(uint(id))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.FromContext(ctx).WithError(err).WithField("site_id", uint(id)).Warn("Failed to load site, skipping")
		}
		return navigation.Site{}, false
	}

	record := site.Navigation()
	if err := s.cache.CacheSite(ctx, uint(id), record, s.cacheTTL); err != nil {
		logger.FromContext(ctx).WithError(err).Debug("Failed to cache site")
	}
	return record, true
}

// ResolveCurrent picks the site the request belongs to. An explicit id wins,
// then the request host and path; the configured default is used otherwise.
func (s *SiteService) ResolveCurrent(ctx context.Context, host, path, explicit string) navigation.SiteID {
	if id, ok := navigation.ParseSiteID(explicit); ok {
		return id
	}
	if s == nil {
		return 0
	}

	if domain := models.NormalizeHost(host); domain != "" && s.repo != nil {
		site, err := s.repo.GetByDomain(domain, firstPathSegment(path))
		if err == nil {
			return navigation.SiteID(site.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.FromContext(ctx).WithError(err).WithField("host", domain).Warn("Failed to resolve current site")
		}
	}

	return s.defaultID
}

func normalizeSitePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return "/"
	}
	path = "/" + strings.Trim(path, "/") + "/"
	return path
}

// firstPathSegment maps a request path onto a subdirectory site path.
func firstPathSegment(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return "/"
	}
	if idx := strings.Index(trimmed, "/"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	return "/" + trimmed + "/"
}
