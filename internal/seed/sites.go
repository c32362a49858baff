package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"net/url"
	"sort"
	"strings"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/service"
	"network-subsite-menu/pkg/logger"
)

// EnsureMainSite registers the main site when the directory is empty.
func EnsureMainSite(ctx context.Context, siteService *service.SiteService, name, siteURL string) {
	if siteService == nil {
		return
	}

	site, created, err := siteService.EnsureMainSite(ctx, name, siteURL)
	if err != nil {
		logger.Error(err, "Failed to ensure main site", map[string]interface{}{"url": siteURL})
		return
	}

	if !created {
		logger.Info("Site directory already populated", nil)
		return
	}

	logger.Info("Created main site", map[string]interface{}{
		"id":   site.ID,
		"name": site.Name,
		"url":  site.URL,
	})
}

// EnsureDefaultSites loads site definitions from the JSON files in dataFS and
// registers the ones missing from the directory.
func EnsureDefaultSites(ctx context.Context, siteService service.SiteUseCase, dataFS fs.FS) {
	if siteService == nil || dataFS == nil {
		return
	}

	entries, err := fs.ReadDir(dataFS, ".")
	if err != nil {
		logger.Debug("No site definitions found", map[string]interface{}{"error": err.Error()})
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	existing, err := siteService.List(ctx)
	if err != nil {
		logger.Error(err, "Failed to load existing sites", nil)
		return
	}

	seen := make(map[string]bool, len(existing))
	for _, site := range existing {
		seen[siteKey(site.URL)] = true
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		data, err := fs.ReadFile(dataFS, name)
		if err != nil {
			logger.Error(err, "Failed to read site definition", map[string]interface{}{"file": name})
			continue
		}

		definitions, err := parseSiteDefinitions(data)
		if err != nil {
			logger.Error(err, "Failed to parse site definition", map[string]interface{}{"file": name})
			continue
		}

		for _, definition := range definitions {
			ensureSite(ctx, siteService, definition, seen, name)
		}
	}
}

func ensureSite(ctx context.Context, siteService service.SiteUseCase, definition models.CreateSiteRequest, seen map[string]bool, source string) {
	key := siteKey(definition.URL)
	if key == "" || strings.TrimSpace(definition.Name) == "" {
		return
	}
	if seen[key] {
		logger.Debug("Site already registered", map[string]interface{}{"url": definition.URL, "source": source})
		return
	}

	site, err := siteService.Create(ctx, definition)
	if err != nil {
		logger.Error(err, "Failed to register site", map[string]interface{}{"url": definition.URL, "source": source})
		return
	}

	seen[key] = true
	logger.Info("Registered site", map[string]interface{}{"id": site.ID, "url": site.URL, "source": source})
}

func parseSiteDefinitions(data []byte) ([]models.CreateSiteRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var definitions []models.CreateSiteRequest
		if err := json.Unmarshal(trimmed, &definitions); err != nil {
			return nil, err
		}
		return definitions, nil
	}

	var definition models.CreateSiteRequest
	if err := json.Unmarshal(trimmed, &definition); err != nil {
		return nil, err
	}

	return []models.CreateSiteRequest{definition}, nil
}

// siteKey identifies a site by host and path, ignoring scheme and case.
func siteKey(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return ""
	}
	return models.NormalizeHost(parsed.Host) + "/" + strings.Trim(strings.ToLower(parsed.Path), "/")
}
