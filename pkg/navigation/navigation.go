package navigation

import (
	"strconv"
	"strings"
)

// Location is the menu location identifier that triggers the network subsite
// menu. Any other location is passed through untouched by the renderer host.
const Location = "network_subsite_menu"

// SiteID identifies a subsite within the network. Zero is never a valid site.
type SiteID uint

func (id SiteID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Site is the directory record of a subsite as supplied by the host.
type Site struct {
	ID       SiteID `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Public   bool   `json:"public"`
	Archived bool   `json:"archived"`
}

// Config is a read-only snapshot of the menu settings used for one render.
// A blank or whitespace-only label, mobile label or URL counts as absent and
// falls back to the directory record (the label, for the mobile label).
type Config struct {
	EnabledSites []SiteID
	Labels       map[SiteID]string
	MobileLabels map[SiteID]string
	URLs         map[SiteID]string
	// MenuOrder is nil when no manual order has been stored.
	MenuOrder []SiteID
}

// Entry is one rendered menu link.
type Entry struct {
	ID          SiteID `json:"id"`
	Label       string `json:"label"`
	MobileLabel string `json:"mobile_label"`
	URL         string `json:"url"`
	Current     bool   `json:"current"`
	ElementID   string `json:"element_id,omitempty"`
}

// Lookup resolves a site from the directory. ok is false when the site does
// not exist anymore.
type Lookup func(id SiteID) (site Site, ok bool)

// DisplayOrder returns the ids in the order they should be rendered. The
// manual order only wins when it covers as many ids as are enabled; a stale
// or partial order would otherwise silently drop entries.
func (c Config) DisplayOrder() []SiteID {
	if len(c.EnabledSites) == 0 {
		return nil
	}
	order := c.EnabledSites
	if c.MenuOrder != nil && len(c.MenuOrder) == len(c.EnabledSites) {
		order = c.MenuOrder
	}

	seen := make(map[SiteID]struct{}, len(order))
	result := make([]SiteID, 0, len(order))
	for _, id := range order {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// Resolve builds the menu entries for the given configuration. Sites that
// cannot be resolved are skipped and at most one entry is marked current: the
// first one in display order wins.
func Resolve(cfg Config, current SiteID, lookup Lookup, hooks Hooks) []Entry {
	order := cfg.DisplayOrder()
	if len(order) == 0 {
		return []Entry{}
	}
	hooks = hooks.withDefaults()

	entries := make([]Entry, 0, len(order))
	currentSet := false

	for _, id := range order {
		site, ok := hooks.Preload(id)
		if !ok {
			if lookup == nil {
				continue
			}
			site, ok = lookup(id)
			if !ok {
				continue
			}
		}
		site.Name = override(cfg.Labels, id, site.Name)
		site.URL = override(cfg.URLs, id, site.URL)
		isCurrent := hooks.IsCurrent(id == current, id)

		// Transform sees the overridden record and has the final say.
		site = hooks.Transform(site, id)

		entry := Entry{ID: id, Label: site.Name, URL: site.URL}
		entry.MobileLabel = override(cfg.MobileLabels, id, entry.Label)

		if isCurrent && !currentSet {
			entry.Current = true
			currentSet = true
		}

		entry.ElementID = strings.TrimSpace(hooks.ElementID("menu-item-"+id.String(), entry))
		entries = append(entries, entry)
	}

	return entries
}

func override(values map[SiteID]string, id SiteID, fallback string) string {
	if value, ok := values[id]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

// ParseMenuOrder parses a comma separated list of site ids. It returns false
// when the value is blank or contains anything other than positive integers.
func ParseMenuOrder(raw string) ([]SiteID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	parts := strings.Split(raw, ",")
	ids := make([]SiteID, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || value == 0 {
			return nil, false
		}
		ids = append(ids, SiteID(value))
	}
	return ids, true
}

// FormatMenuOrder joins ids the way ParseMenuOrder reads them.
func FormatMenuOrder(ids []SiteID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// ParseSiteID parses a single site id, rejecting zero.
func ParseSiteID(raw string) (SiteID, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return SiteID(value), true
}
