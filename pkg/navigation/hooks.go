package navigation

// Hooks lets the host customise how entries are resolved. Every field is
// optional; nil fields fall back to identity behaviour.
type Hooks struct {
	// Preload may supply a site record before the directory is consulted.
	Preload func(id SiteID) (Site, bool)
	// Transform post-processes a resolved site record after the label and
	// URL overrides have been applied. Its result is what gets rendered.
	Transform func(site Site, id SiteID) Site
	// IsCurrent may override the default "id equals current site" check,
	// e.g. for aliased domains.
	IsCurrent func(isCurrent bool, id SiteID) bool
	// ElementID returns the id attribute of the list item. A blank result
	// omits the attribute.
	ElementID func(defaultID string, entry Entry) string
}

func (h Hooks) withDefaults() Hooks {
	if h.Preload == nil {
		h.Preload = func(SiteID) (Site, bool) { return Site{}, false }
	}
	if h.Transform == nil {
		h.Transform = func(site Site, _ SiteID) Site { return site }
	}
	if h.IsCurrent == nil {
		h.IsCurrent = func(isCurrent bool, _ SiteID) bool { return isCurrent }
	}
	if h.ElementID == nil {
		h.ElementID = func(defaultID string, _ Entry) string { return defaultID }
	}
	return h
}
