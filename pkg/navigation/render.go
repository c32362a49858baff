package navigation

import (
	"bytes"
	"html/template"
)

// CurrentItemClass marks the list item of the current site.
const CurrentItemClass = "current-menu-item"

const menuTemplate = `<ul id="network_subsite_menu" class="menu menu-network-subsite">` +
	`{{.Before}}` +
	`{{range .Entries}}` +
	`<li{{if .ElementID}} id="{{.ElementID}}"{{end}} class="menu-item menu-item-type-network-subsite menu-item-{{.ID}}{{if .Current}} ` + CurrentItemClass + `{{end}}"` +
	`{{if ne .MobileLabel .Label}} data-mobile-label="{{.MobileLabel}}"{{end}}>` +
	`<a href="{{.URL}}">{{.Label}}</a></li>` +
	`{{end}}` +
	`{{.After}}` +
	`</ul>`

var menuHTML = template.Must(template.New("network_subsite_menu").Parse(menuTemplate))

type menuView struct {
	Entries []Entry
	Before  template.HTML
	After   template.HTML
}

// RenderHTML renders entries as an unordered list. before and after are
// host-provided fragments and are inserted verbatim; labels and URLs are
// escaped.
func RenderHTML(entries []Entry, before, after string) (template.HTML, error) {
	var buf bytes.Buffer
	err := menuHTML.Execute(&buf, menuView{
		Entries: entries,
		Before:  template.HTML(before),
		After:   template.HTML(after),
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
