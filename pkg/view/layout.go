package view

import "yantrashilpa.com/web/internal/content"

// NavLink is one header entry; Active is set by exact path match.
type NavLink struct {
	Name   string
	Href   string
	Active bool
}

// Crumb is one breadcrumb step. The last one has no Href.
type Crumb struct {
	Name string
	Href string
}

// AdminUser is the signed-in console identity shown in the admin header.
type AdminUser struct {
	ID    string
	Email string
	Role  string
}

// Layout carries what every page shell needs.
type Layout struct {
	Title       string
	Description string
	Path        string
	Nav         []NavLink
	Company     content.Company
	Social      []content.SocialLink
	Flash       *Flash
	CSRFToken   string
	RequestID   string
	User        *AdminUser
}

// BuildNav marks the item whose target equals path.
func BuildNav(items []content.NavItem, path string) []NavLink {
	out := make([]NavLink, 0, len(items))
	for _, it := range items {
		out = append(out, NavLink{Name: it.Name, Href: it.Target, Active: it.Target == path})
	}
	return out
}

// AdminNav is the console sidebar.
func AdminNav(path string) []NavLink {
	items := []NavLink{
		{Name: "Dashboard", Href: "/admin/dashboard"},
		{Name: "Add Product", Href: "/admin/dashboard/add-product"},
		{Name: "Manage Products", Href: "/admin/dashboard/manage-products"},
	}
	for i := range items {
		items[i].Active = items[i].Href == path
	}
	return items
}
