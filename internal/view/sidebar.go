package view

import (
	"path"
	"strings"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
)

type MenuItem struct {
	Page   string
	Href   string
	Label  string
	Icon   string
	Active bool
}

// Sidebar is the navigation model rendered by the sidebar partial.
type Sidebar struct {
	Items       []MenuItem
	Admin       []MenuItem
	AdminActive bool
	AdminOpen   bool
	HideAdmin   bool
}

var pageAliases = map[string]string{
	"admin": "admin-depot",
}

// BuildSidebar marks the entry for requestPath as active and hides the admin
// section from anyone below manager.
func BuildSidebar(requestPath string, role guard.Role) Sidebar {
	active := ActivePage(requestPath)

	s := Sidebar{
		Items: []MenuItem{
			{Page: "dashboard", Href: "/dashboard", Label: "Stock Entry", Icon: "dashboard"},
			{Page: "boxes", Href: "/boxes", Label: "View Boxes", Icon: "boxes"},
			{Page: "user", Href: "/user", Label: "User", Icon: "user"},
		},
		Admin: []MenuItem{
			{Page: "admin-depot", Href: "/admin-depot", Label: "Depot Config", Icon: "home"},
			{Page: "admin-shifts", Href: "/admin-shifts", Label: "Shift Reports", Icon: "chart"},
		},
		HideAdmin: !role.Covers(guard.RoleManager),
	}

	for i := range s.Items {
		s.Items[i].Active = s.Items[i].Page == active
	}
	for i := range s.Admin {
		if s.Admin[i].Page == active {
			s.Admin[i].Active = true
			s.AdminActive = true
			s.AdminOpen = true
		}
	}
	return s
}

// ActivePage maps a request path such as "/Boxes.html" to its page key.
func ActivePage(requestPath string) string {
	name := strings.ToLower(path.Base(requestPath))
	name = strings.TrimSuffix(name, ".html")
	if name == "/" || name == "." || name == "" {
		return "index"
	}
	if alias, ok := pageAliases[name]; ok {
		return alias
	}
	return name
}
