package domain

// NavLink — пункт меню
type NavLink struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// NavLinks — меню для роли
func NavLinks(r Role) []NavLink {
	if r == RoleAuthority {
		return []NavLink{
			{Href: "/authority/map", Label: "Live Map"},
			{Href: "/authority/analytics", Label: "Analytics"},
			{Href: "/authority/cost", Label: "Cost Calculator"},
			{Href: "/authority/helper", Label: "AI Helper"},
		}
	}
	return []NavLink{
		{Href: "/citizen/congestion", Label: "Congestion"},
		{Href: "/citizen/route", Label: "Route"},
		{Href: "/citizen/stability", Label: "Stability"},
		{Href: "/citizen/assistant", Label: "AI Assistant"},
	}
}

// HomePath — стартовая страница роли
func HomePath(r Role) string {
	if r == RoleAuthority {
		return "/authority/map"
	}
	return "/citizen/congestion"
}
