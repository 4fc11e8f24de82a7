package footer

import "strings"

// Style is the inline style of an internal footer link.
type Style struct {
	FontWeight string
	Color      string
}

// LinkStyle maps the navigation state of an internal link to its style. Active
// links are bold; pending navigations are muted.
func LinkStyle(isActive, isPending bool) Style {
	s := Style{Color: "white"}
	if isActive {
		s.FontWeight = "bold"
	}
	if isPending {
		s.Color = "grey"
	}
	return s
}

// String renders s as a style attribute value, omitting unset properties.
func (s Style) String() string {
	var parts []string
	if s.FontWeight != "" {
		parts = append(parts, "font-weight:"+s.FontWeight)
	}
	if s.Color != "" {
		parts = append(parts, "color:"+s.Color)
	}
	return strings.Join(parts, ";")
}
