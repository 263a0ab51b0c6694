package domain

// Color is a CSS color name used to fill a plotted point.
type Color string

const (
	ColorNatural       Color = "green"
	ColorTechnological Color = "red"
	ColorDefault       Color = "gray"
)

// Disaster groups with a dedicated color.
const (
	GroupNatural       = "Natural"
	GroupTechnological = "Technological"
)

// ColorForGroup maps a Disaster.Group value to its point color.
// Any group other than Natural or Technological, including the empty
// string, gets ColorDefault.
func ColorForGroup(group string) Color {
	switch group {
	case GroupNatural:
		return ColorNatural
	case GroupTechnological:
		return ColorTechnological
	default:
		return ColorDefault
	}
}
