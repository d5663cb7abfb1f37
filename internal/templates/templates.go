// Package templates defines the ATS-safe resume layouts and their text formatting rules.
package templates

import (
	"strings"
)

// Section spacing
const (
	SpacingCompact  = "compact"
	SpacingNormal   = "normal"
	SpacingSpacious = "spacious"
)

// Heading styles
const (
	HeadingBold          = "bold"
	HeadingBoldUppercase = "bold-uppercase"
	HeadingBoldUnderline = "bold-underline"
)

// Bullet styles
const (
	BulletDash  = "dash"
	BulletDot   = "dot"
	BulletArrow = "arrow"
)

// Font families
const (
	FontSans  = "sans-serif"
	FontSerif = "serif"
)

// DefaultID is the template used when none or an unknown one is requested
const DefaultID = "classic"

// Colors are the hex colors a template uses
type Colors struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
	Accent  string `json:"accent"`
}

// Template describes the layout rules of a resume template
type Template struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	SectionSpacing string `json:"section_spacing"`
	FontFamily     string `json:"font_family"`
	HeadingStyle   string `json:"heading_style"`
	BulletStyle    string `json:"bullet_style"`
	Colors         Colors `json:"colors"`
	ATSScore       int    `json:"ats_score"`
}

var catalogue = []Template{
	{
		ID:             "modern",
		Name:           "Modern",
		Description:    "Clean, contemporary design with subtle accents. Great for tech and creative roles.",
		SectionSpacing: SpacingNormal,
		FontFamily:     FontSans,
		HeadingStyle:   HeadingBoldUppercase,
		BulletStyle:    BulletDash,
		Colors:         Colors{Heading: "#1e40af", Text: "#1f2937", Accent: "#3b82f6"},
		ATSScore:       92,
	},
	{
		ID:             "classic",
		Name:           "Classic",
		Description:    "Traditional, professional format. Ideal for corporate and traditional industries.",
		SectionSpacing: SpacingNormal,
		FontFamily:     FontSerif,
		HeadingStyle:   HeadingBold,
		BulletStyle:    BulletDot,
		Colors:         Colors{Heading: "#000000", Text: "#1f2937", Accent: "#374151"},
		ATSScore:       98,
	},
	{
		ID:             "technical",
		Name:           "Technical",
		Description:    "Optimized for technical roles with prominent skills section. Perfect for engineers.",
		SectionSpacing: SpacingCompact,
		FontFamily:     FontSans,
		HeadingStyle:   HeadingBoldUppercase,
		BulletStyle:    BulletArrow,
		Colors:         Colors{Heading: "#059669", Text: "#1f2937", Accent: "#10b981"},
		ATSScore:       95,
	},
	{
		ID:             "creative",
		Name:           "Creative",
		Description:    "Modern with distinctive styling. Suitable for design, marketing, and creative fields.",
		SectionSpacing: SpacingSpacious,
		FontFamily:     FontSans,
		HeadingStyle:   HeadingBoldUppercase,
		BulletStyle:    BulletDash,
		Colors:         Colors{Heading: "#7c3aed", Text: "#1f2937", Accent: "#a78bfa"},
		ATSScore:       88,
	},
	{
		ID:             "minimal",
		Name:           "Minimal",
		Description:    "Ultra-clean, text-focused format. Maximum ATS compatibility and readability.",
		SectionSpacing: SpacingCompact,
		FontFamily:     FontSans,
		HeadingStyle:   HeadingBold,
		BulletStyle:    BulletDash,
		Colors:         Colors{Heading: "#000000", Text: "#000000", Accent: "#4b5563"},
		ATSScore:       100,
	},
}

// All returns every template in catalogue order
func All() []Template {
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}

// Get looks up a template by ID
func Get(id string) (Template, bool) {
	for _, t := range catalogue {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Resolve returns the template for id, falling back to the classic template
func Resolve(id string) Template {
	if t, ok := Get(strings.ToLower(strings.TrimSpace(id))); ok {
		return t
	}
	t, _ := Get(DefaultID)
	return t
}

// FormatHeading applies the template's heading style to a section title
func (t Template) FormatHeading(text string) string {
	switch t.HeadingStyle {
	case HeadingBoldUppercase:
		return strings.ToUpper(text)
	case HeadingBoldUnderline:
		upper := strings.ToUpper(text)
		return upper + "\n" + strings.Repeat("=", len([]rune(upper)))
	default:
		return text
	}
}

// BulletGlyph returns the character that prefixes bullets
func (t Template) BulletGlyph() string {
	switch t.BulletStyle {
	case BulletDot:
		return "•"
	case BulletArrow:
		return "→"
	default:
		return "–"
	}
}

// FormatBullet prefixes text with the template's bullet glyph
func (t Template) FormatBullet(text string) string {
	return t.BulletGlyph() + " " + text
}

// SpacingMultiplier scales the gap between sections
func (t Template) SpacingMultiplier() float64 {
	switch t.SectionSpacing {
	case SpacingCompact:
		return 0.5
	case SpacingSpacious:
		return 1.5
	default:
		return 1
	}
}
