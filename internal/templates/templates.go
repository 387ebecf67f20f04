// Package templates holds the static brand template catalog applied to
// rendered output. Templates are compiled in; there is no persistence.
package templates

import "sort"

// Colors is a brand color palette in hex notation.
type Colors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Text          string `json:"text"`
	TextLight     string `json:"textLight"`
	Background    string `json:"background"`
	BackgroundAlt string `json:"backgroundAlt"`
}

// Typography is a brand font and sizing scheme. Sizes are points.
type Typography struct {
	HeadingFont string `json:"headingFont"`
	BodyFont    string `json:"bodyFont"`
	MonoFont    string `json:"monoFont"`
	H1Size      int    `json:"h1Size"`
	H2Size      int    `json:"h2Size"`
	H3Size      int    `json:"h3Size"`
	BodySize    int    `json:"bodySize"`
}

// Template is one brand identity preset.
type Template struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Description string     `json:"description"`
	Colors      Colors     `json:"colors"`
	Typography  Typography `json:"typography"`
	CompanyName string     `json:"companyName"`
}

// DefaultName is the template used when a request names none.
const DefaultName = "professional"

var catalog = map[string]Template{
	"professional": {
		Name:        "professional",
		DisplayName: "Professional",
		Description: "Clean, corporate look with blue-gray tones. Ideal for business documents and formal communications.",
		Colors: Colors{
			Primary:       "#2C3E50",
			Secondary:     "#34495E",
			Accent:        "#3498DB",
			Text:          "#2C3E50",
			TextLight:     "#7F8C8D",
			Background:    "#FFFFFF",
			BackgroundAlt: "#ECF0F1",
		},
		Typography: Typography{
			HeadingFont: "Calibri",
			BodyFont:    "Calibri",
			MonoFont:    "Courier New",
			H1Size:      24,
			H2Size:      18,
			H3Size:      14,
			BodySize:    11,
		},
		CompanyName: "Professional Corp",
	},
	"modern": {
		Name:        "modern",
		DisplayName: "Modern",
		Description: "Bold and contemporary with coral accents. Great for startups, tech companies, and modern brands.",
		Colors: Colors{
			Primary:       "#1A1A1A",
			Secondary:     "#4A4A4A",
			Accent:        "#FF6B6B",
			Text:          "#1A1A1A",
			TextLight:     "#6C6C6C",
			Background:    "#FFFFFF",
			BackgroundAlt: "#F8F8F8",
		},
		Typography: Typography{
			HeadingFont: "Arial",
			BodyFont:    "Arial",
			MonoFont:    "Courier New",
			H1Size:      26,
			H2Size:      20,
			H3Size:      16,
			BodySize:    11,
		},
		CompanyName: "Modern Tech",
	},
	"tech": {
		Name:        "tech",
		DisplayName: "Tech",
		Description: "Navy and teal palette with tech-forward feel. Perfect for technical content and software documentation.",
		Colors: Colors{
			Primary:       "#0A192F",
			Secondary:     "#172A45",
			Accent:        "#64FFDA",
			Text:          "#0A192F",
			TextLight:     "#8892B0",
			Background:    "#FFFFFF",
			BackgroundAlt: "#F7FAFC",
		},
		Typography: Typography{
			HeadingFont: "Arial",
			BodyFont:    "Arial",
			MonoFont:    "Consolas",
			H1Size:      24,
			H2Size:      18,
			H3Size:      14,
			BodySize:    11,
		},
		CompanyName: "Tech Innovators",
	},
	"creative": {
		Name:        "creative",
		DisplayName: "Creative",
		Description: "Vibrant purple and pink scheme. Excellent for creative agencies, design portfolios, and artistic content.",
		Colors: Colors{
			Primary:       "#6C5CE7",
			Secondary:     "#A29BFE",
			Accent:        "#FD79A8",
			Text:          "#2D3436",
			TextLight:     "#636E72",
			Background:    "#FFFFFF",
			BackgroundAlt: "#F8F9FA",
		},
		Typography: Typography{
			HeadingFont: "Georgia",
			BodyFont:    "Georgia",
			MonoFont:    "Courier New",
			H1Size:      26,
			H2Size:      20,
			H3Size:      16,
			BodySize:    11,
		},
		CompanyName: "Creative Studio",
	},
	"minimal": {
		Name:        "minimal",
		DisplayName: "Minimal",
		Description: "Black and white simplicity. Best for elegant, understated content that lets the message shine.",
		Colors: Colors{
			Primary:       "#000000",
			Secondary:     "#333333",
			Accent:        "#000000",
			Text:          "#000000",
			TextLight:     "#666666",
			Background:    "#FFFFFF",
			BackgroundAlt: "#FAFAFA",
		},
		Typography: Typography{
			HeadingFont: "Helvetica",
			BodyFont:    "Helvetica",
			MonoFont:    "Courier New",
			H1Size:      24,
			H2Size:      18,
			H3Size:      14,
			BodySize:    11,
		},
		CompanyName: "Minimal Co",
	},
}

// List returns all templates sorted by name.
func List() []Template {
	out := make([]Template, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the template with the given name.
func Find(name string) (Template, error) {
	t, ok := catalog[name]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}

// Default returns the default brand template.
func Default() Template {
	return catalog[DefaultName]
}
