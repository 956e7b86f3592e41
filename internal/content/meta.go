package content

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atlaspath/siteserve/internal/frontmatter"
)

// CategoryResidency is the catalog category every entry in the residency
// content tree belongs to.
const CategoryResidency = "residency"

// SupportedCurrencies enumerates the investment currency codes the site
// renders.
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"AED": true,
	"INR": true,
	"CAD": true,
	"GBP": true,
}

// SEO holds the overridable page metadata block.
type SEO struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Keywords    string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// Step is one entry of a program's process timeline.
type Step struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Q string `yaml:"q" json:"q"`
	A string `yaml:"a" json:"a"`
}

// CountryMeta describes one country with a summary file present. Validated
// fields are typed; presentation-only front matter passes through in Extra.
type CountryMeta struct {
	Title       string   `yaml:"title" json:"title"`
	Category    string   `yaml:"category" json:"category"`
	Country     string   `yaml:"country" json:"country"`
	CountrySlug string   `yaml:"countrySlug" json:"countrySlug"`
	Summary     string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Tagline     string   `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	HeroImage   string   `yaml:"heroImage,omitempty" json:"heroImage,omitempty"`
	IntroPoints []string `yaml:"introPoints,omitempty" json:"introPoints,omitempty"`
	SEO         *SEO     `yaml:"seo,omitempty" json:"seo,omitempty"`
	Draft       bool     `yaml:"draft,omitempty" json:"-"`

	// Extra carries unvalidated front-matter fields (heroVideo, brochure,
	// quickCheck, ...) straight through to the view layer.
	Extra map[string]any `yaml:"-" json:"extra,omitempty"`
}

// ProgramMeta describes one program file within a country directory.
// MinInvestment and TimelineMonths are pointers so "absent" stays
// distinguishable from zero; ranking treats absent as unbounded.
type ProgramMeta struct {
	Title          string   `yaml:"title" json:"title"`
	Category       string   `yaml:"category" json:"category"`
	Country        string   `yaml:"country" json:"country"`
	CountrySlug    string   `yaml:"countrySlug" json:"countrySlug"`
	ProgramSlug    string   `yaml:"programSlug" json:"programSlug"`
	Tagline        string   `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	MinInvestment  *float64 `yaml:"minInvestment,omitempty" json:"minInvestment,omitempty"`
	Currency       string   `yaml:"currency,omitempty" json:"currency,omitempty"`
	TimelineMonths *int     `yaml:"timelineMonths,omitempty" json:"timelineMonths,omitempty"`
	Tags           []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Benefits       []string `yaml:"benefits,omitempty" json:"benefits,omitempty"`
	Requirements   []string `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	ProcessSteps   []Step   `yaml:"processSteps,omitempty" json:"processSteps,omitempty"`
	FAQ            []FAQ    `yaml:"faq,omitempty" json:"faq,omitempty"`
	SEO            *SEO     `yaml:"seo,omitempty" json:"seo,omitempty"`
	Draft          bool     `yaml:"draft,omitempty" json:"-"`

	Extra map[string]any `yaml:"-" json:"extra,omitempty"`
}

var countryKnownKeys = []string{
	"title", "category", "country", "countrySlug", "summary", "tagline",
	"heroImage", "introPoints", "seo", "draft",
}

var programKnownKeys = []string{
	"title", "category", "country", "countrySlug", "programSlug", "tagline",
	"minInvestment", "currency", "timelineMonths", "tags", "benefits",
	"requirements", "processSteps", "faq", "seo", "draft",
}

func decodeCountryMeta(doc frontmatter.Document) (CountryMeta, error) {
	var meta CountryMeta
	if doc.RawMetadata != "" {
		if err := yaml.Unmarshal([]byte(doc.RawMetadata), &meta); err != nil {
			return CountryMeta{}, &frontmatter.ParseError{Err: err}
		}
	}
	meta.Extra = extraFields(doc.Metadata, countryKnownKeys)
	return meta, nil
}

func decodeProgramMeta(doc frontmatter.Document) (ProgramMeta, error) {
	var meta ProgramMeta
	if doc.RawMetadata != "" {
		if err := yaml.Unmarshal([]byte(doc.RawMetadata), &meta); err != nil {
			return ProgramMeta{}, &frontmatter.ParseError{Err: err}
		}
	}
	meta.Extra = extraFields(doc.Metadata, programKnownKeys)
	return meta, nil
}

func extraFields(metadata map[string]any, known []string) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	extra := map[string]any{}
	for k, v := range metadata {
		extra[k] = v
	}
	for _, k := range known {
		delete(extra, k)
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

// fillCountryDefaults back-fills identity fields absent from source metadata.
func fillCountryDefaults(meta *CountryMeta, dirSlug string) {
	if meta.CountrySlug == "" {
		meta.CountrySlug = dirSlug
	}
	if meta.Country == "" {
		if meta.Title != "" {
			meta.Country = meta.Title
		} else {
			meta.Country = titleFromSlug(dirSlug)
		}
	}
	if meta.Title == "" {
		meta.Title = meta.Country
	}
	if meta.HeroImage == "" {
		meta.HeroImage = "/images/" + meta.CountrySlug + ".jpg"
	}
	if meta.Category == "" {
		meta.Category = CategoryResidency
	}
}

func fillProgramDefaults(meta *ProgramMeta, countrySlug, programSlug string) {
	if meta.ProgramSlug == "" {
		meta.ProgramSlug = programSlug
	}
	if meta.CountrySlug == "" {
		meta.CountrySlug = countrySlug
	}
	if meta.Category == "" {
		meta.Category = CategoryResidency
	}
}

// titleFromSlug turns "united-kingdom" into "United Kingdom".
func titleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
