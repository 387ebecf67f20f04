package engine

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/quill/workflow"
)

// Workflow names in the standard catalog.
const (
	WorkflowArticle      = "article-production"
	WorkflowPresentation = "presentation"
	WorkflowSocial       = "social-only"
	WorkflowEmail        = "email-sequence"
	WorkflowCampaign     = "campaign"
)

// CatalogVersion stamps the built-in definitions.
const CatalogVersion = "1.0.0"

// Catalog is the read-only registry of workflow definitions. Single-type
// requests map to a registered single-track definition; multi-type
// requests instantiate the campaign definition, which fans the creation
// stage into one parallel branch per requested type while sharing one
// upstream research/brief track. All definitions are validated at
// construction; a malformed definition aborts startup.
type Catalog struct {
	gates  gateSet
	budget int

	singles map[workflow.ContentType]*workflow.Plan
}

type gateSet struct {
	research workflow.Gate
	brief    workflow.Gate
	brand    workflow.Gate
	format   workflow.Gate
}

// NewCatalog builds and validates the standard workflow catalog. The
// retry budget applies to gated creation steps.
func NewCatalog(cfg GateConfig, budget int) (*Catalog, error) {
	if budget < 0 || budget > workflow.MaxRetryBudget {
		return nil, fmt.Errorf(
			"%w: retry budget %d outside [0,%d]",
			workflow.ErrStructural, budget, workflow.MaxRetryBudget,
		)
	}

	c := &Catalog{
		gates: gateSet{
			research: NewResearchGate(cfg),
			brief:    NewBriefGate(cfg),
			brand:    NewBrandGate(cfg),
			format:   NewFormatGate(cfg),
		},
		budget:  budget,
		singles: make(map[workflow.ContentType]*workflow.Plan),
	}

	registrations := []struct {
		def   *workflow.Definition
		types []workflow.ContentType
	}{
		{
			def: c.singleTrack(WorkflowArticle, "Single article production", true, true),
			types: []workflow.ContentType{
				workflow.ContentArticle,
				workflow.ContentBlogPost,
				workflow.ContentWhitepaper,
				workflow.ContentCaseStudy,
			},
		},
		{
			def:   c.singleTrack(WorkflowPresentation, "Presentation from research", false, true),
			types: []workflow.ContentType{workflow.ContentPresentation},
		},
		{
			def:   c.singleTrack(WorkflowSocial, "Social media content", true, false),
			types: []workflow.ContentType{workflow.ContentSocialPost},
		},
		{
			def: c.singleTrack(WorkflowEmail, "Email campaign content", true, true),
			types: []workflow.ContentType{
				workflow.ContentEmail,
				workflow.ContentNewsletter,
			},
		},
	}

	for _, reg := range registrations {
		plan, err := reg.def.Compile()
		if err != nil {
			return nil, err
		}
		for _, ct := range reg.types {
			c.singles[ct] = plan
		}
	}

	return c, nil
}

// Select chooses the workflow plan for the requested content types: one
// type selects its registered single-track definition, more than one
// instantiates the campaign. Returns an error wrapping
// ErrUnknownContentType when no definition matches.
func (c *Catalog) Select(types []workflow.ContentType) (*workflow.Plan, error) {
	distinct := dedupe(types)

	switch len(distinct) {
	case 0:
		return nil, fmt.Errorf("%w: no content types requested", workflow.ErrUnknownContentType)
	case 1:
		plan, ok := c.singles[distinct[0]]
		if !ok {
			return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownContentType, distinct[0])
		}
		return plan, nil
	default:
		for _, ct := range distinct {
			if _, ok := c.singles[ct]; !ok {
				return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownContentType, ct)
			}
		}
		return c.campaign(distinct).Compile()
	}
}

// Definitions returns every static definition plus a representative
// campaign shape, for catalog introspection endpoints.
func (c *Catalog) Definitions() []*workflow.Definition {
	seen := make(map[string]bool)
	var defs []*workflow.Definition
	for _, plan := range c.singles {
		if seen[plan.Definition.Name] {
			continue
		}
		seen[plan.Definition.Name] = true
		defs = append(defs, plan.Definition)
	}

	slices.SortFunc(defs, func(a, b *workflow.Definition) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return defs
}

// ContentTypes returns the content types the catalog can select a
// workflow for, sorted for stable listing.
func (c *Catalog) ContentTypes() []workflow.ContentType {
	types := make([]workflow.ContentType, 0, len(c.singles))
	for ct := range c.singles {
		types = append(types, ct)
	}
	slices.Sort(types)
	return types
}

// singleTrack builds a research → brief → draft [→ render] definition.
// Voice-gated tracks bind the brand gate to the draft step; rendered
// tracks close with the format-compliance gate.
func (c *Catalog) singleTrack(name, description string, voiceGated, rendered bool) *workflow.Definition {
	draft := workflow.StepSpec{
		ID:          "draft",
		Capability:  "draft",
		After:       []string{"brief"},
		RetryBudget: c.budget,
	}
	if voiceGated {
		draft.Gate = c.gates.brand
	}

	def := &workflow.Definition{
		Name:        name,
		Version:     CatalogVersion,
		Description: description,
		Steps: []workflow.StepSpec{
			{
				ID:          "research",
				Capability:  "research",
				Gate:        c.gates.research,
				RetryBudget: c.budget,
			},
			{
				ID:         "brief",
				Capability: "brief",
				After:      []string{"research"},
				Gate:       c.gates.brief,
			},
			draft,
		},
	}

	if rendered {
		def.Steps = append(def.Steps, workflow.StepSpec{
			ID:          "render",
			Capability:  "render",
			After:       []string{"draft"},
			Gate:        c.gates.format,
			RetryBudget: min(c.budget, 1),
		})
	}

	return def
}

// campaign fans the creation stage into one brand-gated draft step per
// requested type, all sharing the single upstream brief.
func (c *Catalog) campaign(types []workflow.ContentType) *workflow.Definition {
	def := &workflow.Definition{
		Name:        WorkflowCampaign,
		Version:     CatalogVersion,
		Description: "Multi-platform campaign from shared research",
		Steps: []workflow.StepSpec{
			{
				ID:          "research",
				Capability:  "research",
				Gate:        c.gates.research,
				RetryBudget: c.budget,
			},
			{
				ID:         "brief",
				Capability: "brief",
				After:      []string{"research"},
				Gate:       c.gates.brief,
			},
		},
	}

	for _, ct := range types {
		def.Steps = append(def.Steps, workflow.StepSpec{
			ID:          fmt.Sprintf("draft-%s", ct),
			Capability:  "draft",
			ContentType: ct,
			After:       []string{"brief"},
			Gate:        c.gates.brand,
			RetryBudget: c.budget,
		})
	}

	return def
}

func dedupe(types []workflow.ContentType) []workflow.ContentType {
	seen := make(map[workflow.ContentType]bool, len(types))
	var distinct []workflow.ContentType
	for _, ct := range types {
		if seen[ct] {
			continue
		}
		seen[ct] = true
		distinct = append(distinct, ct)
	}
	slices.Sort(distinct)
	return distinct
}
