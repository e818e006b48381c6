// Package config holds domain-level tunables shared across entities,
// the layout engine, and the quota rules.
package config

// LayoutConfig controls subtree positioning geometry.
type LayoutConfig struct {
	// VerticalSpacing is the distance between a parent row and its children row
	VerticalSpacing float64
	// HorizontalSpacing is the gap between adjacent sibling subtrees
	HorizontalSpacing float64
	// MinSubtreeWidth is the narrowest footprint any subtree occupies
	MinSubtreeWidth float64
	// CardWidth is the rendered width of a thought card
	CardWidth float64
}

// QuotaConfig controls the monthly token allowance for signed-in users.
type QuotaConfig struct {
	// MonthlyFreeAllowance is the token budget granted at the start of each calendar month
	MonthlyFreeAllowance int
	// CostPerGeneration is the flat token charge for one AI operation
	CostPerGeneration int
}

// ContentConfig bounds user-supplied thought text.
type ContentConfig struct {
	MaxContentLength int
	MaxTitleLength   int
}

// DomainConfig aggregates all domain tunables.
type DomainConfig struct {
	Layout  LayoutConfig
	Quota   QuotaConfig
	Content ContentConfig
}

// DefaultConfig returns the production defaults.
func DefaultConfig() DomainConfig {
	return DomainConfig{
		Layout: LayoutConfig{
			VerticalSpacing:   250,
			HorizontalSpacing: 300,
			MinSubtreeWidth:   200,
			CardWidth:         200,
		},
		Quota: QuotaConfig{
			MonthlyFreeAllowance: 1000,
			CostPerGeneration:    50,
		},
		Content: ContentConfig{
			MaxContentLength: 10000,
			MaxTitleLength:   200,
		},
	}
}
