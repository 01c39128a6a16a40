package project

import "strings"

// NavigationType selects the shape of the Mintlify docs.json navigation.
type NavigationType string

const (
	NavigationPages    NavigationType = "pages"
	NavigationTabs     NavigationType = "tabs"
	NavigationProducts NavigationType = "products"
)

// ParseNavigationType is case-insensitive. Unrecognized or empty input
// returns (NavigationPages, false) so callers can warn and keep going.
func ParseNavigationType(s string) (NavigationType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pages":
		return NavigationPages, true
	case "tabs":
		return NavigationTabs, true
	case "products":
		return NavigationProducts, true
	}
	return NavigationPages, false
}

// NavigationMode controls how multiple assemblies are grouped.
type NavigationMode string

const (
	// NavigationUnified puts every assembly's namespaces under one group.
	NavigationUnified NavigationMode = "unified"
	// NavigationByAssembly creates one group per assembly.
	NavigationByAssembly NavigationMode = "by-assembly"
)

// ParseNavigationMode is case-insensitive; unknown values return
// (NavigationUnified, false).
func ParseNavigationMode(s string) (NavigationMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unified":
		return NavigationUnified, true
	case "by-assembly", "byassembly", "assembly":
		return NavigationByAssembly, true
	}
	return NavigationUnified, false
}

// DefaultUnifiedGroupName names the single API group in unified mode.
const DefaultUnifiedGroupName = "API Reference"

// MintlifyOptions configures the Mintlify renderer.
type MintlifyOptions struct {
	NavigationType NavigationType
	NavigationMode NavigationMode
	// NavigationName overrides the tab or product name. When empty the
	// assembly name is used.
	NavigationName   string
	UnifiedGroupName string
	IncludeIcons     bool
	// TemplatePath is an optional docs.json whose settings are merged into
	// the generated manifest.
	TemplatePath string
}

// DefaultMintlifyOptions returns Pages navigation, unified grouping and icons.
func DefaultMintlifyOptions() MintlifyOptions {
	return MintlifyOptions{
		NavigationType:   NavigationPages,
		NavigationMode:   NavigationUnified,
		UnifiedGroupName: DefaultUnifiedGroupName,
		IncludeIcons:     true,
	}
}

// EffectiveNavigationType returns the configured type, or Pages when the
// value is empty or unknown.
func (o MintlifyOptions) EffectiveNavigationType() NavigationType {
	t, _ := ParseNavigationType(string(o.NavigationType))
	return t
}

// GroupName returns the unified group name with its default applied.
func (o MintlifyOptions) GroupName() string {
	if strings.TrimSpace(o.UnifiedGroupName) == "" {
		return DefaultUnifiedGroupName
	}
	return o.UnifiedGroupName
}
