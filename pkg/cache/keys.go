package cache

import "fmt"

// RouteKeyOpts are the router settings that change a routing result.
type RouteKeyOpts struct {
	Finder           string `json:"finder"`
	Estimator        string `json:"estimator"`
	Order            string `json:"order"`
	ExactMaxVertices int    `json:"exact_max_vertices,omitempty"`
	Initial          []int  `json:"initial,omitempty"`
	PinIdle          bool   `json:"pin_idle,omitempty"`
}

// ArtifactKeyOpts identify one rendering of a routing result.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	ExpandSwaps bool   `json:"expand_swaps,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// RouteKey identifies the routing of one circuit on one device.
	RouteKey(circuitHash, archHash string, opts RouteKeyOpts) string
	// ArtifactKey identifies a rendered output of a routing result.
	ArtifactKey(routeHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "route:<sha256>" and "artifact:<format>:<sha256>"
// keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RouteKey implements [Keyer].
func (DefaultKeyer) RouteKey(circuitHash, archHash string, opts RouteKeyOpts) string {
	return hashKey("route", circuitHash, archHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(routeHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), routeHash, opts)
}
