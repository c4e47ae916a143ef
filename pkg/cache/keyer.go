package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey is the key for a rendered artifact of a design or recipient,
	// identified by the hash of its canonical JSON.
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Kind    string `json:"kind"`
	OrderID string `json:"order,omitempty"`
	Format  string `json:"format"`
	DPI     int    `json:"dpi,omitempty"`

	// Engine identifies the renderer settings (artwork DPI, attribution,
	// return address) the artifact was drawn with.
	Engine string `json:"engine,omitempty"`
}

// DefaultKeyer produces unprefixed keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Kind), contentHash, opts)
}

var _ Keyer = DefaultKeyer{}
