package cache

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// SpecKey identifies a parsed dataflow spec by the hash of its raw
	// input.
	SpecKey(rawHash string, opts SpecKeyOpts) string

	// BundleKey identifies a compiled bundle by the hash of its index
	// source.
	BundleKey(sourceHash string, opts BundleKeyOpts) string
}

// SpecKeyOpts are the parse settings that change a parsed spec.
type SpecKeyOpts struct {
	Parser string `json:"parser"`
}

// BundleKeyOpts are the build settings that change the compiled bundle.
type BundleKeyOpts struct {
	Name        string   `json:"name"`
	Format      string   `json:"format"`
	Targets     []string `json:"targets"`
	NoTranspile bool     `json:"no_transpile"`
	NoMinify    bool     `json:"no_minify"`
	ResolveDir  string   `json:"resolve_dir"`
	Builder     string   `json:"builder"`
}

// DefaultKeyer hashes stage options into "<stage>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SpecKey implements Keyer.
func (DefaultKeyer) SpecKey(rawHash string, opts SpecKeyOpts) string {
	return hashKey("spec", rawHash, opts)
}

// BundleKey implements Keyer.
func (DefaultKeyer) BundleKey(sourceHash string, opts BundleKeyOpts) string {
	return hashKey("bundle", sourceHash, opts)
}

var _ Keyer = DefaultKeyer{}
