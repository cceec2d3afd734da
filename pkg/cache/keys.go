package cache

// Key prefixes, also used as the key type reported to observability hooks.
const (
	KeyTypeSolve  = "solve"
	KeyTypeRender = "render"
)

// SolveKeyOpts are the simulation options that change a run's outcome.
type SolveKeyOpts struct {
	MaxSteps           int  `json:"max_steps"`
	SuppressRegressive bool `json:"suppress_regressive"`
}

// RenderKeyOpts identify one rendered artifact of a run.
type RenderKeyOpts struct {
	Step      int    `json:"step"`
	Format    string `json:"format"`
	Highlight bool   `json:"highlight"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SolveKey identifies the solved run of a nest.
	SolveKey(nestHash string, opts SolveKeyOpts) string

	// RenderKey identifies an artifact rendered from a solved run.
	RenderKey(solveKey string, opts RenderKeyOpts) string
}

// DefaultKeyer produces "<type>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(nestHash string, opts SolveKeyOpts) string {
	return hashKey(KeyTypeSolve, nestHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(solveKey string, opts RenderKeyOpts) string {
	return hashKey(KeyTypeRender, solveKey, opts)
}
