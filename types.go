package grayscott

// Shape describes the original (unpadded) image grid.
// Channels is 1 for grayscale and 3 for color.
type Shape struct {
	H, W     int
	Channels int
}

// Pixels returns the number of cells in one channel plane.
func (s Shape) Pixels() int { return s.H * s.W }

// Len returns the total number of samples across all channels.
func (s Shape) Len() int { return s.H * s.W * s.Channels }

// Grayscale reports whether the shape has a single channel.
func (s Shape) Grayscale() bool { return s.Channels == 1 }

// SimulationParameters is the immutable parameter set derived once per
// key+config and shared by every pass of an Engine.
//
// DiffV and StepCount are always derived, never set directly:
// DiffV = DiffU / 2 and StepCount = floor(TotalTime / TimeStep).
type SimulationParameters struct {
	FeedRate float64 // f: feed rate of the activator
	KillRate float64 // k: kill rate of the catalyst
	DiffU    float64 // ru: diffusion rate of the activator
	DiffV    float64 // rv: diffusion rate of the catalyst, always ru/2

	TotalTime float64 // T: simulated duration of one pass
	TimeStep  float64 // dt: unsigned step size; sign is chosen per pass
	StepCount int     // floor(T / dt) Strang steps per pass
}

// Config carries optional overrides for engine construction. A nil field
// means "derive from the key". DiffV and StepCount cannot be overridden
// directly; they always follow from DiffU and TotalTime/TimeStep.
type Config struct {
	TimeStep  *float64 // dt
	PadWidth  *int     // reflective padding width on each spatial side
	FeedRate  *float64 // f
	KillRate  *float64 // k
	DiffU     *float64 // ru
	TotalTime *float64 // T
}

// Float64 returns a pointer to v, for populating Config fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for populating Config fields.
func Int(v int) *int { return &v }

// Diagnostics records numeric-instability observations accumulated across
// passes. A non-zero NonConvergedHalfSteps means at least one reaction
// half-step exhausted its Newton iteration budget before reaching tolerance;
// a non-zero ClampedCells means the state clamp truncated values that left
// the admissible range. Both events are accepted (the pass does not fail)
// but destroy information the inverse pass needs, so callers who care about
// exact round-trip correctness should inspect this after Encrypt/Decrypt.
type Diagnostics struct {
	// HalfSteps is the total number of reaction half-steps executed.
	HalfSteps uint64
	// NonConvergedHalfSteps counts half-steps whose final Newton update was
	// still above tolerance after the fixed iteration budget.
	NonConvergedHalfSteps uint64
	// ClampedCells counts cells whose state was truncated to the clamp
	// bounds after a reaction half-step.
	ClampedCells uint64
	// MaxFinalUpdate is the largest final Newton update magnitude observed.
	MaxFinalUpdate float64
}

// Merge folds other into d, keeping the worst observations.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.HalfSteps += other.HalfSteps
	d.NonConvergedHalfSteps += other.NonConvergedHalfSteps
	d.ClampedCells += other.ClampedCells
	if other.MaxFinalUpdate > d.MaxFinalUpdate {
		d.MaxFinalUpdate = other.MaxFinalUpdate
	}
}
