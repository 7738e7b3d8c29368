package profile

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	Mode  string // One of [Modes]; empty disables profiling
	Path  string // Output directory; empty selects the working directory
	Quiet bool   // Suppress the profiler's own log messages
}

// Start begins profiling and returns a [Stopper] that must be called to
// flush the profile. If profiling is not compiled in, or Mode is empty or
// unknown, Start returns a no-op.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
