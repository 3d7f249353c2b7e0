package profile

// Stopper stops a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Profiler describes a single profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the output directory. If empty, a temporary directory is used.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Start begins profiling. The returned Stopper is always safe to call,
// even when profiling is disabled or unavailable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether mode names a profile supported by this build.
func Enabled(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
