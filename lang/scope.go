package lang

// Scope addresses one frame in an [Env].
type Scope int

// NoScope is the parent of a root frame.
const NoScope Scope = -1

// frame is a single lexical scope.
type frame struct {
	parent   Scope
	vars     map[string]Value
	captured bool // referenced by a closure; never reclaimed
	popped   bool
}

// Env is an arena of scope frames. Frames refer to their parent by index,
// so closures hold a Scope rather than a pointer into the chain.
//
// An Env is owned by a single execution and is not safe for concurrent use.
type Env struct {
	frames []frame
}

// NewEnv returns an empty arena.
func NewEnv() *Env {
	return &Env{}
}

// Push creates a frame whose parent is parent and returns its address.
func (e *Env) Push(parent Scope) Scope {
	e.frames = append(e.frames, frame{parent: parent})

	return Scope(len(e.frames) - 1)
}

// Pop marks frame s finished. Finished frames at the top of the arena are
// reclaimed unless a closure has captured them.
func (e *Env) Pop(s Scope) {
	if !e.valid(s) {
		return
	}

	e.frames[s].popped = true

	for n := len(e.frames); n > 0; n-- {
		top := &e.frames[n-1]
		if !top.popped || top.captured {
			break
		}

		*top = frame{}
		e.frames = e.frames[:n-1]
	}
}

// Capture pins frame s so that it outlives its Pop.
func (e *Env) Capture(s Scope) {
	if e.valid(s) {
		e.frames[s].captured = true
	}
}

// Lookup searches frame s, then each enclosing frame, for name.
// A binding whose value is absent reports (nil, true).
func (e *Env) Lookup(s Scope, name string) (Value, bool) {
	for e.valid(s) {
		f := &e.frames[s]
		if v, ok := f.vars[name]; ok {
			return v, true
		}

		s = f.parent
	}

	return nil, false
}

// Set binds name in frame s only, shadowing any outer binding.
func (e *Env) Set(s Scope, name string, v Value) {
	if !e.valid(s) {
		return
	}

	f := &e.frames[s]
	if f.vars == nil {
		f.vars = make(map[string]Value)
	}

	f.vars[name] = v
}

// Names returns every name visible from frame s, sorted.
func (e *Env) Names(s Scope) []string {
	seen := make(map[string]struct{})

	for e.valid(s) {
		f := &e.frames[s]
		for name := range f.vars {
			seen[name] = struct{}{}
		}

		s = f.parent
	}

	return sortedKeys(seen)
}

// Len returns the number of frames currently held by the arena.
func (e *Env) Len() int { return len(e.frames) }

func (e *Env) valid(s Scope) bool {
	return s >= 0 && int(s) < len(e.frames)
}
