package scene

// PointerKind is the kind of a pointer event.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerOver
	PointerOut
	PointerClick
)

var pointerKindNames = [...]string{"move", "over", "out", "click"}

func (k PointerKind) String() string {
	if k < 0 || int(k) >= len(pointerKindNames) {
		return "unknown"
	}
	return pointerKindNames[k]
}

// PointerEvent is a pointer event already hit-tested against one screen.
// X and Y are normalized panel coordinates in [0, 1], origin top left.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// Cursor is the pointer shape an element asks the host for.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
)

func (c Cursor) String() string {
	if c == CursorPointer {
		return "pointer"
	}
	return "default"
}

// PointerHandler is implemented by elements that react to the pointer.
// HandlePointer reports whether the event was consumed; a consumed event
// must not propagate to elements behind this one.
type PointerHandler interface {
	HandlePointer(ev PointerEvent) bool
	Cursor() Cursor
}
