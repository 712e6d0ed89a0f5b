package action

// Field is an optional value in a partial update. It distinguishes a key that
// was absent from the payload (unset) from one that asked for the stored value
// to be removed (clear) and from one carrying a new value.
type Field[T any] struct {
	state fieldState
	value T
}

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldClear
	fieldValue
)

// Unset returns a field that leaves the stored value unchanged.
func Unset[T any]() Field[T] { return Field[T]{} }

// Clear returns a field that removes the stored value.
func Clear[T any]() Field[T] { return Field[T]{state: fieldClear} }

// Value returns a field that replaces the stored value with v.
func Value[T any](v T) Field[T] { return Field[T]{state: fieldValue, value: v} }

// Present reports whether the field was supplied at all, as a clear or a value.
func (f Field[T]) Present() bool { return f.state != fieldUnset }

// Cleared reports whether the field asks for removal.
func (f Field[T]) Cleared() bool { return f.state == fieldClear }

// Get returns the carried value and whether one is present.
func (f Field[T]) Get() (T, bool) { return f.value, f.state == fieldValue }

// apply returns the value that results from applying f to cur.
func (f Field[T]) apply(cur T) T {
	switch f.state {
	case fieldClear:
		var zero T
		return zero
	case fieldValue:
		return f.value
	}
	return cur
}
