package render

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

var ErrBadHandle = errors.New("render: texture handle out of range")

// Arena owns its elements and hands out stable integer handles. Handles are
// never reused; there is no removal.
type Arena[T any] struct {
	items []T
}

// Register appends v and returns its handle.
func (a *Arena[T]) Register(v T) int {
	a.items = append(a.items, v)
	return len(a.items) - 1
}

// Get returns the element behind handle i.
func (a *Arena[T]) Get(i int) (T, error) {
	var zero T
	if a == nil || i < 0 || i >= len(a.items) {
		return zero, fmt.Errorf("%w: %d", ErrBadHandle, i)
	}
	return a.items[i], nil
}

// Len returns the number of registered elements.
func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Textures is the texture arena shared by every animation.
type Textures = Arena[*ebiten.Image]

// NewTextures creates an empty texture arena.
func NewTextures() *Textures {
	return &Textures{}
}
