package input

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Binding selects a pose of a character.
type Binding struct {
	Character int
	Pose      int
}

// Keymap maps keys to pose bindings and to quit.
type Keymap struct {
	bindings map[ebiten.Key]Binding
	quit     map[ebiten.Key]struct{}
}

func NewKeymap() *Keymap {
	return &Keymap{
		bindings: make(map[ebiten.Key]Binding),
		quit:     make(map[ebiten.Key]struct{}),
	}
}

// DefaultKeymap binds A, B and C to poses 0, 1 and 2 of the first character
// and Escape to quit.
func DefaultKeymap() *Keymap {
	m := NewKeymap()
	m.Bind(ebiten.KeyA, Binding{Character: 0, Pose: 0})
	m.Bind(ebiten.KeyB, Binding{Character: 0, Pose: 1})
	m.Bind(ebiten.KeyC, Binding{Character: 0, Pose: 2})
	m.BindQuit(ebiten.KeyEscape)
	return m
}

func (m *Keymap) Bind(k ebiten.Key, b Binding) {
	delete(m.quit, k)
	m.bindings[k] = b
}

func (m *Keymap) BindQuit(k ebiten.Key) {
	delete(m.bindings, k)
	m.quit[k] = struct{}{}
}

// Lookup returns the binding of k.
func (m *Keymap) Lookup(k ebiten.Key) (Binding, bool) {
	b, ok := m.bindings[k]
	return b, ok
}

func (m *Keymap) IsQuit(k ebiten.Key) bool {
	_, ok := m.quit[k]
	return ok
}

// AppendEvents translates the keys pressed this tick into events, in key
// order. Unbound keys are dropped.
func (m *Keymap) AppendEvents(dst []Event, keys []ebiten.Key, closeRequested bool) []Event {
	if closeRequested {
		dst = append(dst, Quit())
	}
	for _, k := range keys {
		if m.IsQuit(k) {
			dst = append(dst, Quit())
			continue
		}
		if b, ok := m.bindings[k]; ok {
			dst = append(dst, Select(b.Character, b.Pose))
		}
	}
	return dst
}

// ParseKey resolves a key name such as "A", "Escape", "Digit1" or "KeyA".
func ParseKey(name string) (ebiten.Key, error) {
	s := strings.TrimSpace(name)
	if after, ok := strings.CutPrefix(s, "Key"); ok && after != "" {
		s = after
	}
	if s == "" {
		return 0, fmt.Errorf("input: empty key name")
	}
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}
