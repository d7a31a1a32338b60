package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type EventKind int

const (
	EventQuit EventKind = iota
	EventSelect
)

// Event is one input action for the current tick. Character and Pose are only
// meaningful for EventSelect.
type Event struct {
	Kind      EventKind
	Character int
	Pose      int
}

func Quit() Event { return Event{Kind: EventQuit} }

func Select(character, pose int) Event {
	return Event{Kind: EventSelect, Character: character, Pose: pose}
}

// Source reports the raw input of the current tick.
type Source interface {
	AppendJustPressedKeys(dst []ebiten.Key) []ebiten.Key
	CloseRequested() bool
}

// EbitenSource reads keyboard and window state from Ebitengine. The window
// close must be handled by the game, see ebiten.SetWindowClosingHandled.
type EbitenSource struct{}

func (EbitenSource) AppendJustPressedKeys(dst []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustPressedKeys(dst)
}

func (EbitenSource) CloseRequested() bool {
	return ebiten.IsWindowBeingClosed()
}

// Input drains a Source through a Keymap once per tick.
type Input struct {
	source Source
	keymap *Keymap
	keys   []ebiten.Key
	events []Event
}

func NewInput(source Source, keymap *Keymap) *Input {
	if source == nil {
		source = EbitenSource{}
	}
	if keymap == nil {
		keymap = DefaultKeymap()
	}
	return &Input{source: source, keymap: keymap}
}

// Poll returns the events of the current tick. The returned slice is reused by
// the next call.
func (i *Input) Poll() []Event {
	i.keys = i.source.AppendJustPressedKeys(i.keys[:0])
	i.events = i.keymap.AppendEvents(i.events[:0], i.keys, i.source.CloseRequested())
	return i.events
}

// SetKeymap swaps the bindings, e.g. after the scene is reloaded.
func (i *Input) SetKeymap(m *Keymap) {
	if m != nil {
		i.keymap = m
	}
}

func (i *Input) Keymap() *Keymap { return i.keymap }
