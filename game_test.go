package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dwell/input"
	"github.com/milk9111/dwell/render"
	"github.com/milk9111/dwell/scene"
)

type fakeSource struct {
	keys  []ebiten.Key
	close bool
}

func (f *fakeSource) AppendJustPressedKeys(dst []ebiten.Key) []ebiten.Key {
	return append(dst, f.keys...)
}

func (f *fakeSource) CloseRequested() bool { return f.close }

// newTestGame builds the default scene against an arena of nil textures, so
// no image is decoded or uploaded.
func newTestGame(t *testing.T, src input.Source) *Game {
	t.Helper()
	s, err := scene.LoadScene(scene.DefaultName)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	textures := render.NewTextures()
	load := func(string) (int, error) { return textures.Register(nil), nil }
	built, err := scene.Build(context.Background(), s, load, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	state := &State{Characters: built.Characters, Textures: textures, Background: built.Background}
	return newGame(Options{}, s, state, input.NewInput(src, built.Keymap))
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestUpdateSelectsPose(t *testing.T) {
	tests := []struct {
		name string
		keys []ebiten.Key
		want int
	}{
		{"none", nil, 1},
		{"A", []ebiten.Key{ebiten.KeyA}, 0},
		{"B", []ebiten.Key{ebiten.KeyB}, 1},
		{"C", []ebiten.Key{ebiten.KeyC}, 2},
		{"unbound", []ebiten.Key{ebiten.KeyZ}, 1},
		{"last_wins", []ebiten.Key{ebiten.KeyC, ebiten.KeyA}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, &fakeSource{keys: tt.keys})
			if err := g.Update(); err != nil {
				t.Fatalf("Update: %v", err)
			}
			c := g.state.Characters[0]
			if c.ActiveAnimationIndex() != tt.want || c.ActiveDestIndex() != tt.want {
				t.Fatalf("expected pose %d, got anim=%d dest=%d", tt.want, c.ActiveAnimationIndex(), c.ActiveDestIndex())
			}
		})
	}
}

func TestQuitTerminatesOnce(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"escape", &fakeSource{keys: []ebiten.Key{ebiten.KeyEscape}}},
		{"close", &fakeSource{close: true}},
		{"close_and_escape", &fakeSource{keys: []ebiten.Key{ebiten.KeyEscape, ebiten.KeyEscape}, close: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLog(t)
			g := newTestGame(t, tt.src)
			if err := g.Update(); !errors.Is(err, ebiten.Termination) {
				t.Fatalf("expected ebiten.Termination, got %v", err)
			}
			if err := g.Update(); !errors.Is(err, ebiten.Termination) {
				t.Fatalf("expected ebiten.Termination on the next tick, got %v", err)
			}
			if g.terminate() {
				t.Fatalf("expected the loop to be terminated already")
			}
			if n := strings.Count(logs.String(), "dwell: quit"); n != 1 {
				t.Fatalf("expected one quit transition, got %d", n)
			}
		})
	}
}

func TestEventsAfterQuitAreIgnored(t *testing.T) {
	g := newTestGame(t, &fakeSource{})
	g.applyEvents([]input.Event{input.Quit(), input.Select(0, 2)})
	if g.state.Characters[0].ActiveIndex() != 1 {
		t.Fatalf("expected the selection after quit to be dropped")
	}
}

func TestSelectOutOfRange(t *testing.T) {
	g := newTestGame(t, &fakeSource{})
	g.applyEvents([]input.Event{input.Select(5, 0), input.Select(0, 9), input.Select(-1, 0)})
	if g.loop != stateRunning {
		t.Fatalf("expected the loop to keep running")
	}
	if g.state.Characters[0].ActiveIndex() != 1 {
		t.Fatalf("expected the character to be unchanged")
	}
}

func TestDrawFailedStrict(t *testing.T) {
	logs := captureLog(t)
	g := newTestGame(t, &fakeSource{})
	g.opts.Strict = true

	err := errors.New("boom")
	g.drawFailed("blue_witch/idle", err)
	g.drawFailed("blue_witch/idle", err)
	if n := strings.Count(logs.String(), "skip blue_witch/idle"); n != 1 {
		t.Fatalf("expected one log line, got %d", n)
	}
	if got := g.Update(); !errors.Is(got, err) {
		t.Fatalf("expected the draw error from Update, got %v", got)
	}
}

func TestDrawFailedLenient(t *testing.T) {
	captureLog(t)
	g := newTestGame(t, &fakeSource{})
	g.drawFailed("background", render.ErrBadHandle)
	if err := g.Update(); err != nil {
		t.Fatalf("expected the game to keep running, got %v", err)
	}
}

func TestFadeIn(t *testing.T) {
	g := newTestGame(t, &fakeSource{})
	if g.fade == nil || g.fadeAlpha != 0 {
		t.Fatalf("expected the default scene to fade in")
	}
	for i := 0; i < 10*ebiten.TPS() && g.fade != nil; i++ {
		if err := g.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if g.fade != nil || g.fadeAlpha < 0.999 {
		t.Fatalf("expected the fade to finish at 1, got %v", g.fadeAlpha)
	}
}

func TestCarryPoses(t *testing.T) {
	old := newTestGame(t, &fakeSource{})
	old.state.Characters[0].Select(2)
	fresh := newTestGame(t, &fakeSource{})
	carryPoses(old.state.Characters, fresh.state.Characters)
	if fresh.state.Characters[0].Active().Name != "run" {
		t.Fatalf("expected run to carry over, got %s", fresh.state.Characters[0].Active().Name)
	}
}

func TestOverlayStatus(t *testing.T) {
	g := newTestGame(t, &fakeSource{})
	o := &overlay{}
	got := o.status(60, 59.5, g.state.Characters)
	want := "TPS: 60.00  FPS: 59.50\nblue_witch: charge 1/5"
	if got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
}

func TestLayoutUsesScene(t *testing.T) {
	g := newTestGame(t, &fakeSource{})
	w, h := g.Layout(800, 600)
	if w != 1920 || h != 1080 {
		t.Fatalf("expected 1920x1080, got %dx%d", w, h)
	}
}

// newDrawGame is newTestGame with offscreen sheets, so Draw runs end to end.
func newDrawGame(t *testing.T, start time.Time) *Game {
	t.Helper()
	s, err := scene.LoadScene(scene.DefaultName)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	textures := render.NewTextures()
	load := func(string) (int, error) { return textures.Register(ebiten.NewImage(64, 512)), nil }
	built, err := scene.Build(context.Background(), s, load, start)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	state := &State{Characters: built.Characters, Textures: textures, Background: built.Background}
	g := newGame(Options{}, s, state, input.NewInput(&fakeSource{}, built.Keymap))
	g.now = func() time.Time { return start }
	return g
}

func TestDrawAdvancesActiveAnimation(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := newDrawGame(t, start)
	screen := ebiten.NewImage(192, 108)
	witch := g.state.Characters[0]
	active := witch.Active().Animation
	idle := witch.Poses()[0].Animation

	tests := []struct {
		name string
		at   time.Duration
		want int
	}{
		{"same_instant", 0, 0},
		{"before_duration", active.FrameDuration / 2, 0},
		{"at_duration", active.FrameDuration, 1},
		{"timer_restarted", active.FrameDuration + active.FrameDuration/2, 1},
		{"next_frame", 2 * active.FrameDuration, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := start.Add(tt.at)
			g.now = func() time.Time { return now }
			g.Draw(screen)
			if got := active.CurrentFrame(); got != tt.want {
				t.Fatalf("expected frame %d, got %d", tt.want, got)
			}
		})
	}
	if idle.CurrentFrame() != 0 {
		t.Fatalf("expected the inactive pose to stay on frame 0, got %d", idle.CurrentFrame())
	}
	if g.drawErr != nil {
		t.Fatalf("unexpected draw error: %v", g.drawErr)
	}
}

func TestDrawSkipsBadHandle(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
	}{
		{"lenient", false},
		{"strict", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLog(t)
			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			g := newDrawGame(t, start)
			g.opts.Strict = tt.strict
			anim := g.state.Characters[0].Active().Animation
			anim.TextureIndex = 99

			g.now = func() time.Time { return start.Add(time.Hour) }
			screen := ebiten.NewImage(192, 108)
			g.Draw(screen)
			g.Draw(screen)

			if anim.CurrentFrame() != 0 {
				t.Fatalf("expected the skipped animation to stay on frame 0, got %d", anim.CurrentFrame())
			}
			if !errors.Is(g.drawErr, render.ErrBadHandle) {
				t.Fatalf("expected drawErr to wrap ErrBadHandle, got %v", g.drawErr)
			}
			if n := strings.Count(logs.String(), "skip blue_witch/charge"); n != 1 {
				t.Fatalf("expected one log line, got %d", n)
			}

			err := g.Update()
			if tt.strict && !errors.Is(err, render.ErrBadHandle) {
				t.Fatalf("expected Update to return the draw error, got %v", err)
			}
			if !tt.strict && err != nil {
				t.Fatalf("expected the game to keep running, got %v", err)
			}
		})
	}
}

func TestReloadKeepsStateOnBrokenScene(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad_yaml", "characters: ["},
		{"no_characters", "background: assets/background.png\n"},
		{"missing_sheet", strings.Replace(minimalSceneDoc(t), "assets/Blue_witch/B_witch_run.png", "assets/nope.png", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLog(t)
			path := filepath.Join(t.TempDir(), "scene.yaml")
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			g := newTestGame(t, &fakeSource{})
			g.opts.Scene = path
			oldScene, oldState, oldKeymap := g.scene, g.state, g.input.Keymap()

			g.reload()

			if g.scene != oldScene || g.state != oldState || g.input.Keymap() != oldKeymap {
				t.Fatalf("expected the previous scene and state to be kept")
			}
			if !strings.Contains(logs.String(), "dwell: reload:") {
				t.Fatalf("expected the reload failure to be logged, got %q", logs.String())
			}
		})
	}
}

func TestReloadSwapsState(t *testing.T) {
	captureLog(t)
	doc := strings.Replace(minimalSceneDoc(t), "Dwell. The game.", "Dwell, reloaded", 1)
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	g := newTestGame(t, &fakeSource{})
	g.opts.Scene = path
	g.state.Characters[0].Select(2)
	oldState := g.state

	g.reload()

	if g.state == oldState || g.scene.Title != "Dwell, reloaded" {
		t.Fatalf("expected the new scene to be installed")
	}
	if g.state.Textures.Len() != 4 {
		t.Fatalf("expected 4 textures, got %d", g.state.Textures.Len())
	}
	if got := g.state.Characters[0].Active().Name; got != "run" {
		t.Fatalf("expected run to carry over, got %s", got)
	}
}

func TestUpdateLogsWatchErrors(t *testing.T) {
	logs := captureLog(t)
	w, err := scene.NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	g := newTestGame(t, &fakeSource{})
	g.watcher = w
	w.Errors <- errors.New("inotify queue overflow")

	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !strings.Contains(logs.String(), "dwell: watch: inotify queue overflow") {
		t.Fatalf("expected the watch error to be logged, got %q", logs.String())
	}
}

func minimalSceneDoc(t *testing.T) string {
	t.Helper()
	data, err := scene.Load(scene.DefaultName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return string(data)
}
