package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dwell/component"
	"github.com/milk9111/dwell/input"
	"github.com/milk9111/dwell/render"
	"github.com/milk9111/dwell/scene"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/colornames"
)

type runState int

const (
	stateRunning runState = iota
	stateTerminated
)

// Options are the command-line switches of the game.
type Options struct {
	Scene  string
	Watch  bool
	Debug  bool
	Strict bool
}

// State is everything the render step reads. Textures is the only owner of
// the images; animations refer to them by handle.
type State struct {
	Characters []*component.Character
	Textures   *render.Textures
	Background int
}

type Game struct {
	opts  Options
	scene *scene.Scene
	state *State
	input *input.Input
	loop  runState

	watcher *scene.Watcher
	overlay *overlay

	fade      *gween.Tween
	fadeAlpha float32

	drawErr error
	warned  map[string]bool
	now     func() time.Time
}

// NewGame loads the scene and every texture it references.
func NewGame(opts Options) (*Game, error) {
	s, err := scene.LoadScene(opts.Scene)
	if err != nil {
		return nil, err
	}
	state, keymap, err := buildState(s, time.Now())
	if err != nil {
		return nil, err
	}
	g := newGame(opts, s, state, input.NewInput(input.EbitenSource{}, keymap))

	if opts.Watch {
		dir := watchDir(opts.Scene)
		w, err := scene.NewWatcher(dir)
		if err != nil {
			log.Printf("dwell: watch %s: %v", dir, err)
		} else {
			g.watcher = w
		}
	}
	if opts.Debug {
		o, err := newOverlay()
		if err != nil {
			log.Printf("dwell: debug overlay: %v", err)
		} else {
			g.overlay = o
		}
	}
	return g, nil
}

func newGame(opts Options, s *scene.Scene, state *State, in *input.Input) *Game {
	g := &Game{
		opts:   opts,
		scene:  s,
		state:  state,
		input:  in,
		warned: make(map[string]bool),
		now:    time.Now,
	}
	g.startFade()
	return g
}

func buildState(s *scene.Scene, now time.Time) (*State, *input.Keymap, error) {
	textures := render.NewTextures()
	load := func(path string) (int, error) {
		return render.LoadTexture(textures, path)
	}
	built, err := scene.Build(context.Background(), s, load, now)
	if err != nil {
		return nil, nil, err
	}
	return &State{
		Characters: built.Characters,
		Textures:   textures,
		Background: built.Background,
	}, built.Keymap, nil
}

func watchDir(name string) string {
	return filepath.Dir(scene.DiskPath(name))
}

func (g *Game) Scene() *scene.Scene { return g.scene }

func (g *Game) Update() error {
	if g.loop == stateTerminated {
		return ebiten.Termination
	}
	if g.opts.Strict && g.drawErr != nil {
		return fmt.Errorf("dwell: draw: %w", g.drawErr)
	}

	g.applyEvents(g.input.Poll())
	if g.loop == stateTerminated {
		return ebiten.Termination
	}

	if g.watcher != nil {
		if err := g.watcher.Err(); err != nil {
			log.Printf("dwell: watch: %v", err)
		}
		if g.watcher.Changed() {
			g.reload()
		}
	}

	if g.fade != nil {
		alpha, done := g.fade.Update(1 / float32(ebiten.TPS()))
		g.fadeAlpha = alpha
		if done {
			g.fade = nil
		}
	}
	return nil
}

// applyEvents handles one tick of input. Nothing after the first quit is
// applied.
func (g *Game) applyEvents(events []input.Event) {
	for _, e := range events {
		if g.loop == stateTerminated {
			return
		}
		switch e.Kind {
		case input.EventQuit:
			g.terminate()
		case input.EventSelect:
			if e.Character < 0 || e.Character >= len(g.state.Characters) {
				continue
			}
			g.state.Characters[e.Character].Select(e.Pose)
		}
	}
}

// terminate moves the loop to its final state and reports whether it did so.
func (g *Game) terminate() bool {
	if g.loop == stateTerminated {
		return false
	}
	g.loop = stateTerminated
	log.Printf("dwell: quit")
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	return true
}

// reload rebuilds the state from the scene on disk. Characters keep their
// active pose when it still exists; a broken scene leaves the game untouched.
func (g *Game) reload() {
	s, err := scene.LoadScene(g.opts.Scene)
	if err != nil {
		log.Printf("dwell: reload: %v", err)
		return
	}
	state, keymap, err := buildState(s, g.now())
	if err != nil {
		log.Printf("dwell: reload: %v", err)
		return
	}
	carryPoses(g.state.Characters, state.Characters)
	g.scene = s
	g.state = state
	g.input.SetKeymap(keymap)
	g.drawErr = nil
	g.warned = make(map[string]bool)
	g.startFade()
	log.Printf("dwell: reloaded scene with %d characters", len(state.Characters))
}

func carryPoses(from, to []*component.Character) {
	active := make(map[string]string, len(from))
	for _, c := range from {
		if p := c.Active(); p != nil {
			active[c.Name] = p.Name
		}
	}
	for _, c := range to {
		if name, ok := active[c.Name]; ok {
			c.SelectNamed(name)
		}
	}
}

func (g *Game) startFade() {
	g.fadeAlpha = 1
	g.fade = nil
	if g.scene == nil || g.scene.FadeIn <= 0 {
		return
	}
	g.fadeAlpha = 0
	g.fade = gween.New(0, 1, float32(g.scene.FadeIn), ease.OutQuad)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	if bg, err := g.state.Textures.Get(g.state.Background); err != nil {
		g.drawFailed("background", err)
	} else if bg != nil {
		drawStretched(screen, bg, g.fadeAlpha)
	}

	now := g.now()
	for _, c := range g.state.Characters {
		p := c.Active()
		if p == nil {
			continue
		}
		tex, err := g.state.Textures.Get(p.Animation.TextureIndex)
		if err != nil {
			g.drawFailed(c.Name+"/"+p.Name, err)
			continue
		}
		if tex != nil {
			drawFrame(screen, tex, p.Animation.CurrentFrameRect(), p.Dest)
		}
		p.Animation.Advance(now)
	}

	if g.overlay != nil {
		g.overlay.Draw(screen, g.state.Characters)
	}
}

// drawFailed records a draw error. The first one is kept for strict mode; each
// failing item is logged once.
func (g *Game) drawFailed(what string, err error) {
	if g.drawErr == nil {
		g.drawErr = fmt.Errorf("%s: %w", what, err)
	}
	if g.warned[what] {
		return
	}
	g.warned[what] = true
	log.Printf("dwell: skip %s: %v", what, err)
}

func drawStretched(screen, img *ebiten.Image, alpha float32) {
	sb := screen.Bounds()
	ib := img.Bounds()
	if ib.Dx() == 0 || ib.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sb.Dx())/float64(ib.Dx()), float64(sb.Dy())/float64(ib.Dy()))
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(img, op)
}

// drawFrame copies src of the sheet into dst on screen.
func drawFrame(screen, sheet *ebiten.Image, src, dst image.Rectangle) {
	if src.Empty() || dst.Empty() {
		return
	}
	frame, ok := sheet.SubImage(src).(*ebiten.Image)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy()))
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(frame, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.Width, g.scene.Height
}
