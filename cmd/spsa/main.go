package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/dwell/component"
	"github.com/milk9111/dwell/render"
	"golang.org/x/image/colornames"
)

const previewSize = 512

// previewGame plays one vertical sprite sheet in the middle of the window.
type previewGame struct {
	textures *render.Textures
	anim     *component.Animation
	paused   bool
}

func (g *previewGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.anim.Reset(time.Now())
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	sheet, err := g.textures.Get(g.anim.TextureIndex)
	if err != nil {
		return
	}
	src := g.anim.CurrentFrameRect()
	frame, ok := sheet.SubImage(src).(*ebiten.Image)
	if !ok {
		return
	}
	w, h := g.anim.Size()
	dst := fitRect(w, h, previewSize)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy()))
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(frame, op)

	if !g.paused {
		g.anim.Advance(time.Now())
	}
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return previewSize, previewSize
}

// fitRect scales a w*h frame by the largest integer factor that fits a
// size*size square and centers it.
func fitRect(w, h, size int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	scale := size / max(w, h)
	if scale < 1 {
		scale = 1
	}
	dw, dh := w*scale, h*scale
	x, y := (size-dw)/2, (size-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}

func main() {
	sheet := flag.String("sheet", "assets/Blue_witch/B_witch_idle.png", "vertical sprite sheet to preview")
	frameW := flag.Int("w", 32, "frame width in pixels")
	frameH := flag.Int("h", 48, "frame height in pixels")
	count := flag.Int("n", 6, "number of frames")
	fps := flag.Float64("fps", 12, "frames per second")
	flag.Parse()

	if *frameW <= 0 || *frameH <= 0 || *count <= 0 || *fps <= 0 {
		log.Fatal("spsa: frame size, count and fps must be positive")
	}

	textures := render.NewTextures()
	tex, err := render.LoadTexture(textures, *sheet)
	if err != nil {
		log.Fatalf("spsa: %v", err)
	}
	d := time.Duration(float64(time.Second) / *fps)
	g := &previewGame{
		textures: textures,
		anim:     component.NewVerticalAnimation(tex, *frameW, *frameH, *count, d, time.Now()),
	}

	ebiten.SetWindowSize(previewSize, previewSize)
	ebiten.SetWindowTitle(fmt.Sprintf("spsa: %s", *sheet))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
