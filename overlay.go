package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/dwell/component"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"
)

const overlayFontSize = 18

type overlay struct {
	face text.Face
	buf  strings.Builder
}

func newOverlay() (*overlay, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("overlay font: %w", err)
	}
	return &overlay{face: &text.GoTextFace{Source: s, Size: overlayFontSize}}, nil
}

func (o *overlay) Draw(screen *ebiten.Image, characters []*component.Character) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(colornames.Yellow)
	op.LineSpacing = overlayFontSize * 1.4
	text.Draw(screen, o.status(ebiten.ActualTPS(), ebiten.ActualFPS(), characters), o.face, op)
}

func (o *overlay) status(tps, fps float64, characters []*component.Character) string {
	o.buf.Reset()
	fmt.Fprintf(&o.buf, "TPS: %.2f  FPS: %.2f", tps, fps)
	for _, c := range characters {
		p := c.Active()
		if p == nil {
			fmt.Fprintf(&o.buf, "\n%s: -", c.Name)
			continue
		}
		fmt.Fprintf(&o.buf, "\n%s: %s %d/%d", c.Name, p.Name, p.Animation.CurrentFrame()+1, len(p.Animation.Frames))
	}
	return o.buf.String()
}
