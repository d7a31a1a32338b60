package scene

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
)

const (
	defaultX = "0"
	defaultY = "0"
	defaultW = "frame_w * scale"
	defaultH = "frame_h * scale"
)

// Vars are the values visible to placement expressions. The screen size is
// an integer, so "screen_w / 15" truncates.
type Vars struct {
	ScreenW int64
	ScreenH int64
	FrameW  float64
	FrameH  float64
	Scale   float64
}

func (v Vars) params() map[string]interface{} {
	return map[string]interface{}{
		"screen_w": v.ScreenW,
		"screen_h": v.ScreenH,
		"frame_w":  v.FrameW,
		"frame_h":  v.FrameH,
		"scale":    v.Scale,
	}
}

// Eval evaluates a numeric tengo expression such as
// "screen_w / 15 - frame_w * scale / 2".
func Eval(ctx context.Context, expr string, vars Vars) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("scene: empty expression")
	}
	res, err := tengo.Eval(ctx, expr, vars.params())
	if err != nil {
		return 0, fmt.Errorf("scene: eval %q: %w", expr, err)
	}
	switch v := res.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("scene: eval %q: expected a number, got %T", expr, res)
	}
}

// Placement computes the destination rectangle of a pose. Pose expressions
// override the character ones; coordinates truncate toward zero.
func Placement(ctx context.Context, c CharacterSpec, p PoseSpec, screenW, screenH int) (image.Rectangle, error) {
	vars := Vars{
		ScreenW: int64(screenW),
		ScreenH: int64(screenH),
		FrameW:  float64(p.FrameW),
		FrameH:  float64(p.FrameH),
		Scale:   c.Scale,
	}
	exprs := [4]string{
		pick(p.X, c.X, defaultX),
		pick(p.Y, c.Y, defaultY),
		pick(p.W, c.W, defaultW),
		pick(p.H, c.H, defaultH),
	}
	var out [4]int
	for i, e := range exprs {
		v, err := Eval(ctx, e, vars)
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("%s/%s: %w", c.Name, p.Name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return image.Rectangle{}, fmt.Errorf("scene: %s/%s: expression %q is not finite", c.Name, p.Name, e)
		}
		out[i] = int(v)
	}
	if out[2] < 0 || out[3] < 0 {
		return image.Rectangle{}, fmt.Errorf("scene: %s/%s: negative size %dx%d", c.Name, p.Name, out[2], out[3])
	}
	return image.Rect(out[0], out[1], out[0]+out[2], out[1]+out[3]), nil
}

func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
