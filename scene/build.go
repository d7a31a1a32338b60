package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/milk9111/dwell/component"
	"github.com/milk9111/dwell/input"
)

// TextureLoader loads an image and returns its handle in the texture arena.
type TextureLoader func(path string) (int, error)

// Built is a scene turned into runtime state.
type Built struct {
	Background int
	Characters []*component.Character
	Keymap     *input.Keymap
}

// Build loads every texture the scene references and creates its characters.
// Sheets shared by several poses are loaded once.
func Build(ctx context.Context, s *Scene, load TextureLoader, now time.Time) (*Built, error) {
	if s == nil {
		return nil, fmt.Errorf("scene: nil scene")
	}
	handles := make(map[string]int)
	texture := func(path string) (int, error) {
		if h, ok := handles[path]; ok {
			return h, nil
		}
		h, err := load(path)
		if err != nil {
			return 0, err
		}
		handles[path] = h
		return h, nil
	}

	bg, err := texture(s.Background)
	if err != nil {
		return nil, fmt.Errorf("scene: background: %w", err)
	}

	characters := make([]*component.Character, 0, len(s.Characters))
	for _, c := range s.Characters {
		poses := make([]component.Pose, 0, len(c.Poses))
		for _, p := range c.Poses {
			tex, err := texture(p.Sheet)
			if err != nil {
				return nil, fmt.Errorf("scene: %s/%s: %w", c.Name, p.Name, err)
			}
			dest, err := Placement(ctx, c, p, s.Width, s.Height)
			if err != nil {
				return nil, err
			}
			poses = append(poses, component.Pose{
				Name:      p.Name,
				Animation: component.NewVerticalAnimation(tex, p.FrameW, p.FrameH, p.FrameCount, s.FrameDuration(p), now),
				Dest:      dest,
			})
		}
		characters = append(characters, component.NewCharacter(c.Name, poses))
	}

	keymap, err := s.Keymap()
	if err != nil {
		return nil, err
	}

	return &Built{Background: bg, Characters: characters, Keymap: keymap}, nil
}
