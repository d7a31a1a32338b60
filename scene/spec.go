package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/dwell/input"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoCharacters = errors.New("scene: no characters")
	ErrNoPoses      = errors.New("scene: character has no poses")
)

const (
	defaultTitle  = "Dwell. The game."
	defaultWidth  = 1920
	defaultHeight = 1080
	defaultFPS    = 12
)

type Scene struct {
	Title      string          `yaml:"title"`
	Width      int             `yaml:"width"`
	Height     int             `yaml:"height"`
	Background string          `yaml:"background"`
	FPS        float64         `yaml:"fps"`
	FadeIn     float64         `yaml:"fade_in"`
	Characters []CharacterSpec `yaml:"characters"`
	Bindings   []BindingSpec   `yaml:"bindings"`
	Quit       []string        `yaml:"quit"`
}

type CharacterSpec struct {
	Name  string     `yaml:"name"`
	Scale float64    `yaml:"scale"`
	X     string     `yaml:"x"`
	Y     string     `yaml:"y"`
	W     string     `yaml:"w"`
	H     string     `yaml:"h"`
	Poses []PoseSpec `yaml:"poses"`
}

type PoseSpec struct {
	Name       string  `yaml:"name"`
	Sheet      string  `yaml:"sheet"`
	FrameW     int     `yaml:"frame_w"`
	FrameH     int     `yaml:"frame_h"`
	FrameCount int     `yaml:"frame_count"`
	FPS        float64 `yaml:"fps"`
	X          string  `yaml:"x"`
	Y          string  `yaml:"y"`
	W          string  `yaml:"w"`
	H          string  `yaml:"h"`
}

type BindingSpec struct {
	Key       string `yaml:"key"`
	Character string `yaml:"character"`
	Pose      string `yaml:"pose"`
}

// LoadScene loads, parses and validates a scene by name or path.
func LoadScene(name string) (*Scene, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", name, err)
	}
	return s, nil
}

// Parse decodes a scene document, fills defaults and validates it.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) applyDefaults() {
	if s.Title == "" {
		s.Title = defaultTitle
	}
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	if s.FPS <= 0 {
		s.FPS = defaultFPS
	}
	if s.FadeIn < 0 {
		s.FadeIn = 0
	}
	for i := range s.Characters {
		c := &s.Characters[i]
		if c.Scale <= 0 {
			c.Scale = 1
		}
	}
	if len(s.Quit) == 0 {
		s.Quit = []string{"Escape"}
	}
}

// Validate checks the structure of the scene and every key name and
// cross-reference it contains.
func (s *Scene) Validate() error {
	if s.Background == "" {
		return fmt.Errorf("scene: missing background")
	}
	if len(s.Characters) == 0 {
		return ErrNoCharacters
	}
	seen := make(map[string]bool, len(s.Characters))
	for _, c := range s.Characters {
		if c.Name == "" {
			return fmt.Errorf("scene: character without name")
		}
		if seen[c.Name] {
			return fmt.Errorf("scene: duplicate character %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Poses) == 0 {
			return fmt.Errorf("%w: %s", ErrNoPoses, c.Name)
		}
		poses := make(map[string]bool, len(c.Poses))
		for _, p := range c.Poses {
			if p.Name == "" || p.Sheet == "" {
				return fmt.Errorf("scene: %s: pose needs a name and a sheet", c.Name)
			}
			if poses[p.Name] {
				return fmt.Errorf("scene: %s: duplicate pose %q", c.Name, p.Name)
			}
			poses[p.Name] = true
			if p.FrameW <= 0 || p.FrameH <= 0 || p.FrameCount <= 0 {
				return fmt.Errorf("scene: %s/%s: frame size and count must be positive", c.Name, p.Name)
			}
		}
	}
	for _, b := range s.Bindings {
		if _, err := input.ParseKey(b.Key); err != nil {
			return fmt.Errorf("scene: binding: %w", err)
		}
		if _, _, err := s.resolve(b); err != nil {
			return err
		}
	}
	for _, k := range s.Quit {
		if _, err := input.ParseKey(k); err != nil {
			return fmt.Errorf("scene: quit: %w", err)
		}
	}
	return nil
}

// resolve maps a binding to character and pose indices.
func (s *Scene) resolve(b BindingSpec) (int, int, error) {
	for ci, c := range s.Characters {
		if c.Name != b.Character {
			continue
		}
		for pi, p := range c.Poses {
			if p.Name == b.Pose {
				return ci, pi, nil
			}
		}
		return 0, 0, fmt.Errorf("scene: binding %s: unknown pose %s/%s", b.Key, b.Character, b.Pose)
	}
	return 0, 0, fmt.Errorf("scene: binding %s: unknown character %q", b.Key, b.Character)
}

// Keymap builds the input bindings of the scene.
func (s *Scene) Keymap() (*input.Keymap, error) {
	m := input.NewKeymap()
	for _, b := range s.Bindings {
		k, err := input.ParseKey(b.Key)
		if err != nil {
			return nil, err
		}
		ci, pi, err := s.resolve(b)
		if err != nil {
			return nil, err
		}
		m.Bind(k, input.Binding{Character: ci, Pose: pi})
	}
	for _, name := range s.Quit {
		k, err := input.ParseKey(name)
		if err != nil {
			return nil, err
		}
		m.BindQuit(k)
	}
	return m, nil
}

// FrameDuration returns the frame interval of a pose.
func (s *Scene) FrameDuration(p PoseSpec) time.Duration {
	fps := p.FPS
	if fps <= 0 {
		fps = s.FPS
	}
	return time.Duration(float64(time.Second) / fps)
}
