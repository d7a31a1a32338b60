package component

import "image"

// DefaultPose is the pose a freshly built character starts on.
const DefaultPose = 1

// Pose pairs an animation with the screen rectangle it is drawn into.
type Pose struct {
	Name      string
	Animation *Animation
	Dest      image.Rectangle
}

// Character owns a set of poses and a single selector for the active one.
type Character struct {
	Name string

	poses  []Pose
	active int
}

// NewCharacter creates a Character on DefaultPose, or on its last pose when it
// has fewer than DefaultPose+1 poses.
func NewCharacter(name string, poses []Pose) *Character {
	active := DefaultPose
	if active >= len(poses) {
		active = len(poses) - 1
	}
	if active < 0 {
		active = 0
	}
	return &Character{Name: name, poses: poses, active: active}
}

// Select activates pose i. Out of range selectors leave the character unchanged.
func (c *Character) Select(i int) bool {
	if c == nil || i < 0 || i >= len(c.poses) {
		return false
	}
	c.active = i
	return true
}

// SelectNamed activates the pose with the given name.
func (c *Character) SelectNamed(name string) bool {
	if i := c.PoseIndex(name); i >= 0 {
		return c.Select(i)
	}
	return false
}

// PoseIndex returns the index of the named pose or -1.
func (c *Character) PoseIndex(name string) int {
	if c == nil {
		return -1
	}
	for i, p := range c.poses {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Active returns the active pose, or nil for a character without poses.
func (c *Character) Active() *Pose {
	if c == nil || len(c.poses) == 0 {
		return nil
	}
	return &c.poses[c.active]
}

func (c *Character) ActiveIndex() int { return c.active }

// ActiveAnimationIndex and ActiveDestIndex both resolve through the single
// pose selector, so they are always equal.
func (c *Character) ActiveAnimationIndex() int { return c.active }
func (c *Character) ActiveDestIndex() int { return c.active }

func (c *Character) Poses() []Pose {
	if c == nil {
		return nil
	}
	return c.poses
}
