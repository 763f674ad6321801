// Package dnd is the pointer state machine behind dragging cards between
// columns. It knows nothing about rendering; hit testing is injected.
package dnd

import (
	"math"

	"github.com/existflow/taskbreeze/internal/model"
)

// DefaultActivationDistance is the pointer travel needed before a press becomes a drag
const DefaultActivationDistance = 8.0

// Phase of the controller
type Phase int

const (
	Idle Phase = iota
	Pressed
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// Point is a pointer position
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// HitTest returns the column under a point, if any
type HitTest func(p Point) (model.ColumnID, bool)

// Drop is a completed drag onto a different column
type Drop struct {
	TaskID string
	From   model.ColumnID
	To     model.ColumnID
}

// Controller tracks a single drag gesture
type Controller struct {
	hit       HitTest
	threshold float64

	phase  Phase
	taskID string
	from   model.ColumnID
	origin Point
	pos    Point
}

// New creates a controller. A non-positive threshold uses DefaultActivationDistance.
func New(hit HitTest, threshold float64) *Controller {
	if threshold <= 0 {
		threshold = DefaultActivationDistance
	}
	return &Controller{hit: hit, threshold: threshold}
}

// Phase returns the current phase
func (c *Controller) Phase() Phase { return c.phase }

// Dragging reports whether a drag is active
func (c *Controller) Dragging() bool { return c.phase == Dragging }

// TaskID returns the task being pressed or dragged
func (c *Controller) TaskID() string { return c.taskID }

// Position returns the last pointer position
func (c *Controller) Position() Point { return c.pos }

// Over returns the column currently under the pointer while dragging
func (c *Controller) Over() (model.ColumnID, bool) {
	if c.phase != Dragging || c.hit == nil {
		return "", false
	}
	return c.hit(c.pos)
}

// PointerDown captures a task and its column. A press while another gesture
// is in progress restarts the gesture.
func (c *Controller) PointerDown(taskID string, from model.ColumnID, p Point) {
	c.phase = Pressed
	c.taskID = taskID
	c.from = from
	c.origin = p
	c.pos = p
}

// PointerMove updates the pointer and activates the drag once it has
// travelled past the threshold. It reports whether a drag is active.
func (c *Controller) PointerMove(p Point) bool {
	if c.phase == Idle {
		return false
	}
	c.pos = p
	if c.phase == Pressed && c.origin.Distance(p) >= c.threshold {
		c.phase = Dragging
	}
	return c.phase == Dragging
}

// PointerUp ends the gesture. It yields a Drop only when a drag was active
// and the pointer is over a column other than the origin.
func (c *Controller) PointerUp(p Point) (Drop, bool) {
	defer c.reset()
	if c.phase != Dragging {
		return Drop{}, false
	}
	c.pos = p
	to, ok := c.Over()
	if !ok || to == c.from {
		return Drop{}, false
	}
	return Drop{TaskID: c.taskID, From: c.from, To: to}, true
}

// Cancel abandons the gesture
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.taskID = ""
	c.from = ""
	c.origin = Point{}
}
