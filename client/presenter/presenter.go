// Package presenter computes transition presentation metadata. It is purely
// presentational: nothing here feeds back into router or coordinator state,
// and skipping transitions entirely (reduced motion) changes no behavior.
package presenter

import (
	"github.com/qianyuchang/chefnote/client/router"
	"github.com/qianyuchang/chefnote/models"
)

// Edge names a screen edge relative to reading direction.
type Edge int

const (
	EdgeLeading Edge = iota
	EdgeTrailing
)

func (e Edge) String() string {
	if e == EdgeTrailing {
		return "trailing"
	}
	return "leading"
}

// Transition describes how the incoming and outgoing views animate.
type Transition struct {
	EnterFrom Edge
	ExitTo    Edge
	Instant   bool
}

// Presenter derives transitions from navigation direction.
type Presenter struct {
	reducedMotion bool
}

// New creates a presenter. With reducedMotion the same views render with
// instantaneous transitions.
func New(reducedMotion bool) *Presenter {
	return &Presenter{reducedMotion: reducedMotion}
}

// Transition returns the animation metadata for a navigation. Forward slides
// the new view in from the leading edge while the old one recedes off the
// trailing edge; backward reverses the edges.
func (p *Presenter) Transition(dir router.Direction) Transition {
	t := Transition{Instant: p.reducedMotion}
	if dir == router.Backward {
		t.EnterFrom = EdgeTrailing
		t.ExitTo = EdgeLeading
	} else {
		t.EnterFrom = EdgeLeading
		t.ExitTo = EdgeTrailing
	}
	return t
}

// ViewKey identifies the mounted view. The key changes whenever the view or
// the selected entity's identity changes, forcing a full remount so per-view
// input state never leaks between unrelated navigations.
func ViewKey(view router.View, entity *models.RecipeData) string {
	if entity == nil {
		return view.String()
	}
	return view.String() + ":" + entity.ID
}
