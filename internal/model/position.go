package model

import "fmt"

// Placement selects how a Position is interpreted.
type Placement int

const (
	// PlaceEnd appends as the last child of Target.
	PlaceEnd Placement = iota
	// PlaceFirstChild prepends as the first child of Target.
	PlaceFirstChild
	// PlaceBefore inserts as the sibling directly before Target.
	PlaceBefore
	// PlaceAfter inserts as the sibling directly after Target.
	PlaceAfter
)

// Position is an insertion locus. For End and FirstChild the target is the
// parent folder, for Before and After it is the reference sibling.
type Position struct {
	Placement Placement
	Target    NodeID
}

func End(parent NodeID) Position        { return Position{Placement: PlaceEnd, Target: parent} }
func FirstChild(parent NodeID) Position { return Position{Placement: PlaceFirstChild, Target: parent} }
func Before(sibling NodeID) Position    { return Position{Placement: PlaceBefore, Target: sibling} }
func After(sibling NodeID) Position     { return Position{Placement: PlaceAfter, Target: sibling} }

// IsSibling reports whether the target names a sibling rather than a parent.
func (p Position) IsSibling() bool {
	return p.Placement == PlaceBefore || p.Placement == PlaceAfter
}

func (p Position) String() string {
	switch p.Placement {
	case PlaceFirstChild:
		return fmt.Sprintf("first-child(%s)", p.Target)
	case PlaceBefore:
		return fmt.Sprintf("before(%s)", p.Target)
	case PlaceAfter:
		return fmt.Sprintf("after(%s)", p.Target)
	default:
		return fmt.Sprintf("end(%s)", p.Target)
	}
}
