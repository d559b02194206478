package engine

import "fmt"

// Namer hands out fresh Temporary names for one compilation.
//
// Names derive from a counter starting at 0: "t0", "t1", ... A Namer is
// owned by exactly one Machine and is not safe for concurrent use.
type Namer struct {
	next int
}

// NewNamer creates a namer whose first name is "t0".
func NewNamer() *Namer {
	return &Namer{}
}

// NextName returns a name never returned before by this Namer.
func (n *Namer) NextName() string {
	name := fmt.Sprintf("t%d", n.next)
	n.next++
	return name
}

// Count returns how many names have been handed out.
func (n *Namer) Count() int {
	return n.next
}
