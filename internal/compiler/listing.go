package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/cilsym/internal/ir"
)

// ListingBackend renders the operation stream as SSA text, one record per
// line:
//
//	IL_0002  t2 = add t0, t1 : int32
//
// Its CodeHandle has no address; Size is the length of the listing.
type ListingBackend struct {
	header string
	lines  []string
}

// NewListingBackend creates an empty listing.
func NewListingBackend() *ListingBackend {
	return &ListingBackend{}
}

// Begin implements Backend.
func (b *ListingBackend) Begin(m Method) error {
	b.lines = b.lines[:0]
	b.header = "// " + nameOf(m)
	return nil
}

// Process implements Backend.
func (b *ListingBackend) Process(op ir.OperationInfo) error {
	b.lines = append(b.lines, fmt.Sprintf("IL_%04X  %s", op.Offset, op))
	return nil
}

// Finish implements Backend.
func (b *ListingBackend) Finish() (CodeHandle, error) {
	return CodeHandle{Size: len(b.Text())}, nil
}

// Lines returns the rendered records without the header.
func (b *ListingBackend) Lines() []string {
	return b.lines
}

// Text returns the header followed by every rendered record.
func (b *ListingBackend) Text() string {
	var sb strings.Builder
	sb.WriteString(b.header)
	sb.WriteByte('\n')
	for _, l := range b.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
