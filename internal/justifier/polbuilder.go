package justifier

import (
	"fmt"
	"strconv"
	"strings"
)

// PolBuilder accumulates the operands of a `pol` (cutting-planes
// derivation) line. Grounded on the source's PolBuilder in justifier.rs.
type PolBuilder struct {
	b     strings.Builder
	empty bool
}

// NewPolBuilder returns a builder for a fresh `pol` line.
func NewPolBuilder() *PolBuilder {
	pb := &PolBuilder{empty: true}
	pb.b.WriteString("pol ")
	return pb
}

// Add appends an unweighted operand (a constraint ID to sum in).
func (p *PolBuilder) Add(term string) *PolBuilder {
	p.b.WriteString(term)
	p.sep()
	return p
}

// AddAll appends each operand in terms in order.
func (p *PolBuilder) AddAll(terms []string) *PolBuilder {
	for _, t := range terms {
		p.Add(t)
	}
	return p
}

// AddWeighted appends a `<term> <weight> *` scaled operand.
func (p *PolBuilder) AddWeighted(term string, weight uint32) *PolBuilder {
	p.b.WriteString(term)
	p.b.WriteByte(' ')
	p.b.WriteString(strconv.FormatUint(uint64(weight), 10))
	p.b.WriteString(" *")
	p.sep()
	return p
}

func (p *PolBuilder) sep() {
	if p.empty {
		p.b.WriteString(" ")
		p.empty = false
	} else {
		p.b.WriteString(" + ")
	}
}

// Done finalizes and returns the `pol ... ;` line.
func (p *PolBuilder) Done() string {
	return fmt.Sprintf("%s;", p.b.String())
}
