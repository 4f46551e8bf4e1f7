package jchunk

import "fmt"

// A Span describes a contiguous span of the input, in absolute byte offsets
// counted from the start of the document across all buffers.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }
