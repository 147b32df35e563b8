// Package view holds what the terminal shows: the entry list and the three
// stats fields.
package view

import (
	"fmt"
	"io"
	"sync"

	"entrylog/internal/api"
)

// Board keeps the latest render of each target. Updates may come from the
// poll loop and from commands at the same time; the last one wins.
type Board struct {
	out io.Writer

	mu     sync.Mutex
	blocks []Block
	loaded bool
	stats  StatsFields
}

// NewBoard returns a board that reprints a section to out whenever it
// changes. out may be nil.
func NewBoard(out io.Writer) *Board {
	return &Board{out: out}
}

func (b *Board) ShowEntries(entries []api.Entry) {
	blocks := Blocks(entries)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocks = blocks
	b.loaded = true
	if b.out != nil {
		fmt.Fprintln(b.out, "-- Entries --")
		WriteEntries(b.out, blocks)
	}
}

func (b *Board) ShowStats(s api.Stats) {
	fields := Fields(s)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats = fields
	if b.out != nil {
		fmt.Fprintln(b.out, "-- Stats --")
		WriteStats(b.out, fields)
	}
}

func (b *Board) Blocks() []Block {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Block, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// ShowsPlaceholder reports whether the last render was of an empty list.
func (b *Board) ShowsPlaceholder() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded && len(b.blocks) == 0
}

func (b *Board) Stats() StatsFields {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}
