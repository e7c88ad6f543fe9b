package cfat

import (
	"errors"
	"path/filepath"
	"testing"
)

func newAllocTestFS(t *testing.T) *Filesystem {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.cfat")
	fsys, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { fsys.Close() })
	return fsys
}

func TestAllocBlockMarksEndOfChain(t *testing.T) {
	fsys := newAllocTestFS(t)
	block, err := fsys.allocBlock()
	if err != nil {
		t.Fatalf("allocBlock: %v", err)
	}
	cell, err := fsys.getCell(block)
	if err != nil {
		t.Fatalf("getCell: %v", err)
	}
	if cell != endOfChain {
		t.Errorf("getCell(%d) = %x, want endOfChain", block, cell)
	}
}

func TestExtendChainLinksBlocks(t *testing.T) {
	fsys := newAllocTestFS(t)
	first, err := fsys.allocBlock()
	if err != nil {
		t.Fatalf("allocBlock: %v", err)
	}
	second, err := fsys.extendChain(first)
	if err != nil {
		t.Fatalf("extendChain: %v", err)
	}

	cell, err := fsys.getCell(first)
	if err != nil {
		t.Fatalf("getCell: %v", err)
	}
	if cell != second {
		t.Errorf("getCell(first) = %d, want %d", cell, second)
	}

	last, err := fsys.lastOfChain(first)
	if err != nil {
		t.Fatalf("lastOfChain: %v", err)
	}
	if last != second {
		t.Errorf("lastOfChain = %d, want %d", last, second)
	}
}

func TestReleaseChainFreesAllCells(t *testing.T) {
	fsys := newAllocTestFS(t)
	first, err := fsys.allocBlock()
	if err != nil {
		t.Fatalf("allocBlock: %v", err)
	}
	second, err := fsys.extendChain(first)
	if err != nil {
		t.Fatalf("extendChain: %v", err)
	}

	if err := fsys.releaseChain(first); err != nil {
		t.Fatalf("releaseChain: %v", err)
	}

	for _, cell := range []uint16{first, second} {
		v, err := fsys.getCell(cell)
		if err != nil {
			t.Fatalf("getCell: %v", err)
		}
		if v != freeCell {
			t.Errorf("getCell(%d) = %x, want freeCell after release", cell, v)
		}
	}
}

func TestChainBlocksOrder(t *testing.T) {
	fsys := newAllocTestFS(t)
	first, err := fsys.allocBlock()
	if err != nil {
		t.Fatalf("allocBlock: %v", err)
	}
	second, err := fsys.extendChain(first)
	if err != nil {
		t.Fatalf("extendChain: %v", err)
	}
	third, err := fsys.extendChain(second)
	if err != nil {
		t.Fatalf("extendChain: %v", err)
	}

	blocks, err := fsys.chainBlocks(first)
	if err != nil {
		t.Fatalf("chainBlocks: %v", err)
	}
	want := []uint16{first, second, third}
	if len(blocks) != len(want) {
		t.Fatalf("chainBlocks = %v, want %v", blocks, want)
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("chainBlocks[%d] = %d, want %d", i, blocks[i], want[i])
		}
	}
}

func TestAllocExhaustion(t *testing.T) {
	fsys := newAllocTestFS(t)
	free, err := fsys.countFree()
	if err != nil {
		t.Fatalf("countFree: %v", err)
	}
	for i := 0; i < free; i++ {
		if _, err := fsys.allocBlock(); err != nil {
			t.Fatalf("allocBlock #%d: %v", i, err)
		}
	}
	if _, err := fsys.allocBlock(); !errors.Is(err, ErrNoSpace) {
		t.Errorf("allocBlock on exhausted table: err = %v, want ErrNoSpace", err)
	}
}
