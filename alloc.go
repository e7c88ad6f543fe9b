package cfat

import (
	"encoding/binary"
	"fmt"
)

// Allocation Table: TotalBlocks 16-bit cells, one per
// block, forming singly-linked chains terminated by endOfChain. Cell i
// lives at byte offset i*allocCellBytes from the start of the image.

func cellOffset(cell uint16) int64 {
	return int64(cell) * allocCellBytes
}

func (fsys *Filesystem) getCell(cell uint16) (uint16, error) {
	buf := make([]byte, allocCellBytes)
	if _, err := fsys.backing.ReadAt(buf, cellOffset(cell)); err != nil {
		return 0, fmt.Errorf("cfat: read cell %d: %w", cell, ErrIO)
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (fsys *Filesystem) setCell(cell, value uint16) error {
	buf := make([]byte, allocCellBytes)
	binary.LittleEndian.PutUint16(buf, value)
	if _, err := fsys.backing.WriteAt(buf, cellOffset(cell)); err != nil {
		return fmt.Errorf("cfat: write cell %d: %w", cell, ErrIO)
	}
	return nil
}

// findFree scans the Allocation Table linearly for the first cell
// equal to freeCell.
func (fsys *Filesystem) findFree() (uint16, error) {
	for cell := uint16(0); cell < TotalBlocks; cell++ {
		v, err := fsys.getCell(cell)
		if err != nil {
			return 0, err
		}
		if v == freeCell {
			return cell, nil
		}
	}
	return 0, ErrNoSpace
}

// countFree returns the number of cells currently marked free.
func (fsys *Filesystem) countFree() (int, error) {
	n := 0
	for cell := uint16(0); cell < TotalBlocks; cell++ {
		v, err := fsys.getCell(cell)
		if err != nil {
			return 0, err
		}
		if v == freeCell {
			n++
		}
	}
	return n, nil
}

// allocBlock claims a free cell, marks it end-of-chain, and returns its
// index. The caller is responsible for linking it into a chain.
func (fsys *Filesystem) allocBlock() (uint16, error) {
	cell, err := fsys.findFree()
	if err != nil {
		return 0, err
	}
	if err := fsys.setCell(cell, endOfChain); err != nil {
		return 0, err
	}
	fsys.logf("cfat: allocated block %d", cell)
	return cell, nil
}

// lastOfChain walks from start following next-cell links until it finds
// the terminal (endOfChain) cell, returning that cell's index.
func (fsys *Filesystem) lastOfChain(start uint16) (uint16, error) {
	cur := start
	for {
		next, err := fsys.getCell(cur)
		if err != nil {
			return 0, err
		}
		if next == endOfChain {
			return cur, nil
		}
		if next == freeCell {
			return 0, fmt.Errorf("cfat: chain from %d hits free cell at %d: %w", start, cur, ErrCorrupt)
		}
		cur = next
	}
}

// extendChain allocates a new block and appends it after the chain whose
// current tail is last, returning the new block's index.
func (fsys *Filesystem) extendChain(last uint16) (uint16, error) {
	next, err := fsys.allocBlock()
	if err != nil {
		return 0, err
	}
	if err := fsys.setCell(last, next); err != nil {
		return 0, err
	}
	return next, nil
}

// releaseChain frees every cell in the chain starting at start.
func (fsys *Filesystem) releaseChain(start uint16) error {
	cur := start
	for cur != endOfChain {
		next, err := fsys.getCell(cur)
		if err != nil {
			return err
		}
		if err := fsys.setCell(cur, freeCell); err != nil {
			return err
		}
		fsys.logf("cfat: released block %d", cur)
		if next == freeCell {
			return fmt.Errorf("cfat: chain hits free cell at %d: %w", cur, ErrCorrupt)
		}
		cur = next
	}
	return nil
}

// chainBlocks returns every block index in the chain starting at start,
// in order.
func (fsys *Filesystem) chainBlocks(start uint16) ([]uint16, error) {
	var blocks []uint16
	cur := start
	for {
		blocks = append(blocks, cur)
		next, err := fsys.getCell(cur)
		if err != nil {
			return nil, err
		}
		if next == endOfChain {
			return blocks, nil
		}
		if next == freeCell {
			return nil, fmt.Errorf("cfat: chain from %d hits free cell at %d: %w", start, cur, ErrCorrupt)
		}
		cur = next
	}
}
