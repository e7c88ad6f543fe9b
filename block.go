package cfat

import "fmt"

// Block Store: TotalBlocks fixed-size blocks starting
// immediately after the Allocation Table region.

func blockOffset(block uint16) int64 {
	return int64(allocTableBytes) + int64(block)*BlockBytes
}

func (fsys *Filesystem) readBlock(block uint16) ([]byte, error) {
	buf := make([]byte, BlockBytes)
	if _, err := fsys.backing.ReadAt(buf, blockOffset(block)); err != nil {
		return nil, fmt.Errorf("cfat: read block %d: %w", block, ErrIO)
	}
	return buf, nil
}

func (fsys *Filesystem) writeBlock(block uint16, data []byte) error {
	if len(data) != BlockBytes {
		return fmt.Errorf("cfat: writeBlock %d: buffer is %d bytes, want %d", block, len(data), BlockBytes)
	}
	if _, err := fsys.backing.WriteAt(data, blockOffset(block)); err != nil {
		return fmt.Errorf("cfat: write block %d: %w", block, ErrIO)
	}
	return nil
}
