package cfat

// Fixed layout parameters of a cfat image. These are constants rather
// than fields read from a header: a cfat image has no self-describing
// superblock, so every tool that opens an image must agree on them in
// advance.
const (
	// ImageBytes is the total size of a backing file.
	ImageBytes = 10_000_000

	// BlockBytes is the size of a single block in the Block Store.
	BlockBytes = 512

	// TotalBlocks is the number of cells in the Allocation Table and the
	// number of blocks in the Block Store.
	TotalBlocks = 19_000

	// allocCellBytes is the on-disk size of one Allocation Table cell.
	allocCellBytes = 2

	// allocTableBytes is the size in bytes of the Allocation Table region.
	allocTableBytes = TotalBlocks * allocCellBytes

	// direntSize is the packed size, in bytes, of one Directory Record.
	direntSize = 32

	// direntsPerBlock is how many Directory Records fit in one block.
	direntsPerBlock = BlockBytes / direntSize

	// endOfChain marks a cell as the terminal block of its chain.
	endOfChain = 0xFFFF

	// freeCell marks a cell as unallocated.
	freeCell = 0x0000

	// rootBlock is the block index of the root directory.
	rootBlock = 0
)
