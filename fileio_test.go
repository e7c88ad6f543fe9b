package cfat

import (
	"bytes"
	"path/filepath"
	"testing"
)

func newFileioTestFS(t *testing.T) *Filesystem {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.cfat")
	fsys, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { fsys.Close() })
	return fsys
}

func TestCreateFileRejectsDuplicateName(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "DUP"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fsys.CreateFile("/", "DUP"); err != ErrNameExists {
		t.Errorf("second CreateFile = %v, want ErrNameExists", err)
	}
}

func TestCreateFileRejectsLongName(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "THIS_NAME_IS_WAY_TOO_LONG"); err != ErrNameTooLong {
		t.Errorf("CreateFile with long name = %v, want ErrNameTooLong", err)
	}
}

func TestCreateFileUnderMissingDirFails(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/NOPE", "FILE"); err != ErrNotFound {
		t.Errorf("CreateFile under missing dir = %v, want ErrNotFound", err)
	}
}

func TestWriteThenReadFile(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "DATA"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	payload := []byte("hello, world")
	n, err := fsys.WriteFile("/DATA", payload, 0)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("WriteFile wrote %d bytes, want %d", n, len(payload))
	}

	buf := make([]byte, len(payload))
	n, err = fsys.ReadFile("/DATA", buf, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n != len(payload) || !bytes.Equal(buf, payload) {
		t.Errorf("ReadFile returned %q, want %q", buf[:n], payload)
	}
}

func TestWriteSpanningMultipleBlocks(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "BIG"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	payload := bytes.Repeat([]byte{0x5A}, BlockBytes*3+17)
	if _, err := fsys.WriteFile("/BIG", payload, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	buf := make([]byte, len(payload))
	n, err := fsys.ReadFile("/BIG", buf, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n != len(payload) || !bytes.Equal(buf, payload) {
		t.Errorf("multi-block round trip mismatch (read %d bytes)", n)
	}
}

func TestWriteAtOffsetExtendsSize(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fsys.WriteFile("/F", []byte("abc"), 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := fsys.WriteFile("/F", []byte("XYZ"), 1); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	buf := make([]byte, 4)
	if _, err := fsys.ReadFile("/F", buf, 0); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(buf, []byte("aXYZ")) {
		t.Errorf("ReadFile = %q, want aXYZ", buf)
	}
}

func TestWritePastEndOfFileIsNoop(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fsys.WriteFile("/F", []byte("abc"), 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	n, err := fsys.WriteFile("/F", []byte("gap"), 100)
	if err != nil {
		t.Fatalf("WriteFile past end: %v", err)
	}
	if n != 0 {
		t.Errorf("WriteFile past end of file returned n=%d, want 0", n)
	}
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fsys.WriteFile("/F", []byte("abc"), 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	buf := make([]byte, 10)
	n, err := fsys.ReadFile("/F", buf, 100)
	if err != nil {
		t.Fatalf("ReadFile past end: %v", err)
	}
	if n != 0 {
		t.Errorf("ReadFile past end returned n=%d, want 0", n)
	}
}

func TestReadWriteOnDirectoryFails(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.Mkdir("/", "DIR"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := fsys.ReadFile("/DIR", make([]byte, 1), 0); err != ErrIsDirectory {
		t.Errorf("ReadFile on directory = %v, want ErrIsDirectory", err)
	}
	if _, err := fsys.WriteFile("/DIR", []byte("x"), 0); err != ErrIsDirectory {
		t.Errorf("WriteFile on directory = %v, want ErrIsDirectory", err)
	}
}

func TestTruncateGrowDoesNotAllocate(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fsys.WriteFile("/F", []byte("abc"), 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	e, err := fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	before, err := fsys.chainBlocks(e.StartBlock())
	if err != nil {
		t.Fatalf("chainBlocks: %v", err)
	}

	if err := fsys.Truncate("/F", int64(BlockBytes*2)); err != nil {
		t.Fatalf("Truncate grow: %v", err)
	}
	e, err = fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Size() != int64(BlockBytes*2) {
		t.Errorf("Size after grow = %d, want %d", e.Size(), BlockBytes*2)
	}
	after, err := fsys.chainBlocks(e.StartBlock())
	if err != nil {
		t.Fatalf("chainBlocks: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("grow-truncate changed block count from %d to %d, want unchanged", len(before), len(after))
	}
}

func TestTruncateShrinkZeroesBoundaryBlock(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	payload := bytes.Repeat([]byte{0xAA}, BlockBytes)
	if _, err := fsys.WriteFile("/F", payload, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := fsys.Truncate("/F", 10); err != nil {
		t.Fatalf("Truncate shrink: %v", err)
	}
	e, err := fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Size() != 10 {
		t.Errorf("Size after shrink = %d, want 10", e.Size())
	}
	blocks, err := fsys.chainBlocks(e.StartBlock())
	if err != nil {
		t.Fatalf("chainBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Errorf("shrink-truncate left %d blocks, want 1", len(blocks))
	}
	buf, err := fsys.readBlock(blocks[0])
	if err != nil {
		t.Fatalf("readBlock: %v", err)
	}
	for i := 10; i < BlockBytes; i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d beyond new size is %x, want zeroed", i, buf[i])
		}
	}
}

func TestTruncateToZeroZeroesAndReleasesChain(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	payload := bytes.Repeat([]byte{0x5A}, BlockBytes*2)
	if _, err := fsys.WriteFile("/F", payload, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	e, err := fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	start := e.StartBlock()
	blocksBefore, err := fsys.chainBlocks(start)
	if err != nil {
		t.Fatalf("chainBlocks: %v", err)
	}

	if err := fsys.Truncate("/F", 0); err != nil {
		t.Fatalf("Truncate to zero: %v", err)
	}
	e, err = fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Size() != 0 {
		t.Errorf("Size after truncate to 0 = %d, want 0", e.Size())
	}
	cell, err := fsys.getCell(start)
	if err != nil {
		t.Fatalf("getCell: %v", err)
	}
	if cell != endOfChain {
		t.Errorf("head cell = %x, want endOfChain", cell)
	}
	for _, b := range blocksBefore {
		buf, err := fsys.readBlock(b)
		if err != nil {
			t.Fatalf("readBlock: %v", err)
		}
		for i, by := range buf {
			if by != 0 {
				t.Fatalf("released block %d byte %d = %x, want zeroed", b, i, by)
			}
		}
	}
}

func TestSetReadOnlyTogglesAttribute(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	if err := fsys.SetReadOnly("/F", true); err != nil {
		t.Fatalf("SetReadOnly(true): %v", err)
	}
	e, err := fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !e.Attr().Has(AttrReadOnly) {
		t.Errorf("expected AttrReadOnly set after SetReadOnly(true)")
	}

	if err := fsys.SetReadOnly("/F", false); err != nil {
		t.Fatalf("SetReadOnly(false): %v", err)
	}
	e, err = fsys.Resolve("/F")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Attr().Has(AttrReadOnly) {
		t.Errorf("expected AttrReadOnly cleared after SetReadOnly(false)")
	}
}

func TestRemoveFile(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := fsys.Remove("/F"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fsys.Resolve("/F"); err != ErrNotFound {
		t.Errorf("Resolve after Remove = %v, want ErrNotFound", err)
	}
}

func TestRemoveNonEmptyDirectoryFails(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.Mkdir("/", "DIR"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := fsys.CreateFile("/DIR", "F"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := fsys.Remove("/DIR"); err != ErrNotEmpty {
		t.Errorf("Remove non-empty dir = %v, want ErrNotEmpty", err)
	}
}

func TestRemoveEmptyDirectorySucceeds(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.Mkdir("/", "DIR"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := fsys.Remove("/DIR"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestRenameChangesLeafName(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "OLD"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := fsys.Rename("/OLD", "NEW"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := fsys.Resolve("/OLD"); err != ErrNotFound {
		t.Errorf("Resolve(/OLD) after rename = %v, want ErrNotFound", err)
	}
	e, err := fsys.Resolve("/NEW")
	if err != nil {
		t.Fatalf("Resolve(/NEW): %v", err)
	}
	if e.Name() != "NEW" {
		t.Errorf("Name() = %q, want NEW", e.Name())
	}
}

func TestRenameRejectsCollision(t *testing.T) {
	fsys := newFileioTestFS(t)
	if _, err := fsys.CreateFile("/", "A"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fsys.CreateFile("/", "B"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := fsys.Rename("/A", "B"); err != ErrNameExists {
		t.Errorf("Rename onto existing name = %v, want ErrNameExists", err)
	}
}

func TestTouchCreatesMissingFile(t *testing.T) {
	fsys := newFileioTestFS(t)
	if err := fsys.Touch("/NEW"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	e, err := fsys.Resolve("/NEW")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Size() != 0 {
		t.Errorf("newly touched file has size %d, want 0", e.Size())
	}
}
