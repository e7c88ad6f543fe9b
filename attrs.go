package cfat

import (
	"io/fs"
	"strings"
)

// Attr is the attributes bitfield of a Directory Record.
type Attr uint8

const (
	AttrReadOnly Attr = 1 << iota
	AttrHidden
	AttrSystem
	AttrVolumeID
	AttrDirectory
	AttrArchive
)

// AttrDeleted is not a flag bit like the others: it reuses the whole
// byte as a sentinel value (0xE5) for a deleted record, rather than
// setting a bit alongside the others. It is intentionally outside the
// iota sequence above so Has() never matches it against a live record
// by accident.
const AttrDeleted Attr = 0xE5

func (a Attr) Has(what Attr) bool {
	return a&what == what
}

func (a Attr) String() string {
	if a == AttrDeleted {
		return "DELETED"
	}

	var opt []string
	if a&AttrReadOnly != 0 {
		opt = append(opt, "READ_ONLY")
	}
	if a&AttrHidden != 0 {
		opt = append(opt, "HIDDEN")
	}
	if a&AttrSystem != 0 {
		opt = append(opt, "SYSTEM")
	}
	if a&AttrVolumeID != 0 {
		opt = append(opt, "VOLUME_ID")
	}
	if a&AttrDirectory != 0 {
		opt = append(opt, "DIRECTORY")
	}
	if a&AttrArchive != 0 {
		opt = append(opt, "ARCHIVE")
	}
	if len(opt) == 0 {
		return "NONE"
	}
	return strings.Join(opt, "|")
}

// Mode returns a fs.FileMode carrying only the type bit.
func (a Attr) Mode() fs.FileMode {
	if a.Has(AttrDirectory) {
		return fs.ModeDir
	}
	return 0
}
