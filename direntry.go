package cfat

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// dirent is the packed, on-disk 32-byte Directory Record.
// Field order matches the wire layout exactly; marshal/unmarshal use
// encoding/binary rather than unsafe casts so the layout stays portable
// across host byte orders.
type dirent struct {
	Name              [11]byte
	Attributes        Attr
	LastFlag          byte
	CreateTimeTenths  byte
	CreateTime        uint16
	CreateDate        uint16
	LastAccessDate    uint16
	FirstClusterHigh  uint16
	LastWriteTime     uint16
	LastWriteDate     uint16
	FirstClusterLow   uint16
	Size              uint32
}

// lastEntrySentinel is the value of LastFlag on the directory's current
// terminal record: the most recently appended slot, the ".." bootstrap
// record before any append, or, after the terminal record is deleted,
// the live record that preceded it.
const lastEntrySentinel = 0x01

// deletedNameMarker overwrites Name[0] on a tombstoned record. A record
// is deleted if either this marker or AttrDeleted is set, so a record
// on which only one of the two survives still reads as deleted.
const deletedNameMarker = '_'

func (d *dirent) marshal() []byte {
	buf := make([]byte, direntSize)
	copy(buf[0:11], d.Name[:])
	buf[11] = byte(d.Attributes)
	buf[12] = d.LastFlag
	buf[13] = d.CreateTimeTenths
	binary.LittleEndian.PutUint16(buf[14:16], d.CreateTime)
	binary.LittleEndian.PutUint16(buf[16:18], d.CreateDate)
	binary.LittleEndian.PutUint16(buf[18:20], d.LastAccessDate)
	binary.LittleEndian.PutUint16(buf[20:22], d.FirstClusterHigh)
	binary.LittleEndian.PutUint16(buf[22:24], d.LastWriteTime)
	binary.LittleEndian.PutUint16(buf[24:26], d.LastWriteDate)
	binary.LittleEndian.PutUint16(buf[26:28], d.FirstClusterLow)
	binary.LittleEndian.PutUint32(buf[28:32], d.Size)
	return buf
}

func (d *dirent) unmarshal(buf []byte) error {
	if len(buf) != direntSize {
		return fmt.Errorf("cfat: dirent buffer is %d bytes, want %d", len(buf), direntSize)
	}
	copy(d.Name[:], buf[0:11])
	d.Attributes = Attr(buf[11])
	d.LastFlag = buf[12]
	d.CreateTimeTenths = buf[13]
	d.CreateTime = binary.LittleEndian.Uint16(buf[14:16])
	d.CreateDate = binary.LittleEndian.Uint16(buf[16:18])
	d.LastAccessDate = binary.LittleEndian.Uint16(buf[18:20])
	d.FirstClusterHigh = binary.LittleEndian.Uint16(buf[20:22])
	d.LastWriteTime = binary.LittleEndian.Uint16(buf[22:24])
	d.LastWriteDate = binary.LittleEndian.Uint16(buf[24:26])
	d.FirstClusterLow = binary.LittleEndian.Uint16(buf[26:28])
	d.Size = binary.LittleEndian.Uint32(buf[28:32])
	return nil
}

// nameString trims the zero padding from the fixed-width Name field.
func (d *dirent) nameString() string {
	return string(bytes.TrimRight(d.Name[:], "\x00"))
}

// setName packs s into the fixed-width Name field. Callers validate the
// 11-byte length limit before calling this (see ErrNameTooLong).
func (d *dirent) setName(s string) {
	var name [11]byte
	copy(name[:], s)
	d.Name = name
}

// deleted reports whether this slot holds a tombstoned record. Either
// of the attributes byte reading DELETED or Name[0] reading the
// underscore marker is sufficient, so a record surviving partial
// corruption of one still reads as deleted.
func (d *dirent) deleted() bool {
	return d.Attributes == AttrDeleted || d.Name[0] == deletedNameMarker
}

// isEmpty reports whether this slot has never held a record: name is
// all zero bytes, distinct from a deleted record (Name[0] == '_').
func (d *dirent) isEmpty() bool {
	return d.Name == [11]byte{}
}

// isLast reports whether this slot is flagged as the directory's
// current terminal record.
func (d *dirent) isLast() bool {
	return d.LastFlag == lastEntrySentinel
}

// markDeleted tombstones the record in place, preserving the rest of
// its fields for potential recovery tooling.
func (d *dirent) markDeleted() {
	d.Attributes = AttrDeleted
	d.Name[0] = deletedNameMarker
}
