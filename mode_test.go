package cfat

import (
	"io/fs"
	"testing"
)

func TestUnixToModeRoundTrip(t *testing.T) {
	cases := []uint32{
		S_IFREG | 0o644,
		S_IFDIR | 0o755,
		S_IFLNK | 0o777,
	}
	for _, in := range cases {
		m := UnixToMode(in)
		out := ModeToUnix(m)
		if out != in {
			t.Errorf("round trip %o -> %v -> %o, want %o", in, m, out, in)
		}
	}
}

func TestUnixToModeSetsTypeBits(t *testing.T) {
	if m := UnixToMode(S_IFDIR | 0o755); m&fs.ModeDir == 0 {
		t.Errorf("UnixToMode(S_IFDIR) missing ModeDir: %v", m)
	}
	if m := UnixToMode(S_IFREG | 0o644); m&fs.ModeDir != 0 {
		t.Errorf("UnixToMode(S_IFREG) should not carry ModeDir: %v", m)
	}
}

func TestAttrUnixModeDirectoryVsFile(t *testing.T) {
	if AttrDirectory.UnixMode()&S_IFDIR == 0 {
		t.Errorf("directory UnixMode missing S_IFDIR bit")
	}
	var file Attr
	if file.UnixMode()&S_IFREG == 0 {
		t.Errorf("file UnixMode missing S_IFREG bit")
	}
}

func TestAttrUnixModePermissionBits(t *testing.T) {
	if got := AttrDirectory.UnixMode() & 0o777; got != 0o755 {
		t.Errorf("directory perm bits = %o, want 0755", got)
	}
	var file Attr
	if got := file.UnixMode() & 0o777; got != 0o644 {
		t.Errorf("file perm bits = %o, want 0644", got)
	}
}
