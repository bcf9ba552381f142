package metadata

import (
	"fmt"
	"io/fs"
	"strings"
)

// EntryMode tells whether an entry is a file, a directory or something a backend could not classify.
type EntryMode uint8

const (
	ModeUnknown EntryMode = iota
	ModeFile
	ModeDir
)

func (m EntryMode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDir:
		return "dir"
	default:
		return "unknown"
	}
}

// ParseEntryMode is the inverse of EntryMode.String. Unrecognised input is an error rather than
// ModeUnknown so typos don't silently turn into unknown entries.
func ParseEntryMode(s string) (EntryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return ModeFile, nil
	case "dir":
		return ModeDir, nil
	case "unknown", "":
		return ModeUnknown, nil
	default:
		return ModeUnknown, fmt.Errorf("unknown entry mode %q", s)
	}
}

// ModeFromFileMode classifies an fs.FileMode. Symlinks, devices and the like are ModeUnknown.
func ModeFromFileMode(fm fs.FileMode) EntryMode {
	switch {
	case fm.IsDir():
		return ModeDir
	case fm.IsRegular():
		return ModeFile
	default:
		return ModeUnknown
	}
}

func (m EntryMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *EntryMode) UnmarshalText(text []byte) error {
	mode, err := ParseEntryMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
