package backup

// Kind selects the backup destination.
type Kind string

const (
	SheetsKind Kind = "sheets"
	FileKind   Kind = "file"
	MemoryKind Kind = "memory"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of the supported destinations.
func (k Kind) IsValid() bool {
	switch k {
	case SheetsKind, FileKind, MemoryKind:
		return true
	default:
		return false
	}
}

// Kinds returns all valid backup kinds.
func Kinds() []Kind {
	return []Kind{SheetsKind, FileKind, MemoryKind}
}
