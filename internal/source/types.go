package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks a file that did not come from disk (tests, in-memory hosts).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in code points
}

// Position is a fully resolved location: line/column plus the byte offset.
type Position struct {
	Line   uint32
	Col    uint32
	Offset uint32
}

// Range is a resolved (start, end) pair; End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether other lies within r (inclusive bounds).
func (r Range) Contains(other Range) bool {
	return r.Start.Offset <= other.Start.Offset && other.End.Offset <= r.End.Offset
}

// MultiLine reports whether the range covers more than one source line.
func (r Range) MultiLine() bool {
	return r.End.Line > r.Start.Line
}
