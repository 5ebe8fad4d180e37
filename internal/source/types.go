package source

// FileID is the index of a file in its FileSet, starting at 1.
type FileID uint32

// FileFlags record what happened to a file's bytes on load.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // не с диска: stdin или тест
	FileHadBOM                               // UTF-8 BOM stripped
	FileNormalizedCRLF                       // CRLF rewritten to LF
)

// File is one loaded Swift source. Content is the normalised text every span
// points into.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of each '\n'
	CRLF    []uint32 // offsets in Content of the '\n' that were "\r\n" on disk
	Hash    [32]byte // sha256 of Content, part of the cache key
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
