// Package archive identifies database dump formats and turns dumps into a
// plain SQL file drush can import.
package archive

import (
	stderrors "errors"
	"path/filepath"
	"strings"
)

// Format is a dump file format, decided by file name alone.
type Format int

const (
	FormatUnknown Format = iota
	FormatSQL
	FormatGzip
	FormatZip
	FormatTar
	// FormatPgDump is an opaque SQL stream passed to the importer as-is.
	FormatPgDump
)

func (f Format) String() string {
	switch f {
	case FormatSQL:
		return "SQL"
	case FormatGzip:
		return "GZIP"
	case FormatZip:
		return "ZIP"
	case FormatTar:
		return "TAR"
	case FormatPgDump:
		return "PG_DUMP"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrUnknownFormat means the file name has no recognized dump suffix.
	ErrUnknownFormat = stderrors.New("unknown dump format")
	// ErrNoSQLInArchive means an archive holds no *.sql file.
	ErrNoSQLInArchive = stderrors.New("no .sql file in archive")
	// ErrAmbiguousArchive means an archive holds several *.sql files.
	ErrAmbiguousArchive = stderrors.New("archive contains more than one .sql file")
	// ErrUnsafePath means an archive entry would land outside its extraction directory.
	ErrUnsafePath = stderrors.New("archive entry escapes extraction directory")
)

// suffixes is checked in order; longer suffixes come first.
var suffixes = []struct {
	suffix string
	format Format
}{
	{".sql.gz", FormatGzip},
	{".sql", FormatSQL},
	{".gz", FormatGzip},
	{".zip", FormatZip},
	{".tar", FormatTar},
	{".dump", FormatPgDump},
	{".dmp", FormatPgDump},
}

// Classify returns the format implied by path's suffix, case-insensitively.
func Classify(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) && len(name) > len(s.suffix) {
			return s.format
		}
	}
	return FormatUnknown
}

// DumpFile is a dump chosen for restore.
type DumpFile struct {
	Path   string
	Format Format
}

// NewDumpFile classifies path.
func NewDumpFile(path string) DumpFile {
	return DumpFile{Path: path, Format: Classify(path)}
}

// Name is the file's base name.
func (d DumpFile) Name() string {
	return filepath.Base(d.Path)
}

// NeedsExtraction reports whether Decompress writes to scratch.
func (d DumpFile) NeedsExtraction() bool {
	switch d.Format {
	case FormatGzip, FormatZip, FormatTar:
		return true
	}
	return false
}

// IsDump reports whether path has a recognized dump suffix.
func IsDump(path string) bool {
	return Classify(path) != FormatUnknown
}
