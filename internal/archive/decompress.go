package archive

import (
	"archive/tar"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/rileyhilliard/dorc/internal/errors"
)

// Decompress returns the path of a plain SQL file for dump. SQL and
// PG_DUMP files are used in place. GZIP inflates into scratch under the
// suffix-stripped name; a gzipped archive (.tar.gz, .zip.gz) is then
// extracted in turn. ZIP and TAR extract into their own sub-directory of
// scratch and must hold exactly one *.sql file.
//
// On failure everything Decompress wrote is removed.
func Decompress(dump DumpFile, s *Scratch) (string, error) {
	switch dump.Format {
	case FormatSQL, FormatPgDump:
		if _, err := os.Stat(dump.Path); err != nil {
			return "", archiveErr(err, dump, "Dump file is not readable")
		}
		return dump.Path, nil

	case FormatGzip:
		out, err := gunzip(dump.Path, s)
		if err != nil {
			return "", archiveErr(err, dump, "Couldn't decompress the dump")
		}
		inner := NewDumpFile(out)
		if inner.Format == FormatZip || inner.Format == FormatTar {
			path, err := Decompress(inner, s)
			os.Remove(out)
			return path, err
		}
		return out, nil

	case FormatZip:
		path, err := extractInto(dump, s, unzip)
		if err != nil {
			return "", archiveErr(err, dump, "Couldn't extract the ZIP archive")
		}
		return path, nil

	case FormatTar:
		path, err := extractInto(dump, s, untar)
		if err != nil {
			return "", archiveErr(err, dump, "Couldn't extract the TAR archive")
		}
		return path, nil

	default:
		return "", archiveErr(ErrUnknownFormat, dump, "Unrecognized dump format")
	}
}

func archiveErr(err error, dump DumpFile, msg string) error {
	suggestion := "Check the file isn't truncated or corrupt."
	switch {
	case stderrors.Is(err, ErrUnknownFormat):
		suggestion = "Supported: .sql, .sql.gz, .gz, .zip, .tar, .dump, .dmp"
	case stderrors.Is(err, ErrAmbiguousArchive):
		suggestion = "Repack the archive with a single .sql file, or extract the one you want and restore it directly."
	case stderrors.Is(err, ErrNoSQLInArchive):
		suggestion = "The archive must contain a .sql file."
	}
	return errors.WrapWithCode(err, errors.ErrArchive, fmt.Sprintf("%s: %s", msg, dump.Name()), suggestion)
}

// gunzip inflates src into scratch and returns the output path.
func gunzip(src string, s *Scratch) (out string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	out = s.Path(strippedName(src))
	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(out)
		}
	}()

	if _, err = io.Copy(f, zr); err != nil {
		return "", err
	}
	return out, nil
}

// strippedName drops the trailing .gz: site_a.sql.gz -> site_a.sql.
func strippedName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), ".gz") {
		base = base[:len(base)-3]
	}
	if base == "" {
		base = "dump.sql"
	}
	return base
}

type extractor func(src, dest string) error

// extractInto unpacks dump into a fresh sub-directory of scratch and picks
// the single *.sql file. The sub-directory is removed on failure.
func extractInto(dump DumpFile, s *Scratch, extract extractor) (path string, err error) {
	dest, err := os.MkdirTemp(s.Dir, "extract-")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dest)
		}
	}()

	if err = extract(dump.Path, dest); err != nil {
		return "", err
	}
	return findSingleSQL(dest)
}

func findSingleSQL(dir string) (string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "__MACOSX" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), "._") {
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(d.Name()), ".sql") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	switch len(found) {
	case 0:
		return "", ErrNoSQLInArchive
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, f := range found {
			rel, _ := filepath.Rel(dir, f)
			names[i] = rel
		}
		sort.Strings(names)
		return "", fmt.Errorf("%w: %s", ErrAmbiguousArchive, strings.Join(names, ", "))
	}
}

// safeJoin resolves an archive entry name under dest, rejecting absolute
// paths and ".." components.
func safeJoin(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
		}
	}

	full := filepath.Join(dest, cleaned)
	if full != dest && !strings.HasPrefix(full, dest+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return full, nil
}

func writeEntry(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func unzip(src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, entry := range zr.File {
		path, err := safeJoin(dest, entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o700); err != nil {
				return err
			}
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return err
		}
		err = writeEntry(path, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// untar extracts regular files and directories. Links and devices are
// skipped: a dump never needs them.
func untar(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		path, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(path, tr); err != nil {
				return err
			}
		}
	}
}
