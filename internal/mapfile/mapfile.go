// Package mapfile reads and writes map files on disk: charset conversion,
// optional zstd compression, atomic replacement and backups.
package mapfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/stairgen/pkg/encoding"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

// AutoCharset asks Read to detect the charset from the file contents.
const AutoCharset = "auto"

// BackupSuffix is appended to a map path to name its backup.
const BackupSuffix = ".bak.zst"

// zstd frame magic number, little endian.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// ErrEmptyPath is returned when no file path is given.
var ErrEmptyPath = errors.New("empty file path")

// File is a parsed map together with how it was stored.
type File struct {
	Path       string
	Charset    string // canonical charset name of the file on disk
	Compressed bool   // whether the file is a zstd stream
	Doc        *vmf.Node
}

// IsCompressed reports whether data starts a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Read loads and parses the map at path. Compressed input is detected from
// its magic bytes. charset is a name accepted by encoding.Normalize or
// AutoCharset.
func Read(path, charset string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}

	f := &File{Path: path}
	if IsCompressed(raw) {
		f.Compressed = true
		if raw, err = decompress(raw); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
	}

	if charset == "" || strings.EqualFold(charset, AutoCharset) {
		f.Charset = encoding.Detect(raw)
	} else if f.Charset, err = encoding.Normalize(charset); err != nil {
		return nil, err
	}

	text, err := encoding.Decode(raw, f.Charset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Doc, err = vmf.Parse(text); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Write serializes f.Doc in f.Charset and atomically replaces the file at
// path. Compressed files are written as a zstd stream.
func (f *File) Write(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	charset := f.Charset
	if charset == "" {
		charset = encoding.UTF8
	}
	data, err := encoding.Encode(vmf.Marshal(f.Doc), charset)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if f.Compressed {
		return WriteAtomic(path, compressTo(data))
	}
	return WriteAtomic(path, plainTo(data))
}

// Backup stores a zstd-compressed copy of the file at path next to it and
// returns the backup path. Existing backups are replaced.
func Backup(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading map for backup: %w", err)
	}
	dest := path + BackupSuffix
	write := compressTo(raw)
	if IsCompressed(raw) {
		write = plainTo(raw)
	}
	if err := WriteAtomic(dest, write); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return dest, nil
}

// Restore writes the contents of a backup made by Backup to path.
func Restore(backup, path string) error {
	raw, err := os.ReadFile(backup)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	data, err := decompress(raw)
	if err != nil {
		return fmt.Errorf("decompressing backup: %w", err)
	}
	return WriteAtomic(path, plainTo(data))
}

// WriteAtomic writes to a temporary file in the destination directory and
// renames it over dest once the content is synced.
func WriteAtomic(dest string, write func(io.Writer) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if st, err := os.Stat(dest); err == nil {
		perm = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := write(bw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// Best effort; directories cannot be synced everywhere.
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

func plainTo(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

func compressTo(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	}
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
