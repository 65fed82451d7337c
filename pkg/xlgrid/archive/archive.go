// Package archive provides a mutable table of named parts over a zip container.
// Parts that are never modified are copied to the output without being
// recompressed, so they stay byte-identical.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrPartNotFound indicates the named part does not exist.
var ErrPartNotFound = errors.New("part not found")

// ErrNotArchive indicates the input is not a zip container.
var ErrNotArchive = errors.New("not a zip archive")

var zipMagic = []byte("PK\x03\x04")

// IsZip reports whether b starts with a zip local file header.
func IsZip(b []byte) bool {
	return bytes.HasPrefix(b, zipMagic)
}

type part struct {
	name     string
	file     *zip.File
	data     []byte
	loaded   bool
	modified bool
}

// Archive is an ordered table of parts.
type Archive struct {
	parts []*part
	index map[string]*part
}

// Open parses b as a zip container.
func Open(b []byte) (*Archive, error) {
	if !IsZip(b) {
		return nil, ErrNotArchive
	}
	r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	a := &Archive{index: make(map[string]*part, len(r.File))}
	for _, f := range r.File {
		p := &part{name: f.Name, file: f}
		a.parts = append(a.parts, p)
		a.index[f.Name] = p
	}
	return a, nil
}

// Names returns the part names in archive order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.parts))
	for i, p := range a.parts {
		names[i] = p.name
	}
	return names
}

// Has reports whether the part exists.
func (a *Archive) Has(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Get returns the uncompressed content of a part.
func (a *Archive) Get(name string) ([]byte, error) {
	p, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	if !p.loaded {
		data, err := readZipFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		p.data = data
		p.loaded = true
	}
	return p.data, nil
}

// Text returns a part as a string.
func (a *Archive) Text(name string) (string, error) {
	b, err := a.Get(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Set replaces or appends a part. Writing identical content leaves an
// existing part untouched.
func (a *Archive) Set(name string, data []byte) error {
	if p, ok := a.index[name]; ok {
		cur, err := a.Get(name)
		if err != nil {
			return err
		}
		if bytes.Equal(cur, data) {
			return nil
		}
		p.data = append([]byte(nil), data...)
		p.modified = true
		return nil
	}
	p := &part{name: name, data: append([]byte(nil), data...), loaded: true, modified: true}
	a.parts = append(a.parts, p)
	a.index[name] = p
	return nil
}

// SetText is Set for string content.
func (a *Archive) SetText(name, s string) error {
	return a.Set(name, []byte(s))
}

// Remove deletes a part. It reports whether the part existed.
func (a *Archive) Remove(name string) bool {
	if _, ok := a.index[name]; !ok {
		return false
	}
	delete(a.index, name)
	for i, p := range a.parts {
		if p.name == name {
			a.parts = append(a.parts[:i], a.parts[i+1:]...)
			break
		}
	}
	return true
}

// Modified reports whether a part was changed or added since Open.
func (a *Archive) Modified(name string) bool {
	p, ok := a.index[name]
	return ok && p.modified
}

// Bytes serializes the archive.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the archive to w.
func (a *Archive) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range a.parts {
		if p.file != nil && !p.modified {
			if err := zw.Copy(p.file); err != nil {
				return fmt.Errorf("copy %s: %w", p.name, err)
			}
			continue
		}
		hdr := &zip.FileHeader{Name: p.name, Method: zip.Deflate}
		if p.file != nil {
			hdr.Modified = p.file.Modified
		} else {
			hdr.Modified = time.Now()
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
