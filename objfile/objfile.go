// Package objfile implements the IRRE object-file container: a 24-byte
// little-endian header followed by a code section and a data section.
package objfile

import (
	"encoding/binary"
	"fmt"
)

const (
	// Magic is the 4-byte file signature.
	Magic = "RGVM"
	// Version is the only header version this package emits or accepts.
	Version = 1
	// HeaderSize is the fixed on-disk header length in bytes.
	HeaderSize = 24
	// MaxSectionSize bounds the code and data sections individually.
	MaxSectionSize = 16 * 1024 * 1024
)

// File is a parsed IRRE object file.
type File struct {
	EntryOffset uint32
	Code        []byte
	Data        []byte
}

// ObjectFileError reports why an object file failed to parse, with the
// exact message text external tooling and tests depend on.
type ObjectFileError struct {
	Message string
}

func (e *ObjectFileError) Error() string { return e.Message }

func newErr(format string, args ...any) error {
	return &ObjectFileError{Message: fmt.Sprintf(format, args...)}
}

// ToBinary serializes f into the on-disk layout: header, then code bytes,
// then data bytes.
func (f *File) ToBinary() []byte {
	out := make([]byte, HeaderSize+len(f.Code)+len(f.Data))
	copy(out[0:4], Magic)
	binary.LittleEndian.PutUint16(out[4:6], Version)
	binary.LittleEndian.PutUint16(out[6:8], 0)
	binary.LittleEndian.PutUint32(out[8:12], f.EntryOffset)
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(f.Code)))
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(f.Data)))
	binary.LittleEndian.PutUint32(out[20:24], 0)
	copy(out[HeaderSize:], f.Code)
	copy(out[HeaderSize+len(f.Code):], f.Data)
	return out
}

// FromBinary parses the on-disk layout, checking invariants in a fixed
// order so the first violation encountered is the one reported.
func FromBinary(b []byte) (*File, error) {
	if len(b) == 0 {
		return nil, newErr("empty input")
	}
	if len(b) < HeaderSize {
		return nil, newErr("input too short: %d bytes, need at least %d", len(b), HeaderSize)
	}
	if string(b[0:4]) != Magic {
		return nil, newErr("invalid magic bytes '%s': expected '%s'", string(b[0:4]), Magic)
	}
	version := binary.LittleEndian.Uint16(b[4:6])
	if version != Version {
		return nil, newErr("unsupported version %d: expected %d", version, Version)
	}
	codeSize := binary.LittleEndian.Uint32(b[12:16])
	dataSize := binary.LittleEndian.Uint32(b[16:20])
	if codeSize > MaxSectionSize {
		return nil, newErr("code size %d exceeds maximum %d", codeSize, MaxSectionSize)
	}
	if dataSize > MaxSectionSize {
		return nil, newErr("data size %d exceeds maximum %d", dataSize, MaxSectionSize)
	}
	wantTotal := uint64(HeaderSize) + uint64(codeSize) + uint64(dataSize)
	if uint64(len(b)) != wantTotal {
		return nil, newErr("total size %d does not match header (expected %d = %d header + %d code + %d data)",
			len(b), wantTotal, HeaderSize, codeSize, dataSize)
	}
	entryOffset := binary.LittleEndian.Uint32(b[8:12])
	if codeSize > 0 && entryOffset >= codeSize {
		return nil, newErr("entry offset %d out of range for code size %d", entryOffset, codeSize)
	}
	if entryOffset%4 != 0 {
		return nil, newErr("entry offset %d is not 4-byte aligned", entryOffset)
	}

	f := &File{EntryOffset: entryOffset}
	f.Code = append([]byte(nil), b[HeaderSize:HeaderSize+codeSize]...)
	f.Data = append([]byte(nil), b[HeaderSize+codeSize:HeaderSize+codeSize+dataSize]...)
	return f, nil
}
