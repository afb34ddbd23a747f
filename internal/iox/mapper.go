package iox

import (
	"encoding/binary"
	"fmt"
)

// Mapper hands out zero-copy views into an in-memory byte region. The
// region must stay alive and unmodified for as long as any view is used.
type Mapper struct {
	data []byte
	pos  int
}

func NewMapper(data []byte) *Mapper {
	return &Mapper{data: data}
}

// MapBytes aliases the next n bytes of the region.
func (m *Mapper) MapBytes(n int) ([]byte, error) {
	if n < 0 || n > len(m.data)-m.pos {
		return nil, ErrTruncated
	}
	b := m.data[m.pos : m.pos+n : m.pos+n]
	m.pos += n
	return b, nil
}

func (m *Mapper) MapUint64() (uint64, error) {
	b, err := m.MapBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// MapUint32Pad8 reads a 4-byte integer followed by 4 bytes of padding.
func (m *Mapper) MapUint32Pad8() (uint32, error) {
	b, err := m.MapBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:4]), nil
}

func (m *Mapper) Skip(n int) error {
	_, err := m.MapBytes(n)
	return err
}

func (m *Mapper) Remaining() int {
	return len(m.data) - m.pos
}

// FileMapper is a Mapper over an mmapped file. Close releases the mapping;
// every view handed out becomes invalid at that point.
type FileMapper struct {
	Mapper
	region []byte
}

func (fm *FileMapper) Close() error {
	if fm.region == nil {
		return nil
	}
	err := munmap(fm.region)
	fm.region = nil
	fm.data = nil
	if err != nil {
		return fmt.Errorf("iox: munmap failed: %w", err)
	}
	return nil
}
