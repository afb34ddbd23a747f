// Package iox provides the byte-stream reader, writer and mapper the
// serialized trie format is built on. All multi-byte integers are
// little-endian and every payload is padded to an 8-byte boundary by the
// layer above.
package iox

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrTruncated is returned when the input ends before a payload does.
	ErrTruncated = errors.New("iox: unexpected end of input")
)

// Reader reads the serialized form from an io.Reader.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// NewFDReader wraps an open file descriptor. The descriptor is not closed
// by the reader.
func NewFDReader(fd int) *Reader {
	return &Reader{r: os.NewFile(uintptr(fd), "fd")}
}

// Read fills p completely or fails.
func (r *Reader) Read(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := io.ReadFull(r.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return fmt.Errorf("iox: read failed: %w", err)
	}
	return nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	var b [8]byte
	if err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadUint32Pad8 reads a 4-byte integer followed by 4 bytes of padding.
func (r *Reader) ReadUint32Pad8() (uint32, error) {
	var b [8]byte
	if err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:4]), nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r.r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrTruncated
		}
		return fmt.Errorf("iox: skip failed: %w", err)
	}
	return nil
}

// FileReader is a Reader over a buffered file.
type FileReader struct {
	Reader
	f *os.File
}

func OpenReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iox: %w", err)
	}
	return &FileReader{Reader: Reader{r: bufio.NewReader(f)}, f: f}, nil
}

func (fr *FileReader) Close() error {
	return fr.f.Close()
}

// Writer writes the serialized form to an io.Writer.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// NewFDWriter wraps an open file descriptor. The descriptor is not closed
// by the writer.
func NewFDWriter(fd int) *Writer {
	return &Writer{w: os.NewFile(uintptr(fd), "fd")}
}

func (w *Writer) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := w.w.Write(p)
	if err != nil {
		return fmt.Errorf("iox: write failed: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("iox: write failed: %w", io.ErrShortWrite)
	}
	return nil
}

func (w *Writer) WriteUint64(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return w.Write(b[:])
}

// WriteUint32Pad8 writes a 4-byte integer followed by 4 zero bytes.
func (w *Writer) WriteUint32Pad8(v uint32) error {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[:4], v)
	return w.Write(b[:])
}

var zeros [8]byte

// Pad writes n zero bytes. n is at most 7 in the vector format.
func (w *Writer) Pad(n int) error {
	for n > 0 {
		c := n
		if c > len(zeros) {
			c = len(zeros)
		}
		if err := w.Write(zeros[:c]); err != nil {
			return err
		}
		n -= c
	}
	return nil
}

// FileWriter is a Writer over a buffered file. Close flushes the buffer.
type FileWriter struct {
	Writer
	f  *os.File
	bw *bufio.Writer
}

func CreateWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("iox: %w", err)
	}
	bw := bufio.NewWriter(f)
	return &FileWriter{Writer: Writer{w: bw}, f: f, bw: bw}, nil
}

func (fw *FileWriter) Close() error {
	ferr := fw.bw.Flush()
	cerr := fw.f.Close()
	if ferr != nil {
		return fmt.Errorf("iox: flush failed: %w", ferr)
	}
	return cerr
}
