package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"
)

// Writer compresses the texel stream of one capture. The header is written
// up front with a zero compressed length and rewritten by Close once the
// stream is complete.
type Writer struct {
	dst     io.WriteSeeker
	zWriter *zstd.Writer
	header  *Header
	level   int
	written uint64
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the zstd level used for the texel stream.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter starts a capture of a size x size cubemap with a full mip chain.
func NewWriter(dst io.WriteSeeker, size int, opts ...WriterOption) (*Writer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	w := &Writer{
		dst:    dst,
		level:  DefaultCompressionLevel,
		header: NewHeader(size, 0),
	}
	for _, opt := range opts {
		opt(w)
	}

	var buf [HeaderSize]byte
	w.header.EncodeTo(buf[:])
	if _, err := dst.Write(buf[:]); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Header returns the header being written.
func (w *Writer) Header() *Header {
	return w.header
}

// Write compresses texel bytes. Writing past the declared length fails.
func (w *Writer) Write(p []byte) (int, error) {
	if remaining := w.header.Length - w.written; uint64(len(p)) > remaining {
		return 0, fmt.Errorf("%w: %d bytes past the declared %d", ErrLengthMismatch,
			uint64(len(p))-remaining, w.header.Length)
	}
	n, err := w.zWriter.Write(p)
	w.written += uint64(n)
	return n, err
}

// Close flushes the stream and records its compressed length in the header.
// It fails with ErrLengthMismatch if fewer texel bytes were written than the
// header declares.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}
	if w.written != w.header.Length {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrLengthMismatch, w.written, w.header.Length)
	}

	end, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}
	w.header.CompressedLength = uint64(end) - HeaderSize

	var buf [HeaderSize]byte
	w.header.EncodeTo(buf[:])
	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	if _, err := w.dst.Write(buf[:]); err != nil {
		return fmt.Errorf("rewrite header: %w", err)
	}
	if _, err := w.dst.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// WriteCubemap compresses c and writes it as a capture to dst.
func WriteCubemap(dst io.WriteSeeker, c *Cubemap, opts ...WriterOption) error {
	data, err := c.MarshalBinary()
	if err != nil {
		return err
	}

	w, err := NewWriter(dst, c.Size(), opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	return w.Close()
}

// SaveFile writes c to path, removing the file if encoding fails.
func SaveFile(path string, c *Cubemap, opts ...WriterOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := WriteCubemap(f, c, opts...); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
