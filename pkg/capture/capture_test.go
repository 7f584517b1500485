package capture

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/DataDog/zstd"
	"github.com/x448/float16"

	"github.com/EchoTools/probetools/pkg/rgbm"
)

func TestHeader(t *testing.T) {
	t.Run("MarshalUnmarshal", func(t *testing.T) {
		original := NewHeader(8, 512)

		data, err := original.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if len(data) != HeaderSize {
			t.Fatalf("expected %d bytes, got %d", HeaderSize, len(data))
		}

		decoded := &Header{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if *decoded != *original {
			t.Errorf("mismatch: got %+v, want %+v", decoded, original)
		}
	})

	t.Run("Sizes", func(t *testing.T) {
		h := NewHeader(4, 1)
		if h.MipCount != 3 {
			t.Errorf("expected 3 mips, got %d", h.MipCount)
		}
		// 6 faces * (16 + 4 + 1) texels * 8 bytes
		if h.Length != 1008 {
			t.Errorf("expected length 1008, got %d", h.Length)
		}
	})

	tests := []struct {
		name   string
		mutate func(h *Header)
	}{
		{"InvalidMagic", func(h *Header) { h.Magic = [4]byte{} }},
		{"HeaderLength", func(h *Header) { h.HeaderLength = 16 }},
		{"NotPowerOfTwo", func(h *Header) { h.CubemapSize = 6 }},
		{"OversizedCubemap", func(h *Header) { h.CubemapSize, h.MipCount = 1<<16, 17 }},
		{"OverflowingCubemap", func(h *Header) { h.CubemapSize, h.MipCount = 1<<31, 32 }},
		{"MipCount", func(h *Header) { h.MipCount = 2 }},
		{"Length", func(h *Header) { h.Length++ }},
		{"ZeroCompressedLength", func(h *Header) { h.CompressedLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeader(8, 512)
			tt.mutate(h)
			if err := h.Validate(); !errors.Is(err, ErrInvalidHeader) {
				t.Errorf("expected ErrInvalidHeader, got %v", err)
			}
		})
	}
}

func randomCubemap(t *testing.T, size int) *Cubemap {
	t.Helper()
	c, err := NewCubemap(size)
	if err != nil {
		t.Fatalf("new cubemap: %v", err)
	}
	rng := rand.New(rand.NewSource(int64(size)))
	for mip := 0; mip < c.NumMips(); mip++ {
		s := size >> mip
		for face := 0; face < numFaces; face++ {
			for y := 0; y < s; y++ {
				for x := 0; x < s; x++ {
					c.SetTexel(mip, face, x, y, rgbm.LinearColor{
						R: rng.Float32() * 16, G: rng.Float32() * 16, B: rng.Float32() * 16, A: 1,
					})
				}
			}
		}
	}
	return c
}

func TestCubemap(t *testing.T) {
	t.Run("InvalidSize", func(t *testing.T) {
		for _, size := range []int{0, 3, -4, MaxCubemapSize * 2} {
			if _, err := NewCubemap(size); !errors.Is(err, rgbm.ErrInvalidSize) {
				t.Errorf("size %d: expected ErrInvalidSize, got %v", size, err)
			}
		}
	})

	t.Run("TexelLayout", func(t *testing.T) {
		c, err := NewCubemap(4)
		if err != nil {
			t.Fatalf("new cubemap: %v", err)
		}
		v := rgbm.LinearColor{R: 0.5, G: 2, B: 8, A: 1}
		c.SetTexel(1, 3, 1, 0, v)

		if got := c.Texel(1, 3, 1, 0); got != v {
			t.Errorf("expected %s, got %s", v, got)
		}
		face := c.Face(1, 3)
		if len(face) != 4 {
			t.Fatalf("expected 4 texels, got %d", len(face))
		}
		if face[1] != v {
			t.Errorf("expected texel 1 to be %s, got %s", v, face[1])
		}

		data, _ := c.MarshalBinary()
		// mip 0 is 6*16 texels, then faces 0-2 of mip 1 hold 4 texels each
		offset := (6*16 + 3*4 + 1) * texelSize
		if data[offset] == 0 && data[offset+1] == 0 {
			t.Error("texel not found at its stream offset")
		}
	})

	t.Run("Fill", func(t *testing.T) {
		c, _ := NewCubemap(2)
		v := rgbm.LinearColor{R: 1, G: 1, B: 1, A: 1}
		c.Fill(0, 5, v)
		for _, got := range c.Face(0, 5) {
			if got != v {
				t.Fatalf("expected %s, got %s", v, got)
			}
		}
		if got := c.Texel(0, 4, 0, 0); got != (rgbm.LinearColor{}) {
			t.Errorf("Fill touched another face: %s", got)
		}
	})
}

func TestReadWrite(t *testing.T) {
	original := randomCubemap(t, 16)

	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		ws := &seekableBuffer{Buffer: &buf}

		if err := WriteCubemap(ws, original, WithCompressionLevel(3)); err != nil {
			t.Fatalf("encode: %v", err)
		}

		decoded, err := ReadCubemap(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		want, _ := original.MarshalBinary()
		got, _ := decoded.MarshalBinary()
		if !bytes.Equal(got, want) {
			t.Error("texel data mismatch after round trip")
		}
	})

	t.Run("HeaderCompressedLength", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCubemap(&seekableBuffer{Buffer: &buf}, original); err != nil {
			t.Fatalf("encode: %v", err)
		}

		h := &Header{}
		if err := h.UnmarshalBinary(buf.Bytes()); err != nil {
			t.Fatalf("header: %v", err)
		}
		if int(h.CompressedLength) != buf.Len()-HeaderSize {
			t.Errorf("expected compressed length %d, got %d", buf.Len()-HeaderSize, h.CompressedLength)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCubemap(&seekableBuffer{Buffer: &buf}, original); err != nil {
			t.Fatalf("encode: %v", err)
		}
		data := buf.Bytes()[:buf.Len()/2]
		if _, err := ReadCubemap(bytes.NewReader(data)); err == nil {
			t.Error("expected error for truncated capture")
		}
	})

	t.Run("StreamShorterThanHeader", func(t *testing.T) {
		compressed, err := zstd.Compress(nil, make([]byte, 64))
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		var buf bytes.Buffer
		h := NewHeader(MaxCubemapSize, uint64(len(compressed)))
		hdr, _ := h.MarshalBinary()
		buf.Write(hdr)
		buf.Write(compressed)

		if _, err := ReadCubemap(&buf); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
		}
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lobby.hdrc")
		if err := SaveFile(path, original); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.Size() != 16 || loaded.NumMips() != 5 {
			t.Errorf("expected 16px with 5 mips, got %dpx with %d", loaded.Size(), loaded.NumMips())
		}
	})
}

func TestWriterLength(t *testing.T) {
	t.Run("Short", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&seekableBuffer{Buffer: &buf}, 4)
		if err != nil {
			t.Fatalf("new writer: %v", err)
		}
		if _, err := w.Write(make([]byte, 100)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := w.Close(); !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("Long", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&seekableBuffer{Buffer: &buf}, 4)
		if err != nil {
			t.Fatalf("new writer: %v", err)
		}
		if _, err := w.Write(make([]byte, w.Header().Length+1)); !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("InvalidSize", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := NewWriter(&seekableBuffer{Buffer: &buf}, 12); !errors.Is(err, rgbm.ErrInvalidSize) {
			t.Errorf("expected ErrInvalidSize, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected nothing written, got %d bytes", buf.Len())
		}
	})

	t.Run("SaveFileRemovesOutput", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.hdrc")
		c := &Cubemap{size: 4, texels: make([]float16.Float16, 8)}
		if err := SaveFile(path, c); !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected partial capture to be removed, stat: %v", err)
		}
	})
}

func TestEncodeFromCapture(t *testing.T) {
	c := randomCubemap(t, 8)
	enc, err := rgbm.EncodeCubemap(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc.NumMips() != 4 {
		t.Errorf("expected 4 mips, got %d", enc.NumMips())
	}
}

type seekableBuffer struct {
	*bytes.Buffer
	pos int64
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case 0:
		newPos = offset
	case 1:
		newPos = s.pos + offset
	case 2:
		newPos = int64(s.Buffer.Len()) + offset
	}
	s.pos = newPos
	return newPos, nil
}

func (s *seekableBuffer) Write(p []byte) (n int, err error) {
	for int64(s.Buffer.Len()) < s.pos {
		s.Buffer.WriteByte(0)
	}
	if s.pos < int64(s.Buffer.Len()) {
		data := s.Buffer.Bytes()
		n = copy(data[s.pos:], p)
		if n < len(p) {
			m, err := s.Buffer.Write(p[n:])
			n += m
			if err != nil {
				return n, err
			}
		}
	} else {
		n, err = s.Buffer.Write(p)
	}
	s.pos += int64(n)
	return n, err
}

func BenchmarkWriteCubemap(b *testing.B) {
	c, _ := NewCubemap(64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := WriteCubemap(&seekableBuffer{Buffer: &buf}, c); err != nil {
			b.Fatal(err)
		}
	}
}
