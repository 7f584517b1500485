package texture

// Texture is a base surface plus an ordered mip chain.
type Texture struct {
	base    Surface
	mipmaps []Surface
}

// NewTexture returns a texture whose base surface holds a copy of pixels.
func NewTexture(width, height, depth int, pixels []byte) *Texture {
	t := &Texture{}
	t.Create(width, height, depth, pixels)
	return t
}

// Create replaces the base surface and drops any mipmaps.
func (t *Texture) Create(width, height, depth int, pixels []byte) {
	t.base.Create(width, height, depth, pixels)
	t.mipmaps = nil
}

// Clear releases the base surface and all mipmaps.
func (t *Texture) Clear() {
	t.base.Clear()
	t.mipmaps = nil
}

// Clone returns a deep copy of the texture and its mip chain.
func (t *Texture) Clone() *Texture {
	c := &Texture{base: *t.base.Clone()}
	if len(t.mipmaps) > 0 {
		c.mipmaps = make([]Surface, len(t.mipmaps))
		for i := range t.mipmaps {
			c.mipmaps[i] = *t.mipmaps[i].Clone()
		}
	}
	return c
}

// AddMipmap appends a copy of s to the mip chain.
func (t *Texture) AddMipmap(s *Surface) {
	t.mipmaps = append(t.mipmaps, *s.Clone())
}

// NumMipmaps returns the number of mip levels below the base surface.
func (t *Texture) NumMipmaps() int { return len(t.mipmaps) }

// Mipmap returns mip level i (0 is the first level below the base).
func (t *Texture) Mipmap(i int) *Surface { return &t.mipmaps[i] }

// Base returns the base surface.
func (t *Texture) Base() *Surface { return &t.base }

// Surfaces returns the base surface followed by every mip level.
func (t *Texture) Surfaces() []*Surface {
	out := make([]*Surface, 0, 1+len(t.mipmaps))
	out = append(out, &t.base)
	for i := range t.mipmaps {
		out = append(out, &t.mipmaps[i])
	}
	return out
}

func (t *Texture) Width() int     { return t.base.width }
func (t *Texture) Height() int    { return t.base.height }
func (t *Texture) Depth() int     { return t.base.depth }
func (t *Texture) Size() int      { return t.base.Size() }
func (t *Texture) Pixels() []byte { return t.base.pixels }

// SameShape reports whether o has the same base dimensions and mip count.
func (t *Texture) SameShape(o *Texture) bool {
	return t.base.width == o.base.width &&
		t.base.height == o.base.height &&
		t.base.depth == o.base.depth &&
		len(t.mipmaps) == len(o.mipmaps)
}

// Equal reports whether both textures hold identical surfaces.
func (t *Texture) Equal(o *Texture) bool {
	if !t.SameShape(o) || !t.base.Equal(&o.base) {
		return false
	}
	for i := range t.mipmaps {
		if !t.mipmaps[i].Equal(&o.mipmaps[i]) {
			return false
		}
	}
	return true
}

// FlipX mirrors the base surface and every mip horizontally. Texels are
// assumed to be 32 bits wide.
func (t *Texture) FlipX() {
	t.base.flipX()
	for i := range t.mipmaps {
		t.mipmaps[i].flipX()
	}
}
