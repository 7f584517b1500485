package dds

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// LoadFile reads a DDS image from path.
func LoadFile(path string, opts ...Option) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	img, err := Load(bufio.NewReader(f), opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// SaveFile writes the image to path. A partially written file is removed
// if any step fails.
func (img *Image) SaveFile(path string, opts ...Option) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("remove partial output: %w", rmErr))
			}
		}
	}()

	w := bufio.NewWriter(f)
	if err = img.Save(w, opts...); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
