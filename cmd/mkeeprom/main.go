//go:build !tinygo

// Command mkeeprom writes or inspects a host EEPROM image.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"c201/firmware/store"
)

const (
	defaultImagePath = "c201.eeprom"
	defaultImageSize = 1024
	erasedByte       = 0xFF
)

type imageFile struct {
	f    *os.File
	size uint32
}

// createImage truncates path to size bytes and erases every cell.
func createImage(path string, size uint32) (*imageFile, error) {
	if size == 0 {
		return nil, fmt.Errorf("eeprom: invalid size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	erased := make([]byte, size)
	for i := range erased {
		erased[i] = erasedByte
	}
	if _, err := f.WriteAt(erased, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("erase image %q: %w", path, err)
	}
	return &imageFile{f: f, size: size}, nil
}

func openImage(path string) (*imageFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat image %q: %w", path, err)
	}
	return &imageFile{f: f, size: uint32(st.Size())}, nil
}

func (f *imageFile) Close() error { return f.f.Close() }

func (f *imageFile) SizeBytes() uint32 { return f.size }

func (f *imageFile) ReadByteAt(addr uint32) (byte, error) {
	if addr >= f.size {
		return 0, fmt.Errorf("eeprom read at %d: %w", addr, os.ErrInvalid)
	}
	var b [1]byte
	if _, err := f.f.ReadAt(b[:], int64(addr)); err != nil {
		return 0, fmt.Errorf("eeprom read at %d: %w", addr, err)
	}
	return b[0], nil
}

func (f *imageFile) WriteByteAt(addr uint32, b byte) error {
	if addr >= f.size {
		return fmt.Errorf("eeprom write at %d: %w", addr, os.ErrInvalid)
	}
	if _, err := f.f.WriteAt([]byte{b}, int64(addr)); err != nil {
		return fmt.Errorf("eeprom write at %d: %w", addr, err)
	}
	return nil
}

func main() {
	var outPath string
	var size uint
	var value int
	var dump bool
	flag.StringVar(&outPath, "out", defaultImagePath, "EEPROM image path.")
	flag.UintVar(&size, "size", defaultImageSize, "Image size (bytes).")
	flag.IntVar(&value, "value", -1, "Stored value 0..255 (-1 leaves the image erased).")
	flag.BoolVar(&dump, "dump", false, "Print the stored value of an existing image.")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}

	var err error
	if dump {
		err = runDump(os.Stdout, outPath)
	} else {
		err = run(outPath, uint32(size), value)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(outPath string, size uint32, value int) error {
	if value < -1 || value > 255 {
		return fmt.Errorf("value %d out of range 0..255", value)
	}
	img, err := createImage(outPath, size)
	if err != nil {
		return err
	}
	defer func() { _ = img.Close() }()

	if value >= 0 {
		if err := store.New(img).Set(value); err != nil {
			return err
		}
	}
	return img.f.Sync()
}

func runDump(w io.Writer, path string) error {
	img, err := openImage(path)
	if err != nil {
		return err
	}
	defer func() { _ = img.Close() }()

	s := store.New(img)
	if err := s.Load(); err != nil {
		return err
	}
	v, _ := s.Value()
	_, err = fmt.Fprintf(w, "%s: addr %d = %d (%d bytes)\n", path, store.Addr, v, img.size)
	return err
}
