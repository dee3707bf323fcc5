// Package pngsrc adapts a folder of same-sized PNG files into the qdx
// package's ImageSource capability. It is the thin, swappable external
// collaborator named in spec.md §1 and SPEC_FULL.md §13: PNG decoding,
// grayscale thresholding, and thumbnail resizing live here, not in the core
// codec.
package pngsrc

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/draw"

	"github.com/galaxy1/qdx"
)

// threshold matches qdxfromPNG.py's np.where(... < 128, 0, 1).
const threshold = 128

// grid adapts a decoded, thresholded image.Gray into qdx.ImageSource.
type grid struct {
	g *image.Gray
}

func (s grid) Height() int { return s.g.Bounds().Dy() }
func (s grid) Width() int  { return s.g.Bounds().Dx() }

func (s grid) PixelAt(row, col int) qdx.Value {
	b := s.g.Bounds()
	v := s.g.GrayAt(b.Min.X+col, b.Min.Y+row).Y
	if v < threshold {
		return qdx.Off
	}
	return qdx.On
}

// Layer is one folder entry's prepared (main, thumb) pair.
type Layer struct {
	Main, Thumb qdx.ImageSource
}

// Folder is a qdx.LayerSource backed by a directory of PNG files, sorted by
// filename (matching qdx.py's `sorted(png_files)`).
type Folder struct {
	paths []string
}

// OpenFolder lists every *.png file in dir and validates they share one
// dimension, per qdx.py's validate_png_files.
func OpenFolder(dir string) (*Folder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pngsrc: read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("pngsrc: no PNG files found in %s", dir)
	}
	sort.Strings(paths)

	var wantW, wantH int
	for i, p := range paths {
		w, h, err := decodedSize(p)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			wantW, wantH = w, h
			continue
		}
		if w != wantW || h != wantH {
			return nil, fmt.Errorf("pngsrc: %s is %dx%d, expected %dx%d", p, w, h, wantW, wantH)
		}
	}
	return &Folder{paths: paths}, nil
}

func decodedSize(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("pngsrc: open %s: %w", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("pngsrc: decode config %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Len implements qdx.LayerSource.
func (f *Folder) Len() int { return len(f.paths) }

// Layer implements qdx.LayerSource: decode the i'th PNG, threshold it for
// the main image, and separately resize-then-threshold it by 1/10 for the
// thumbnail (§4.2 "Thumb vs main").
func (f *Folder) Layer(i int) (main, thumb qdx.ImageSource, err error) {
	img, err := decode(f.paths[i])
	if err != nil {
		return nil, nil, err
	}
	gray := toGray(img)
	thumbGray := resizeGray(gray, gray.Bounds().Dx()/10, gray.Bounds().Dy()/10)
	return grid{g: gray}, grid{g: thumbGray}, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pngsrc: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("pngsrc: decode %s: %w", path, err)
	}
	return img, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}

// resizeGray downscales src to (w, h) using x/image/draw's bilinear scaler,
// the idiomatic Go equivalent of PIL's Image.resize used by qdxfromPNG.py.
func resizeGray(src *image.Gray, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
