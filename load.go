package main

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gorgonia.org/tensor"
)

const NumClasses = 10

// Sample pairs a flattened, normalized image with its digit label.
type Sample struct {
	Pixels []float64
	Label  int
}

// loadImage decodes an image file into a tensor of [0,1] grayscale values,
// shape (height, width).
func loadImage(path string) (*tensor.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	norm := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Luma from the 16-bit channels, scaled to [0,1].
			norm[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
		}
	}
	return tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(h, w), tensor.WithBacking(norm)), nil
}

// loadDataset walks dir expecting one subdirectory per digit (named "0"
// through "9") of PNG images.
func loadDataset(dir string) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label, err := strconv.Atoi(entry.Name())
		if err != nil || label < 0 || label >= NumClasses {
			continue
		}
		files, err := filepath.Glob(filepath.Join(dir, entry.Name(), "*.png"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		for _, path := range files {
			img, err := loadImage(path)
			if err != nil {
				return nil, err
			}
			samples = append(samples, Sample{
				Pixels: img.Data().([]float64),
				Label:  label,
			})
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no digit images found under %s", dir)
	}
	return samples, nil
}

// oneHotEncode packs all labels into an (n × numClasses) one-hot tensor.
func oneHotEncode(labels []int, numClasses int) *tensor.Dense {
	norm := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		norm[i*numClasses+label] = 1.0
	}
	return tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(len(labels), numClasses), tensor.WithBacking(norm))
}
