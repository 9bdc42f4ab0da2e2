// Package export serializes generated clouds to files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/fileutil"
	"github.com/lox/galaxygen/internal/render"
)

// Format names an output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatPLY  Format = "ply"
	FormatPNG  Format = "png"
)

// Formats lists the supported encodings
var Formats = []Format{FormatJSON, FormatPLY, FormatPNG}

// ParseFormat parses a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FormatForPath picks a format from a file extension, defaulting to JSON
func FormatForPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatJSON
}

// Image controls PNG rendering
type Image struct {
	Camera    render.Camera
	Width     int
	Height    int
	PointSize float64
}

// Document is the JSON shape of a cloud: the params it was built from plus
// flat xyz and rgb attribute arrays. Params colors are written as float
// channels, so regenerating from a decoded Document reproduces the cloud.
type Document struct {
	Params    galaxy.Params `json:"params"`
	Count     int           `json:"count"`
	Positions []float32     `json:"positions"`
	Colors    []float32     `json:"colors"`
}

// NewDocument flattens cloud for JSON transport
func NewDocument(cloud *galaxy.Cloud) Document {
	positions, colors := cloud.Buffers()
	return Document{
		Params:    cloud.Params,
		Count:     cloud.Len(),
		Positions: positions,
		Colors:    colors,
	}
}

// Write encodes cloud to w
func Write(w io.Writer, cloud *galaxy.Cloud, format Format, img Image) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(NewDocument(cloud))
	case FormatPLY:
		return writePLY(w, cloud)
	case FormatPNG:
		frame := render.Rasterize(cloud, img.Camera, img.Width, img.Height, img.PointSize)
		return render.EncodePNG(w, frame)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteFile encodes cloud into path. The file is replaced atomically.
func WriteFile(path string, cloud *galaxy.Cloud, format Format, img Image) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, cloud, format, img)
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// writePLY writes an ASCII PLY point cloud with float vertex colors
func writePLY(w io.Writer, cloud *galaxy.Cloud) error {
	p := cloud.Params
	header := fmt.Sprintf("ply\nformat ascii 1.0\ncomment galaxygen mode=%s seed=%d\n"+
		"element vertex %d\n"+
		"property float x\nproperty float y\nproperty float z\n"+
		"property float red\nproperty float green\nproperty float blue\n"+
		"end_header\n", p.Mode, p.Seed, cloud.Len())
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	positions, colors := cloud.Buffers()
	line := make([]byte, 0, 128)
	for i := 0; i < cloud.Len(); i++ {
		line = line[:0]
		for j, v := range [6]float32{
			positions[3*i], positions[3*i+1], positions[3*i+2],
			colors[3*i], colors[3*i+1], colors[3*i+2],
		} {
			if j > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendFloat(line, float64(v), 'g', -1, 32)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
