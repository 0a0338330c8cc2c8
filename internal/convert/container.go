// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/paperclean/internal/container"
	"github.com/pdiddy/paperclean/pkg/types"
)

// Default images. Each reads the source document on stdin and writes the
// converted document to stdout.
const (
	ImagePDFToDOCX = "paperclean/pdf2docx:latest"
	ImageDOCXToPDF = "paperclean/docx2pdf:latest"
)

// DefaultImage returns the conversion image for d.
func DefaultImage(d types.ConversionDirection) (string, error) {
	switch d {
	case types.PDFToDOCX:
		return ImagePDFToDOCX, nil
	case types.DOCXToPDF:
		return ImageDOCXToPDF, nil
	}
	return "", fmt.Errorf("unknown conversion direction %q", d)
}

// ContainerConverter pipes each file through a conversion image run by a
// container.Runtime.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
}

// NewContainerConverter returns a converter for image, which must already
// be present in rt.
func NewContainerConverter(rt container.Runtime, image string) (*ContainerConverter, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("conversion image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image}, nil
}

// Convert streams src through the container into dst.
func (c *ContainerConverter) Convert(ctx context.Context, src string, dst io.Writer) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	cw := &countingWriter{w: dst}
	if err := c.runtime.Run(ctx, c.image, f, cw); err != nil {
		return fmt.Errorf("converting %s: %w", src, err)
	}
	if cw.n == 0 {
		return fmt.Errorf("%s produced empty output for %s", c.image, src)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
