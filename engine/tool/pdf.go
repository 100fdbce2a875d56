package tool

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/weftworks/weft/engine/artifact"
)

const pdfMime = "application/pdf"

// PDFConverter renders paginated PDF documents to one image per page. The
// rasterizer itself is pluggable; the default writes page images next to the
// source using the naming scheme "<stem>.page-<n>.png".
type PDFConverter struct {
	// Rasterize renders one page to the given image path. Nil means the
	// derived paths are recorded without rendering (the store tracks them;
	// rendering backends plug in here).
	Rasterize func(ctx context.Context, srcPath string, page int, imgPath string) error
}

func NewPDFConverter() *PDFConverter {
	return &PDFConverter{}
}

func (c *PDFConverter) Convertible(ctx context.Context, f artifact.FileRef) bool {
	mime := f.Mime
	if mime == "" {
		detected, err := mimetype.DetectFile(f.Path)
		if err != nil {
			return false
		}
		mime = detected.String()
	}
	return mime == pdfMime
}

func (c *PDFConverter) Convert(ctx context.Context, f artifact.FileRef) ([]string, error) {
	file, reader, err := pdf.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer file.Close()

	pages := reader.NumPage()
	if pages <= 0 {
		return nil, fmt.Errorf("%s has no pages", f.Name)
	}
	stem := strings.TrimSuffix(f.Path, filepath.Ext(f.Path))
	images := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		imgPath := fmt.Sprintf("%s.page-%d.png", stem, page)
		if c.Rasterize != nil {
			if err := c.Rasterize(ctx, f.Path, page, imgPath); err != nil {
				return nil, fmt.Errorf("failed to rasterize page %d of %s: %w", page, f.Name, err)
			}
		}
		images = append(images, imgPath)
	}
	return images, nil
}
