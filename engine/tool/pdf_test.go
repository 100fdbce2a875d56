package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/engine/artifact"
)

func TestPDFConverterConvertible(t *testing.T) {
	t.Run("Should trust a declared pdf mime type", func(t *testing.T) {
		c := NewPDFConverter()
		assert.True(t, c.Convertible(context.Background(), artifact.FileRef{Mime: pdfMime}))
		assert.False(t, c.Convertible(context.Background(), artifact.FileRef{Mime: "text/plain"}))
	})
	t.Run("Should detect the mime type from disk when undeclared", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
		c := NewPDFConverter()
		assert.False(t, c.Convertible(context.Background(), artifact.FileRef{Path: path}))
	})
	t.Run("Should reject unreadable paths", func(t *testing.T) {
		c := NewPDFConverter()
		assert.False(t, c.Convertible(context.Background(), artifact.FileRef{Path: "/nonexistent/file"}))
	})
}

func TestPDFConverterConvert(t *testing.T) {
	t.Run("Should fail on files that are not pdfs", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
		c := NewPDFConverter()
		_, err := c.Convert(context.Background(), artifact.FileRef{Name: "fake.pdf", Path: path})
		assert.Error(t, err)
	})
}
