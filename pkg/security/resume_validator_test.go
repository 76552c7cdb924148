package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResume(t *testing.T) {
	pdfBytes := append([]byte("%PDF-1.7"), make([]byte, 64)...)

	t.Run("valid pdf passes", func(t *testing.T) {
		result := ValidateResume("resume.pdf", pdfBytes, "application/pdf")
		assert.True(t, result.Valid)
		assert.Equal(t, ".pdf", result.Extension)
	})

	t.Run("extension without matching content is rejected", func(t *testing.T) {
		result := ValidateResume("resume.pdf", []byte("MZ\x90\x00 not a pdf"), "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "does not match extension")
	})

	t.Run("disallowed extension is rejected", func(t *testing.T) {
		result := ValidateResume("payload.exe", pdfBytes, "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "not allowed")
	})

	t.Run("missing extension is rejected", func(t *testing.T) {
		result := ValidateResume("resume", pdfBytes, "application/pdf")
		assert.False(t, result.Valid)
	})

	t.Run("octet-stream MIME is rejected", func(t *testing.T) {
		result := ValidateResume("resume.txt", []byte("plain text resume"), "application/octet-stream")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "MIME type not allowed")
	})

	t.Run("text MIME with charset suffix passes", func(t *testing.T) {
		result := ValidateResume("resume.txt", []byte("plain text resume"), "text/plain; charset=utf-8")
		assert.True(t, result.Valid)
	})

	t.Run("docx zip container passes", func(t *testing.T) {
		docx := append([]byte{0x50, 0x4B, 0x03, 0x04}, make([]byte, 32)...)
		result := ValidateResume("resume.docx", docx, "application/zip")
		assert.True(t, result.Valid)
	})
}
