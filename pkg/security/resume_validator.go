package security

import (
	"bytes"
	"path/filepath"
	"strings"
)

// ResumeValidationResult contains the result of resume file validation
type ResumeValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
}

// Magic byte signatures for allowed resume file types
// Maps lowercase extension to possible magic byte prefixes
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
	".rtf":  {{0x7B, 0x5C, 0x72, 0x74, 0x66}},                   // {\rtf
	".txt":  {},                                                 // Text files have no magic bytes - rely on MIME detection
}

// Allowed resume extensions (strict whitelist, documents only)
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".rtf":  true,
	".txt":  true,
}

// Strict MIME types - DO NOT include application/octet-stream
var strictMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/rtf": true,
	"text/rtf":        true,
	"text/plain":      true,
	// ZIP-based documents (DOCX detection fallback)
	"application/zip": true,
}

// ValidateResume performs 3-layer validation of a resume upload:
// 1. Extension whitelist check
// 2. Magic byte verification (content matches extension)
// 3. MIME type whitelist (application/octet-stream REJECTED)
func ValidateResume(filename string, data []byte, detectedMIME string) ResumeValidationResult {
	result := ResumeValidationResult{
		DetectedMIME: detectedMIME,
	}

	// Sanitize and extract extension
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	if !allowedExtensions[ext] {
		result.Error = "file type not allowed: " + ext
		return result
	}

	// Layer 2: Magic byte verification
	signatures := magicBytes[ext]
	if len(signatures) > 0 {
		matched := false
		for _, sig := range signatures {
			if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
				matched = true
				break
			}
		}
		if !matched {
			result.Error = "file content does not match extension " + ext
			return result
		}
	}

	// Layer 3: MIME whitelist. DetectContentType reports text/plain with
	// a charset suffix, so compare on the base type.
	base := detectedMIME
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if !strictMIMETypes[base] {
		result.Error = "MIME type not allowed: " + base
		return result
	}

	result.Valid = true
	return result
}
