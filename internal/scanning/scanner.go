// Package scanning turns photographed receipts and recipe cards into plain
// text using a vision language model.
package scanning

// Scanner defines the interface for image transcription
type Scanner interface {
	// ScanText reads an image or PDF and returns its text, one printed line per line
	ScanText(imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
