package receipt

import "time"

// Status is the processing state of an uploaded receipt
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Receipt represents an uploaded receipt image and what was read from it
type Receipt struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Status      Status    `json:"status"`
	Text        string    `json:"text,omitempty"`        // OCR transcript
	Ingredients []string  `json:"ingredients,omitempty"` // names added to the fridge
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Finished reports whether processing has completed, successfully or not
func (r *Receipt) Finished() bool {
	return r.Status == StatusDone || r.Status == StatusFailed
}
