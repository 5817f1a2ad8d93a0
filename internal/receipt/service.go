package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/extraction"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/pantry"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/scanning"
)

// ErrUnsupportedType is returned for uploads that are neither images nor PDFs
var ErrUnsupportedType = errors.New("only image or PDF uploads are allowed")

// ErrInterrupted is recorded on receipts a previous run stopped mid-processing
var ErrInterrupted = errors.New("processing was interrupted; upload the receipt again")

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Queue accepts receipt IDs for background processing
type Queue interface {
	Enqueue(id string) error
}

// Pantry receives the ingredients read from a receipt
type Pantry interface {
	AddAll(names []string) ([]*pantry.Item, error)
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt uploads and their processing
type Service struct {
	db          DB
	storage     Storage
	scanner     scanning.Scanner
	pantry      Pantry
	queue       Queue
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID receipt IDs and the wall clock
func NewService(db DB, storage Storage, scanner scanning.Scanner, pantry Pantry, queue Queue) *Service {
	return NewServiceWithDeps(db, storage, scanner, pantry, queue, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, scanner scanning.Scanner, pantry Pantry, queue Queue, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		scanner:     scanner,
		pantry:      pantry,
		queue:       queue,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and shortens the long names
// phones give their photos
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(repeatedSpaces.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// allowedType reports whether the content type is an image or a PDF
func allowedType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

// Upload stores a receipt image and queues it for processing. The returned
// receipt is pending; its ingredients arrive once a worker has read it.
func (s *Service) Upload(filename string, data []byte, contentType string) (*Receipt, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !allowedType(contentType) {
		return nil, ErrUnsupportedType
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedName, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	receipt := &Receipt{
		ID:          id,
		Filename:    savedName,
		ContentType: contentType,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.SaveReceipt(receipt); err != nil {
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	if err := s.queue.Enqueue(id); err != nil {
		// Leave nothing behind that a restart would pick up again
		s.db.DeleteReceipt(id)
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("queueing receipt: %w", err)
	}

	slog.Info("Receipt queued", "id", id, "content_type", contentType, "file_size", len(data))
	return receipt, nil
}

// Process reads a stored receipt, extracts its ingredients and adds them to
// the fridge. The receipt ends up done or failed; a failure is also returned.
// A cancelled ctx leaves the receipt untouched for Resume to pick up.
func (s *Service) Process(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt: %w", err)
	}
	if receipt.Finished() {
		return nil
	}

	receipt.Status = StatusProcessing
	receipt.UpdatedAt = s.timeSource.Now()
	if err := s.db.SaveReceipt(receipt); err != nil {
		return fmt.Errorf("saving receipt status: %w", err)
	}

	names, err := s.read(receipt)
	if err != nil {
		slog.Error("Failed to process receipt", "id", id, "content_type", receipt.ContentType, "error", err)
		receipt.Status = StatusFailed
		receipt.Error = err.Error()
	} else {
		receipt.Status = StatusDone
		receipt.Ingredients = names
		receipt.Error = ""
	}
	receipt.UpdatedAt = s.timeSource.Now()

	if saveErr := s.db.SaveReceipt(receipt); saveErr != nil {
		return fmt.Errorf("saving receipt result: %w", saveErr)
	}
	return err
}

func (s *Service) read(receipt *Receipt) ([]string, error) {
	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, fmt.Errorf("loading receipt file: %w", err)
	}

	text, err := s.scanner.ScanText(data, receipt.ContentType)
	if err != nil {
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}
	receipt.Text = text

	names := extraction.Ingredients(text)
	if _, err := s.pantry.AddAll(names); err != nil {
		return nil, fmt.Errorf("adding ingredients to fridge: %w", err)
	}

	slog.Info("Receipt processed", "id", receipt.ID, "ingredients", len(names))
	return names, nil
}

// Resume queues receipts left pending by a previous run. A receipt left
// processing may already have reached the fridge, so it is marked failed
// instead of being read again.
func (s *Service) Resume() (int, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return 0, fmt.Errorf("listing receipts: %w", err)
	}

	queued := 0
	// Oldest first so they finish in upload order
	for i := len(receipts) - 1; i >= 0; i-- {
		receipt := receipts[i]
		switch receipt.Status {
		case StatusPending:
			if err := s.queue.Enqueue(receipt.ID); err != nil {
				return queued, fmt.Errorf("queueing receipt %s: %w", receipt.ID, err)
			}
			queued++
		case StatusProcessing:
			receipt.Status = StatusFailed
			receipt.Error = ErrInterrupted.Error()
			receipt.UpdatedAt = s.timeSource.Now()
			if err := s.db.SaveReceipt(receipt); err != nil {
				return queued, fmt.Errorf("saving interrupted receipt %s: %w", receipt.ID, err)
			}
			slog.Warn("Receipt was interrupted while processing", "id", receipt.ID)
		}
	}
	return queued, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts, newest first
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its file. Ingredients already added to
// the fridge stay there.
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if err := s.storage.Delete(receipt.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", receipt.Filename, "error", err)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the uploaded file for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}
	return data, receipt.ContentType, nil
}
