package server

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/receipt"
)

// maxUploadSize limits receipt uploads to 10MB
const maxUploadSize = int64(10 << 20)

// uploadFields are the form fields a receipt image may arrive in
var uploadFields = []string{"receiptImage", "file"}

// handleListReceipts returns all receipts, newest first
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.services.Receipts.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if receipts == nil {
		receipts = []*receipt.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}

// formFile returns the first upload found in uploadFields
func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	for _, field := range uploadFields {
		f, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		return f, header, err
	}
	return nil, nil, http.ErrMissingFile
}

// contentTypeOf prefers the part's declared type and falls back to the
// file extension
func contentTypeOf(header *multipart.FileHeader) string {
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleUploadReceipt stores a receipt image and queues it for reading
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum size is 10MB.")
			return
		}
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := formFile(r)
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "No image file uploaded")
		return
	}
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "Error reading uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	rec, err := s.services.Receipts.Upload(header.Filename, data, contentTypeOf(header))
	switch {
	case errors.Is(err, receipt.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case errors.Is(err, receipt.ErrQueueFull), errors.Is(err, receipt.ErrWorkerStopped):
		writeError(w, http.StatusServiceUnavailable, "Receipt queue is busy, try again shortly")
		return
	case err != nil:
		slog.Error("Error uploading receipt", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload receipt image")
		return
	}

	writeJSON(w, http.StatusAccepted, rec)
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	rec, err := s.services.Receipts.GetReceipt(r.PathValue("id"))
	if err != nil {
		writeReceiptError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleGetReceiptFile returns the uploaded image for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.services.Receipts.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		writeReceiptError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteReceipt deletes a receipt and its file
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Receipts.DeleteReceipt(r.PathValue("id")); err != nil {
		writeReceiptError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeReceiptError(w http.ResponseWriter, err error) {
	if errors.Is(err, receipt.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	slog.Error("Receipt request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
