package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/warung/internal/domain/model"
)

const (
	defaultMaxUploadBytes int64 = 5 << 20
	// multipartOverhead leaves room for boundaries and other form fields.
	multipartOverhead int64 = 1 << 20

	imageField = "image"

	msgImageRequired = "File gambar wajib diunggah"
	msgImageTooLarge = "Ukuran file terlalu besar"
)

// UploadHandler serves image uploads and the stored files.
type UploadHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies, maxBytes int64) *UploadHandler {
	return &UploadHandler{deps: deps, maxBytes: maxBytes}
}

// HandleUpload handles POST /api/upload with a multipart "image" field.
// The part is streamed to storage without buffering the whole form.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	part, err := h.imagePart(r)
	if err != nil {
		writeError(w, uploadError(op, err))
		return
	}
	defer part.Close()

	imageURL, err := h.deps.UploadImage(r.Context(), part.FileName(), part, requestBase(r))
	if err != nil {
		writeError(w, uploadError(op, err))
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, ImageURL: imageURL})
}

// HandleServe handles GET /uploads/{file}.
func (h *UploadHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	path, err := h.deps.ImagePath(chi.URLParam(r, "file"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

// imagePart advances the multipart stream to the image field.
func (h *UploadHandler) imagePart(r *http.Request) (*multipart.Part, error) {
	const op = "api.upload"
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, model.WrapKind(op, model.ErrValidation, msgImageRequired, fmt.Errorf("%w: %w", ErrNotMultipart, err))
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, model.NewKind(op, model.ErrValidation, msgImageRequired)
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == imageField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// uploadError reports a body that ran past the request limit as a size error.
func uploadError(op string, err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return model.WrapKind(op, model.ErrValidation, msgImageTooLarge, err)
	}
	var known *model.Error
	if errors.As(err, &known) {
		return err
	}
	return model.WrapKind(op, model.ErrValidation, msgImageRequired, err)
}

func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
