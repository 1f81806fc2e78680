package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/pkg/logger"
	"github.com/okian/cvrole/pkg/metrics"
)

const (
	// FormField is the multipart field carrying the resume.
	FormField = "resume"

	defaultMaxUploadBytes int64 = 10 << 20
	maxFormMemory         int64 = 32 << 20
)

// ClassifyHandler handles resume uploads.
type ClassifyHandler struct {
	classifier     Classifier
	maxUploadBytes int64
	logger         logger.Logger
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(c Classifier, opts ...Option) *ClassifyHandler {
	h := &ClassifyHandler{
		classifier:     c,
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleClassify handles POST /api/classify requests. The body is a
// multipart form with the document in the "resume" field.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "")
		return
	}

	doc, err := h.readDocument(w, r)
	switch {
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge,
			fmt.Sprintf("The file is larger than the %d byte limit.", h.maxUploadBytes))
		return
	case errors.Is(err, ErrMissingFile):
		writeError(w, http.StatusBadRequest, codeMissingFile, "Please choose a resume file to upload.")
		return
	case err != nil:
		h.logger.Debug(r.Context(), "invalid upload", logger.Error(err))
		writeError(w, http.StatusBadRequest, codeBadRequest, "The upload could not be read.")
		return
	}

	report, err := h.classifier.Classify(r.Context(), doc)
	if err != nil {
		kind := model.KindOf(err)
		writeError(w, statusForKind(kind), kind, model.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ClassifyHandler) readDocument(w http.ResponseWriter, r *http.Request) (model.Document, error) {
	if r.ContentLength > h.maxUploadBytes {
		return model.Document{}, ErrTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(min(h.maxUploadBytes, maxFormMemory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Document{}, ErrTooLarge
		}
		return model.Document{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(FormField)
	if errors.Is(err, http.ErrMissingFile) {
		return model.Document{}, ErrMissingFile
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: read upload: %w", ErrBadRequest, err)
	}
	metrics.RecordUploadSize(int64(len(data)))

	return model.Document{
		Name: header.Filename,
		Type: header.Header.Get("Content-Type"),
		Data: data,
	}, nil
}
