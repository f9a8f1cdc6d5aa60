package quotation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tripdesk/tripdesk/internal/observability"
	"github.com/tripdesk/tripdesk/internal/platform/httpx"
)

// Attachments above this size are rejected before buffering.
const maxAttachmentSize = 8 << 20

// Handler exposes the drafting wizard over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler constructs the quotation handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes attaches quotation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{code}", h.show)
	r.Put("/{code}/steps/{step}", h.updateStep)
	r.Post("/{code}/finalize", h.finalize)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}

	result, err := h.service.Create(r.Context(), req, actorID(r))
	if err != nil {
		h.observe(StepClient, "error")
		h.respondErr(w, "create draft", err)
		return
	}
	h.observe(StepClient, "ok")
	httpx.JSONWithWarnings(w, http.StatusCreated, result.Draft, result.Warnings)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondErr(w, "get draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListDraftsRequest{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := Status(status)
		req.Status = &s
	}
	req.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	req.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	drafts, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondErr(w, "list drafts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": drafts, "total": total})
}

func (h *Handler) updateStep(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", "step must be a number", "step")
		return
	}

	payload, err := readStepPayload(r)
	if err != nil {
		h.observe(step, "error")
		h.respondErr(w, "read step payload", err)
		return
	}

	result, err := h.service.UpdateStep(r.Context(), code, step, payload)
	if err != nil {
		h.observe(step, "error")
		h.respondErr(w, "update step", err)
		return
	}
	h.observe(step, "ok")
	httpx.JSONWithWarnings(w, http.StatusOK, result.Draft, result.Warnings)
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}

	draft, err := h.service.Finalize(r.Context(), chi.URLParam(r, "code"), req)
	if err != nil {
		h.observe(StepFinalize, "error")
		h.respondErr(w, "finalize draft", err)
		return
	}
	h.observe(StepFinalize, "ok")
	httpx.JSON(w, http.StatusOK, draft)
}

// readStepPayload accepts either a plain JSON body or a multipart form with
// a "payload" JSON part and an optional "image" file: the same tagged
// variant either way.
func readStepPayload(r *http.Request) (StepPayload, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxAttachmentSize+1))
		if err != nil {
			return StepPayload{}, &ValidationError{Field: "payload", Reason: "unreadable request body"}
		}
		if len(data) > maxAttachmentSize {
			return StepPayload{}, &ValidationError{Field: "payload", Reason: fmt.Sprintf("request body exceeds %d bytes", maxAttachmentSize)}
		}
		return StepPayload{Data: data}, nil
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		return StepPayload{}, &ValidationError{Field: "payload", Reason: "malformed multipart form"}
	}
	payload := StepPayload{Data: []byte(r.FormValue("payload"))}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		content, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize+1))
		if err != nil {
			return StepPayload{}, &ValidationError{Field: "image", Reason: "unreadable attachment"}
		}
		if len(content) > maxAttachmentSize {
			return StepPayload{}, &ValidationError{Field: "image", Reason: fmt.Sprintf("attachment exceeds %d bytes", maxAttachmentSize)}
		}
		payload.Attachment = &Attachment{Name: header.Filename, Content: content}
	} else if err != http.ErrMissingFile {
		return StepPayload{}, &ValidationError{Field: "image", Reason: "malformed attachment"}
	}
	return payload, nil
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDraftLocked):
		httpx.Problem(w, http.StatusConflict, "Locked", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusConflict, "Invalid Status", err.Error())
	default:
		if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrComputation) {
			h.logger.Error(op+" failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}

func (h *Handler) observe(step int, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveStep(step, outcome)
	}
}

// actorID resolves the acting staff member. Authentication lives outside
// this service; the upstream gateway injects the id.
func actorID(r *http.Request) int64 {
	if v := r.Header.Get("X-Staff-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return id
		}
	}
	return 1
}
