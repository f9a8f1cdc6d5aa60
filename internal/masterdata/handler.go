package masterdata

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
)

// Handler exposes hotel and vendor maintenance over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the master data handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Post("/", h.createHotel)
		r.Get("/{id}", h.showHotel)
		r.Put("/{id}", h.updateHotel)
	})
	r.Route("/vendors", func(r chi.Router) {
		r.Get("/", h.listVendors)
		r.Post("/", h.createVendor)
		r.Get("/{id}", h.showVendor)
		r.Put("/{id}", h.updateVendor)
	})
}

func (h *Handler) createHotel(w http.ResponseWriter, r *http.Request) {
	var req CreateHotelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	hotel, err := h.service.CreateHotel(r.Context(), req, actorID(r))
	if err != nil {
		h.respondErr(w, "create hotel", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, hotel)
}

func (h *Handler) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", "id must be a number", "id")
		return
	}
	var req UpdateHotelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	hotel, err := h.service.UpdateHotel(r.Context(), id, req, actorID(r))
	if err != nil {
		h.respondErr(w, "update hotel", err)
		return
	}
	httpx.JSON(w, http.StatusOK, hotel)
}

func (h *Handler) showHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", "id must be a number", "id")
		return
	}
	hotel, err := h.service.GetHotel(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get hotel", err)
		return
	}
	httpx.JSON(w, http.StatusOK, hotel)
}

func (h *Handler) listHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListHotelsRequest{
		City:       q.Get("city"),
		Search:     q.Get("search"),
		ActiveOnly: q.Get("active") == "true",
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	hotels, pg, err := h.service.ListHotels(r.Context(), req)
	if err != nil {
		h.respondErr(w, "list hotels", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": hotels, "pagination": pg})
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListVendorsRequest{
		Kind:       VendorKind(q.Get("kind")),
		City:       q.Get("city"),
		ActiveOnly: q.Get("active") == "true",
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	vendors, pg, err := h.service.ListVendors(r.Context(), req)
	if err != nil {
		h.respondErr(w, "list vendors", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": vendors, "pagination": pg})
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req CreateVendorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	vendor, err := h.service.CreateVendor(r.Context(), req, actorID(r))
	if err != nil {
		h.respondErr(w, "create vendor", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vendor)
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", "id must be a number", "id")
		return
	}
	var req UpdateVendorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	vendor, err := h.service.UpdateVendor(r.Context(), id, req, actorID(r))
	if err != nil {
		h.respondErr(w, "update vendor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) showVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", "id must be a number", "id")
		return
	}
	vendor, err := h.service.GetVendor(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get vendor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error(op+" failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func actorID(r *http.Request) int64 {
	if v := r.Header.Get("X-Staff-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return id
		}
	}
	return 1
}
