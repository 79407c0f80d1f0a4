package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BAZAR-APP/admin-panel/internal/catalog"
	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/internal/upstream"
	"github.com/BAZAR-APP/admin-panel/pkg/httputil"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
	"github.com/BAZAR-APP/admin-panel/pkg/pagination"
	"github.com/BAZAR-APP/admin-panel/pkg/validator"
)

// CatalogHandler serves the dashboard's list and form screens.
type CatalogHandler struct {
	platform *upstream.Client
	lists    *catalog.Lists
	auditor  catalog.Auditor
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(platform *upstream.Client, lists *catalog.Lists, auditor catalog.Auditor, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{platform: platform, lists: lists, auditor: auditor, logger: logger}
}

func (h *CatalogHandler) service(r *http.Request) *catalog.Service {
	st := stateFrom(r.Context())
	return catalog.NewService(h.platform.WithTokens(st.Tokens), h.lists, st.ID, h.auditor, logger.FromContext(r.Context()))
}

// decode reads the JSON body into dst without validating it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, validator.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (h *CatalogHandler) ok(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, v)
}

func (h *CatalogHandler) created(w http.ResponseWriter, r *http.Request, out json.RawMessage, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if len(out) == 0 {
		out = json.RawMessage("{}")
	}
	httputil.WriteData(w, http.StatusCreated, out)
}

// ListItems handles GET on /amenities, /badges and /view-types.
func (h *CatalogHandler) ListItems(kind domain.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.service(r).Items(kind).List(r.Context())
		h.ok(w, r, items, err)
	}
}

// CreateItem handles POST on /amenities, /badges and /view-types. The
// kind decides which fields are required.
func (h *CatalogHandler) CreateItem(kind domain.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateItemInput
		if err := decode(w, r, &req); err != nil {
			httputil.WriteValidationError(w, r, err)
			return
		}
		out, err := h.service(r).CreateItem(r.Context(), kind, req)
		h.created(w, r, out, err)
	}
}

// ListChalets handles GET /api/v1/chalets
func (h *CatalogHandler) ListChalets(w http.ResponseWriter, r *http.Request) {
	chalets, err := h.service(r).Chalets().List(r.Context())
	h.ok(w, r, chalets, err)
}

// GetChalet handles GET /api/v1/chalets/{id}
func (h *CatalogHandler) GetChalet(w http.ResponseWriter, r *http.Request) {
	chalet, err := h.service(r).Chalet(r.Context(), chi.URLParam(r, "id"))
	h.ok(w, r, chalet, err)
}

// CreateChalet handles POST /api/v1/chalets
func (h *CatalogHandler) CreateChalet(w http.ResponseWriter, r *http.Request) {
	var req domain.ChaletInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).CreateChalet(r.Context(), req)
	h.created(w, r, out, err)
}

// ListRooms handles GET /api/v1/chalets/{id}/rooms
func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service(r).Rooms(chi.URLParam(r, "id")).List(r.Context())
	h.ok(w, r, rooms, err)
}

// CreateRoom handles POST /api/v1/chalets/{id}/rooms
func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req domain.RoomInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	req.ChaletID = chi.URLParam(r, "id")
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).CreateRoom(r.Context(), req)
	h.created(w, r, out, err)
}

// ListSubscriptions handles GET /api/v1/chalets/{id}/subscriptions
func (h *CatalogHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service(r).Subscriptions(chi.URLParam(r, "id")).List(r.Context())
	h.ok(w, r, plans, err)
}

// CreateSubscription handles POST /api/v1/chalets/{id}/subscriptions
func (h *CatalogHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscriptionInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	req.ChaletID = chi.URLParam(r, "id")
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).CreateSubscription(r.Context(), req)
	h.created(w, r, out, err)
}

// ListCustomizations handles GET /api/v1/customizations
func (h *CatalogHandler) ListCustomizations(w http.ResponseWriter, r *http.Request) {
	items, err := h.service(r).Customizations().List(r.Context())
	h.ok(w, r, items, err)
}

// CreateCustomization handles POST /api/v1/customizations
func (h *CatalogHandler) CreateCustomization(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomizationInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).CreateCustomization(r.Context(), req)
	h.created(w, r, out, err)
}

// ListCategories handles GET /api/v1/customization-categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service(r).Categories().List(r.Context())
	h.ok(w, r, categories, err)
}

// CreateCategory handles POST /api/v1/customization-categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).CreateCategory(r.Context(), req)
	h.created(w, r, out, err)
}

// ListTiers handles GET /api/v1/tiers
func (h *CatalogHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service(r).Tiers().List(r.Context())
	h.ok(w, r, tiers, err)
}

// CreateTier handles POST /api/v1/tiers
func (h *CatalogHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var req domain.TierBenefitInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).CreateTier(r.Context(), req)
	h.created(w, r, out, err)
}

// ListUsers handles GET /api/v1/users
func (h *CatalogHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	list, err := h.service(r).Users(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(list.Users, list.Total, params))
}

// GetUser handles GET /api/v1/users/{id}
func (h *CatalogHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service(r).User(r.Context(), chi.URLParam(r, "id"))
	h.ok(w, r, user, err)
}

// UpdateUser handles PATCH /api/v1/users/{id}
func (h *CatalogHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	out, err := h.service(r).UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if len(out) == 0 {
		out = json.RawMessage("{}")
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *CatalogHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service(r).DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
