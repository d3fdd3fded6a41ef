package permission

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/user-management/internal/transport"
	"github.com/frahmantamala/user-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto *UpsertPermissionDTO) (*Permission, error)
	Get(id int64) (*Permission, error)
	Update(id int64, dto *UpsertPermissionDTO) (*Permission, error)
	Delete(id int64) error
	List(search string, page, perPage int) ([]*Permission, int64, error)
	All() ([]*Permission, error)
	Grouped() (map[string][]*Permission, error)
	Stats() (*Stats, error)
	AssignToUser(permissionID int64, dto *AssignUserDTO) error
	RemoveFromUser(permissionID int64, dto *AssignUserDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) permissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid permission ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := h.Pagination(r)
	search := r.URL.Query().Get("search")

	perms, total, err := h.Service.List(search, page, perPage)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permissions retrieved successfully", transport.Page{
		Items:   perms,
		Total:   total,
		PerPage: perPage,
		Page:    page,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto UpsertPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(&dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "permission created successfully", p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permissionID(w, r)
	if !ok {
		return
	}

	p, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permission retrieved successfully", p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permissionID(w, r)
	if !ok {
		return
	}

	var dto UpsertPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permission updated successfully", p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permissionID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permission deleted successfully", nil)
}

// All serves the unpaginated, name-ordered catalog for pickers.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.All()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permissions retrieved successfully", perms)
}

func (h *Handler) Grouped(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.Service.Grouped()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permissions grouped successfully", grouped)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permission statistics retrieved successfully", stats)
}

func (h *Handler) AssignToUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permissionID(w, r)
	if !ok {
		return
	}

	var dto AssignUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AssignToUser(id, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permission assigned to user successfully", nil)
}

func (h *Handler) RemoveFromUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permissionID(w, r)
	if !ok {
		return
	}

	var dto AssignUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RemoveFromUser(id, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "permission removed from user successfully", nil)
}
