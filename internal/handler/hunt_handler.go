package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/repository"
	"github.com/lakbayapp/lakbay-backend/internal/response"
	"github.com/lakbayapp/lakbay-backend/internal/service"
	"github.com/lakbayapp/lakbay-backend/internal/validator"
)

// HuntHandler handles operator endpoints for authoring and managing hunts.
type HuntHandler struct {
	catalogService *service.CatalogService
	progressRepo   *repository.ProgressRepository
}

// NewHuntHandler creates a new HuntHandler.
func NewHuntHandler(catalogService *service.CatalogService, progressRepo *repository.ProgressRepository) *HuntHandler {
	return &HuntHandler{
		catalogService: catalogService,
		progressRepo:   progressRepo,
	}
}

// ListHunts godoc
// GET /api/v1/admin/hunts?status=&page=&per_page=
func (h *HuntHandler) ListHunts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	var status *model.HuntStatus
	if raw := c.Query("status"); raw != "" {
		s := model.HuntStatus(raw)
		switch s {
		case model.HuntStatusDraft, model.HuntStatusPublished, model.HuntStatusArchived:
			status = &s
		default:
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
	}

	hunts, pagination, err := h.catalogService.List(c.Request.Context(), status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if hunts == nil {
		hunts = []model.Hunt{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"hunts": hunts}, pagination)
}

// GetHunt godoc
// GET /api/v1/admin/hunts/:hunt_id
// Returns the full definition, answer keys included.
func (h *HuntHandler) GetHunt(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	found, err := h.catalogService.GetByID(c.Request.Context(), huntID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, found)
}

// CreateHunt godoc
// POST /api/v1/admin/hunts
func (h *HuntHandler) CreateHunt(c *gin.Context) {
	var req model.CreateHuntRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.catalogService.Create(c.Request.Context(), &req)
	if err != nil {
		failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// UpdateHunt godoc
// PUT /api/v1/admin/hunts/:hunt_id
// Draft hunts only. Published definitions are immutable so saved progress
// always matches what players saw.
func (h *HuntHandler) UpdateHunt(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	var req model.UpdateHuntRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	updated, err := h.catalogService.Update(c.Request.Context(), huntID, &req)
	if err != nil {
		failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DeleteHunt godoc
// DELETE /api/v1/admin/hunts/:hunt_id
func (h *HuntHandler) DeleteHunt(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), huntID); err != nil {
		failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// PublishHunt godoc
// POST /api/v1/admin/hunts/:hunt_id/publish
// Validates the full definition before making the hunt playable.
func (h *HuntHandler) PublishHunt(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	if err := h.catalogService.Publish(c.Request.Context(), huntID); err != nil {
		failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.HuntStatusPublished})
}

// ArchiveHunt godoc
// POST /api/v1/admin/hunts/:hunt_id/archive
func (h *HuntHandler) ArchiveHunt(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	if err := h.catalogService.Archive(c.Request.Context(), huntID); err != nil {
		failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.HuntStatusArchived})
}

// GetHuntResults godoc
// GET /api/v1/admin/hunts/:hunt_id/results?page=&per_page=
// Lists player attempts ordered by points.
func (h *HuntHandler) GetHuntResults(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	results, total, err := h.progressRepo.ListByHunt(c.Request.Context(), huntID, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if results == nil {
		results = []repository.HuntResult{}
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func failCatalog(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHuntNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrHuntNotDraft)
	case errors.Is(err, model.ErrInvalidHuntDefinition):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidHuntDefinition)
	case errors.Is(err, service.ErrHuntNotAvailable):
		response.Fail(c, http.StatusNotFound, response.ErrHuntNotAvailable)
	default:
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	}
}
