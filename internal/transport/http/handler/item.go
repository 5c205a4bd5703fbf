package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/ErlanBelekov/item-tracker/internal/transport/http/middleware"
	"github.com/ErlanBelekov/item-tracker/internal/usecase"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	uc     *usecase.ItemUsecase
	logger *slog.Logger
}

func NewItemHandler(uc *usecase.ItemUsecase, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, logger: logger.With("component", "item_handler")}
}

type itemRequest struct {
	Name        string `json:"name"        binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

type itemResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CreatedBy     int64      `json:"createdBy"`
	CreatedByName string     `json:"createdByName"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

func toItemResponse(it *domain.Item) itemResponse {
	return itemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Description:   it.Description,
		CreatedBy:     it.CreatedBy,
		CreatedByName: it.CreatedByName,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

// currentUser returns the id Auth stored; false means the route is not
// behind Auth and the request must be rejected.
func currentUser(ctx *gin.Context) (int64, bool) {
	id := ctx.GetInt64(middleware.UserIDKey)
	return id, id > 0
}

// itemID parses the :id path parameter. Non-numeric ids cannot exist, so
// callers answer them with the same 404 as a missing item.
func itemID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *ItemHandler) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	items, err := h.uc.ListItems(ctx.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(ctx.Request.Context(), "list items", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = toItemResponse(it)
	}
	ctx.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) GetByID(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}
	id, ok := itemID(ctx)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
		return
	}

	item, err := h.uc.GetItem(ctx.Request.Context(), id, userID)
	if err != nil {
		h.writeError(ctx, "get item", id, err)
		return
	}

	ctx.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	var req itemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	item, err := h.uc.CreateItem(ctx.Request.Context(), usecase.CreateItemInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(ctx, "create item", 0, err)
		return
	}

	ctx.Header("Location", "/items/"+strconv.FormatInt(item.ID, 10))
	ctx.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}
	id, ok := itemID(ctx)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
		return
	}

	var req itemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	item, err := h.uc.UpdateItem(ctx.Request.Context(), usecase.UpdateItemInput{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(ctx, "update item", id, err)
		return
	}

	ctx.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}
	id, ok := itemID(ctx)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
		return
	}

	if err := h.uc.DeleteItem(ctx.Request.Context(), id, userID); err != nil {
		h.writeError(ctx, "delete item", id, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ItemHandler) writeError(ctx *gin.Context, op string, id int64, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
	case errors.Is(err, domain.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.ErrorContext(ctx.Request.Context(), op, "item_id", id, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
