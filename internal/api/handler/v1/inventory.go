package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shreevatsags/ecommerce-platform/internal/api/handler/v1/request"
	"github.com/Shreevatsags/ecommerce-platform/internal/api/handler/v1/response"
	"github.com/Shreevatsags/ecommerce-platform/internal/api/middleware"
	"github.com/Shreevatsags/ecommerce-platform/internal/domain"
	"github.com/Shreevatsags/ecommerce-platform/internal/service"
)

type InventoryService interface {
	InitializeStock(ctx context.Context, productID string, quantity int) (domain.StockInfo, error)
	GetStock(ctx context.Context, productID string) (domain.StockInfo, error)
	Reserve(ctx context.Context, productID, holderID string, quantity int) (domain.Reservation, error)
	Confirm(ctx context.Context, productID, holderID string, quantity int) (domain.StockInfo, error)
	Cancel(ctx context.Context, productID, holderID string) (domain.ReleasedStock, error)
	AddStock(ctx context.Context, productID string, quantity int) (domain.StockInfo, error)
}

type LowStockChecker interface {
	Check(ctx context.Context, productID string, threshold int) (domain.LowStockReport, error)
}

type InventoryHandler struct {
	svc     InventoryService
	monitor LowStockChecker
}

func NewInventoryHandler(svc InventoryService, monitor LowStockChecker) *InventoryHandler {
	return &InventoryHandler{
		svc:     svc,
		monitor: monitor,
	}
}

// HandleInitializeStock godoc
// @Summary      Initialize stock for a product
// @Description  Sets the absolute unit count. Repeated calls overwrite; active holds are unaffected.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        input  body      request.InitializeStockRequest  true  "Product and quantity"
// @Success      201    {object}  domain.StockInfo
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /inventory/init [post]
// @Security BearerAuth
func (h *InventoryHandler) HandleInitializeStock(ctx *gin.Context) {
	var input request.InitializeStockRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	info, err := h.svc.InitializeStock(ctx.Request.Context(), input.ProductID, input.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleInitializeStock -> h.svc.InitializeStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, info)
}

// HandleGetStock godoc
// @Summary      Get stock info for a product
// @Description  Returns total, reserved and available units. Unknown products yield zeroes.
// @Tags         inventory
// @Produce      json
// @Param        productID  path      string  true  "Product ID"
// @Success      200        {object}  domain.StockInfo
// @Failure      401        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /inventory/stock/{productID} [get]
// @Security BearerAuth
func (h *InventoryHandler) HandleGetStock(ctx *gin.Context) {
	productID := ctx.Param("productID")

	info, err := h.svc.GetStock(ctx.Request.Context(), productID)
	if err != nil {
		err = fmt.Errorf("HandleGetStock -> h.svc.GetStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// HandleReserveStock godoc
// @Summary      Reserve stock
// @Description  Places a time-bounded hold for the authenticated holder, replacing any prior hold on the same product.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        input  body      request.ReserveStockRequest  true  "Product and quantity"
// @Success      201    {object}  domain.Reservation
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /inventory/reserve [post]
// @Security BearerAuth
func (h *InventoryHandler) HandleReserveStock(ctx *gin.Context) {
	holderID, respErr := getHolderFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ReserveStockRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.Reserve(ctx.Request.Context(), input.ProductID, holderID, input.Quantity)
	if err != nil {
		var insufficientErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.As(err, &insufficientErr):
			response.RenderErr(ctx, response.ErrConflict(insufficientErr))
		default:
			err = fmt.Errorf("HandleReserveStock -> h.svc.Reserve -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, reservation)
}

// HandleConfirmReservation godoc
// @Summary      Confirm a reservation
// @Description  Converts the holder's active hold into a permanent stock deduction. Called after payment succeeds.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        input  body      request.ConfirmReservationRequest  true  "Product and quantity"
// @Success      200    {object}  domain.StockInfo
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /inventory/confirm [post]
// @Security BearerAuth
func (h *InventoryHandler) HandleConfirmReservation(ctx *gin.Context) {
	holderID, respErr := getHolderFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ConfirmReservationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	info, err := h.svc.Confirm(ctx.Request.Context(), input.ProductID, holderID, input.Quantity)
	if err != nil {
		var (
			insufficientErr *service.InsufficientStockError
			mismatchErr     *service.QuantityMismatchError
		)
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrReservationNotFound):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.As(err, &mismatchErr):
			response.RenderErr(ctx, response.ErrConflict(mismatchErr))
		case errors.As(err, &insufficientErr):
			response.RenderErr(ctx, response.ErrConflict(insufficientErr))
		default:
			err = fmt.Errorf("HandleConfirmReservation -> h.svc.Confirm -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// HandleCancelReservation godoc
// @Summary      Cancel a reservation
// @Description  Releases the holder's hold. Cancelling an absent hold succeeds with a released quantity of zero.
// @Tags         inventory
// @Produce      json
// @Param        productID  path      string  true  "Product ID"
// @Success      200        {object}  domain.ReleasedStock
// @Failure      401        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /inventory/reserve/{productID} [delete]
// @Security BearerAuth
func (h *InventoryHandler) HandleCancelReservation(ctx *gin.Context) {
	holderID, respErr := getHolderFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	productID := ctx.Param("productID")

	released, err := h.svc.Cancel(ctx.Request.Context(), productID, holderID)
	if err != nil {
		err = fmt.Errorf("HandleCancelReservation -> h.svc.Cancel -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, released)
}

// HandleAddStock godoc
// @Summary      Add stock to a product
// @Description  Increments the total unit count (restocking).
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productID  path      string                   true  "Product ID"
// @Param        input      body      request.AddStockRequest  true  "Quantity to add"
// @Success      200        {object}  domain.StockInfo
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /inventory/stock/{productID}/add [post]
// @Security BearerAuth
func (h *InventoryHandler) HandleAddStock(ctx *gin.Context) {
	productID := ctx.Param("productID")

	var input request.AddStockRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	info, err := h.svc.AddStock(ctx.Request.Context(), productID, input.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleAddStock -> h.svc.AddStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// HandleCheckLowStock godoc
// @Summary      Check low stock
// @Description  Reports whether available stock is at or below the threshold (query param, defaults to the configured threshold).
// @Tags         inventory
// @Produce      json
// @Param        productID  path      string  true   "Product ID"
// @Param        threshold  query     int     false  "Low stock threshold"
// @Success      200        {object}  domain.LowStockReport
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /inventory/stock/{productID}/low-stock [get]
// @Security BearerAuth
func (h *InventoryHandler) HandleCheckLowStock(ctx *gin.Context) {
	productID := ctx.Param("productID")

	threshold := 0
	if raw := ctx.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("threshold must be a positive integer")))
			return
		}
		threshold = parsed
	}

	report, err := h.monitor.Check(ctx.Request.Context(), productID, threshold)
	if err != nil {
		err = fmt.Errorf("HandleCheckLowStock -> h.monitor.Check -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}

func getHolderFromContext(ctx *gin.Context) (string, *response.Err) {
	holderID := ctx.GetString(middleware.ContextKeyHolderID)
	if holderID == "" {
		return "", response.ErrUnauthorized("holder identity is missing from the request context")
	}

	return holderID, nil
}
