// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/errorspkg"
	"github.com/cypherbank/banking/pkg/web"
)

// Service provides account service layer interface needed by the delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, userID int64, accountType, initialBalance string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	SetBalance(ctx context.Context, id int64, newBalance string) (domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

// Coordinator provides the transfer coordination interface needed by the
// delivery layer.
type Coordinator interface {
	Deposit(ctx context.Context, accountID int64, amount string) (domain.Account, error)
	Withdraw(ctx context.Context, accountID int64, amount string) (domain.Account, error)
	Transfer(ctx context.Context, fromID, toID int64, amount string) (domain.TransferResult, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service     Service
	coordinator Coordinator
}

// NewHandler returns account handler.
func NewHandler(as Service, tc Coordinator) *Handler {
	return &Handler{
		service:     as,
		coordinator: tc,
	}
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type userIDRequest struct {
	UserID int64 `uri:"userId" binding:"required,min=1"`
}

// List handles http request to list all accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	accounts, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, accounts)
}

// Get handles http request to get one account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, account)
}

// ListByUser handles http request to list the accounts of one user.
func (h *Handler) ListByUser(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req userIDRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	accounts, err := h.service.ListByUser(ctx, req.UserID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, accounts)
}

type createRequest struct {
	UserID         int64  `form:"userId" binding:"required,min=1"`
	Type           string `form:"type" binding:"required"`
	InitialBalance string `form:"initialBalance" binding:"required"`
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := h.service.Create(ctx, req.UserID, req.Type, req.InitialBalance)
	if err != nil {
		if err == domain.ErrInvalidAmount {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, account)
}

type setBalanceRequest struct {
	NewBalance string `form:"newBalance" binding:"required"`
}

// SetBalance handles http request to override an account balance.
func (h *Handler) SetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var (
		uri idRequest
		req setBalanceRequest
	)

	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := h.service.SetBalance(ctx, uri.ID, req.NewBalance)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, account)
}

// Delete handles http request to delete account.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if err := h.service.Delete(ctx, req.ID); err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Status(http.StatusNoContent)
}

type amountRequest struct {
	Amount string `form:"amount" binding:"required"`
}

// Deposit handles http request to deposit money into an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.mutate(gctx, h.coordinator.Deposit)
}

// Withdraw handles http request to withdraw money from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.mutate(gctx, h.coordinator.Withdraw)
}

func (h *Handler) mutate(gctx *gin.Context, op func(ctx context.Context, accountID int64, amount string) (domain.Account, error)) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var (
		uri idRequest
		req amountRequest
	)

	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := op(ctx, uri.ID, req.Amount)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case
			domain.ErrInvalidAmount,
			domain.ErrNegativeAmount,
			domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, account)
}

type transferRequest struct {
	FromAccountID int64  `form:"fromAccountId" binding:"required,min=1"`
	ToAccountID   int64  `form:"toAccountId" binding:"required,min=1"`
	Amount        string `form:"amount" binding:"required"`
}

// Transfer handles http request to transfer money between two accounts.
// The response body is plain text for compatibility with existing callers.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.String(http.StatusBadRequest, "Transfer failed")

		return
	}

	if _, err := h.coordinator.Transfer(ctx, req.FromAccountID, req.ToAccountID, req.Amount); err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrAccountNotFound,
			domain.ErrInvalidAmount,
			domain.ErrNegativeAmount,
			domain.ErrInsufficientBalance:
			gctx.String(http.StatusBadRequest, "Transfer failed")

			return
		}

		gctx.String(http.StatusInternalServerError, "Transfer failed")

		return
	}

	gctx.String(http.StatusOK, "Transfer successful")
}
