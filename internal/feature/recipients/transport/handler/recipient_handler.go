// Package handler はrecipientsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"subscription_backend/internal/api"
	"subscription_backend/internal/feature/recipients/domain/entity"
	"subscription_backend/internal/feature/recipients/usecase"
)

// RecipientUsecase は受取人操作のユースケースを定義します。
type RecipientUsecase interface {
	Create(ctx context.Context, rec *entity.Recipient) error
	Get(ctx context.Context, id uint) (*entity.Recipient, error)
	List(ctx context.Context, params usecase.ListParams) ([]*entity.Recipient, int64, error)
	Update(ctx context.Context, rec *entity.Recipient) error
	Delete(ctx context.Context, id uint) error
}

// RecipientHandler は受取人CRUDのHTTPリクエストを処理します。
type RecipientHandler struct {
	recipients RecipientUsecase
}

// NewRecipientHandler はRecipientHandlerの新しいインスタンスを生成します。
func NewRecipientHandler(recipients RecipientUsecase) *RecipientHandler {
	return &RecipientHandler{recipients: recipients}
}

type recipientReq struct {
	FullName  string `json:"fullName" binding:"required,min=2,max=255"`
	Street    string `json:"street" binding:"required,max=255"`
	House     string `json:"house" binding:"required,max=10"`
	Apartment string `json:"apartment" binding:"omitempty,max=10"`
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid recipient id"))
		return 0, false
	}
	return uint(id), true
}

// Create はPOST /recipientsを処理します。
func (h *RecipientHandler) Create(c *gin.Context) {
	var req recipientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid recipient payload"))
		return
	}

	rec := &entity.Recipient{
		FullName:  req.FullName,
		Street:    req.Street,
		House:     req.House,
		Apartment: req.Apartment,
	}
	if err := h.recipients.Create(c.Request.Context(), rec); err != nil {
		if errors.Is(err, usecase.ErrInvalidRecipient) {
			c.JSON(http.StatusBadRequest, api.Fail("invalid recipient payload"))
			return
		}
		slog.Error("create recipient error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}
	c.JSON(http.StatusCreated, api.OK("recipient created", gin.H{"recipient": rec}))
}

// List はGET /recipientsを処理します。page/limit/searchクエリに対応します。
func (h *RecipientHandler) List(c *gin.Context) {
	params := usecase.ListParams{
		Page:   api.QueryInt(c, "page", 1),
		Limit:  api.QueryInt(c, "limit", 10),
		Search: c.Query("search"),
	}

	recs, total, err := h.recipients.List(c.Request.Context(), params)
	if err != nil {
		slog.Error("list recipients error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}
	params.Normalize()
	c.JSON(http.StatusOK, api.OK("", api.ListPayload("recipients", recs, total, params.Page, params.Limit)))
}

// Get はGET /recipients/:idを処理します。
func (h *RecipientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.recipients.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrRecipientNotFound) {
			c.JSON(http.StatusNotFound, api.Fail("recipient not found"))
			return
		}
		slog.Error("get recipient error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.OK("", gin.H{"recipient": rec}))
}

// Update はPUT /recipients/:idを処理します。
func (h *RecipientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req recipientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid recipient payload"))
		return
	}

	rec := &entity.Recipient{
		ID:        id,
		FullName:  req.FullName,
		Street:    req.Street,
		House:     req.House,
		Apartment: req.Apartment,
	}
	if err := h.recipients.Update(c.Request.Context(), rec); err != nil {
		switch {
		case errors.Is(err, usecase.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, api.Fail("recipient not found"))
		case errors.Is(err, usecase.ErrInvalidRecipient):
			c.JSON(http.StatusBadRequest, api.Fail("invalid recipient payload"))
		default:
			slog.Error("update recipient error", "error", err)
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, api.OK("recipient updated", gin.H{"recipient": rec}))
}

// Delete はDELETE /recipients/:idを処理します。
// 購読を持つ受取人の削除は400で拒否します。
func (h *RecipientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipients.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, api.Fail("recipient not found"))
		case errors.Is(err, usecase.ErrRecipientInUse):
			c.JSON(http.StatusBadRequest, api.Fail("recipient has active subscriptions"))
		default:
			slog.Error("delete recipient error", "error", err)
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, api.OK("recipient deleted", nil))
}
