// Package handler はsubscriptionsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"subscription_backend/internal/api"
	"subscription_backend/internal/feature/subscriptions/domain/entity"
	"subscription_backend/internal/feature/subscriptions/usecase"
)

// SubscriptionUsecase は購読操作のユースケースを定義します。
type SubscriptionUsecase interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	Get(ctx context.Context, id uint) (*entity.Subscription, error)
	List(ctx context.Context, params usecase.ListParams) ([]*entity.Subscription, int64, error)
	Update(ctx context.Context, sub *entity.Subscription) error
	Delete(ctx context.Context, id uint) error
}

// SubscriptionHandler は購読CRUDのHTTPリクエストを処理します。
type SubscriptionHandler struct {
	subs SubscriptionUsecase
}

// NewSubscriptionHandler はSubscriptionHandlerの新しいインスタンスを生成します。
func NewSubscriptionHandler(subs SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

type subscriptionReq struct {
	RecipientID      uint   `json:"recipientId" binding:"required"`
	PublicationIndex string `json:"publicationIndex" binding:"required,max=10"`
	DurationMonths   int    `json:"durationMonths" binding:"required,oneof=1 3 6"`
	StartMonth       int    `json:"startMonth" binding:"required,min=1,max=12"`
	StartYear        int    `json:"startYear" binding:"required,min=2000,max=2100"`
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid subscription id"))
		return 0, false
	}
	return uint(id), true
}

// writeError maps usecase errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, api.Fail("subscription not found"))
	case errors.Is(err, usecase.ErrInvalidSubscription):
		c.JSON(http.StatusBadRequest, api.Fail("invalid subscription payload"))
	case errors.Is(err, usecase.ErrUnknownRecipient):
		c.JSON(http.StatusBadRequest, api.Fail("recipient does not exist"))
	case errors.Is(err, usecase.ErrUnknownPublication):
		c.JSON(http.StatusBadRequest, api.Fail("publication does not exist"))
	default:
		slog.Error("subscription error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
	}
}

// Create はPOST /subscriptionsを処理します。
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req subscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid subscription payload"))
		return
	}

	sub := &entity.Subscription{
		RecipientID:      req.RecipientID,
		PublicationIndex: req.PublicationIndex,
		DurationMonths:   req.DurationMonths,
		StartMonth:       req.StartMonth,
		StartYear:        req.StartYear,
	}
	if err := h.subs.Create(c.Request.Context(), sub); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.OK("subscription created", gin.H{"subscription": sub}))
}

// List はGET /subscriptionsを処理します。
// page/limit/recipientId/publicationIndexクエリに対応します。
func (h *SubscriptionHandler) List(c *gin.Context) {
	params := usecase.ListParams{
		Page:             api.QueryInt(c, "page", 1),
		Limit:            api.QueryInt(c, "limit", 10),
		RecipientID:      uint(api.QueryInt(c, "recipientId", 0)),
		PublicationIndex: c.Query("publicationIndex"),
	}

	subs, total, err := h.subs.List(c.Request.Context(), params)
	if err != nil {
		slog.Error("list subscriptions error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}
	params.Normalize()
	c.JSON(http.StatusOK, api.OK("", api.ListPayload("subscriptions", subs, total, params.Page, params.Limit)))
}

// Get はGET /subscriptions/:idを処理します。
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.subs.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("", gin.H{"subscription": sub}))
}

// Update はPUT /subscriptions/:idを処理します。
func (h *SubscriptionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req subscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid subscription payload"))
		return
	}

	sub := &entity.Subscription{
		ID:               id,
		RecipientID:      req.RecipientID,
		PublicationIndex: req.PublicationIndex,
		DurationMonths:   req.DurationMonths,
		StartMonth:       req.StartMonth,
		StartYear:        req.StartYear,
	}
	if err := h.subs.Update(c.Request.Context(), sub); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("subscription updated", gin.H{"subscription": sub}))
}

// Delete はDELETE /subscriptions/:idを処理します。
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.subs.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("subscription deleted", nil))
}
