// Package handler はpublicationsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"subscription_backend/internal/api"
	"subscription_backend/internal/feature/publications/domain/entity"
	"subscription_backend/internal/feature/publications/usecase"
)

// PublicationUsecase は刊行物操作のユースケースを定義します。
type PublicationUsecase interface {
	Create(ctx context.Context, pub *entity.Publication) error
	Get(ctx context.Context, index string) (*entity.Publication, error)
	List(ctx context.Context, params usecase.ListParams) ([]*entity.Publication, int64, error)
	Update(ctx context.Context, pub *entity.Publication) error
	Delete(ctx context.Context, index string) error
}

// PublicationHandler は刊行物CRUDのHTTPリクエストを処理します。
type PublicationHandler struct {
	pubs PublicationUsecase
}

// NewPublicationHandler はPublicationHandlerの新しいインスタンスを生成します。
func NewPublicationHandler(pubs PublicationUsecase) *PublicationHandler {
	return &PublicationHandler{pubs: pubs}
}

// publicationReq は作成・更新リクエストのボディです。
type publicationReq struct {
	Index       string                 `json:"index" binding:"required,max=10"`
	Type        entity.PublicationType `json:"type" binding:"required,oneof=newspaper magazine"`
	Title       string                 `json:"title" binding:"required,max=255"`
	MonthlyCost float64                `json:"monthlyCost" binding:"min=0"`
}

// Create はPOST /publicationsを処理します。
func (h *PublicationHandler) Create(c *gin.Context) {
	var req publicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid publication payload"))
		return
	}

	pub := &entity.Publication{
		Index:       req.Index,
		Type:        req.Type,
		Title:       req.Title,
		MonthlyCost: req.MonthlyCost,
	}
	if err := h.pubs.Create(c.Request.Context(), pub); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPublicationExists):
			c.JSON(http.StatusConflict, api.Fail("publication index already exists"))
		case errors.Is(err, usecase.ErrInvalidPublication):
			c.JSON(http.StatusBadRequest, api.Fail("invalid publication payload"))
		default:
			slog.Error("create publication error", "error", err)
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}
	c.JSON(http.StatusCreated, api.OK("publication created", gin.H{"publication": pub}))
}

// List はGET /publicationsを処理します。page/limit/type/searchクエリに対応します。
func (h *PublicationHandler) List(c *gin.Context) {
	params := usecase.ListParams{
		Page:   api.QueryInt(c, "page", 1),
		Limit:  api.QueryInt(c, "limit", 10),
		Type:   entity.PublicationType(c.Query("type")),
		Search: c.Query("search"),
	}

	pubs, total, err := h.pubs.List(c.Request.Context(), params)
	if err != nil {
		slog.Error("list publications error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}
	params.Normalize()
	c.JSON(http.StatusOK, api.OK("", api.ListPayload("publications", pubs, total, params.Page, params.Limit)))
}

// Get はGET /publications/:idを処理します。
func (h *PublicationHandler) Get(c *gin.Context) {
	pub, err := h.pubs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrPublicationNotFound) {
			c.JSON(http.StatusNotFound, api.Fail("publication not found"))
			return
		}
		slog.Error("get publication error", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.OK("", gin.H{"publication": pub}))
}

// Update はPUT /publications/:idを処理します。
func (h *PublicationHandler) Update(c *gin.Context) {
	var req publicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("invalid publication payload"))
		return
	}

	pub := &entity.Publication{
		Index:       c.Param("id"),
		Type:        req.Type,
		Title:       req.Title,
		MonthlyCost: req.MonthlyCost,
	}
	if err := h.pubs.Update(c.Request.Context(), pub); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPublicationNotFound):
			c.JSON(http.StatusNotFound, api.Fail("publication not found"))
		case errors.Is(err, usecase.ErrInvalidPublication):
			c.JSON(http.StatusBadRequest, api.Fail("invalid publication payload"))
		default:
			slog.Error("update publication error", "error", err)
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, api.OK("publication updated", gin.H{"publication": pub}))
}

// Delete はDELETE /publications/:idを処理します。
// 購読されている刊行物の削除は400で拒否します。
func (h *PublicationHandler) Delete(c *gin.Context) {
	if err := h.pubs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPublicationNotFound):
			c.JSON(http.StatusNotFound, api.Fail("publication not found"))
		case errors.Is(err, usecase.ErrPublicationInUse):
			c.JSON(http.StatusBadRequest, api.Fail("publication has active subscriptions"))
		default:
			slog.Error("delete publication error", "error", err)
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, api.OK("publication deleted", nil))
}
