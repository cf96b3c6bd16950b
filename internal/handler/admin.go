package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/middleware"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"go.uber.org/zap"
)

// AdminHandler serves the inventory and the admin activity trail.
type AdminHandler struct {
	products *service.ProductService
	audit    *service.AuditService
	logger   *zap.Logger
}

func NewAdminHandler(products *service.ProductService, audit *service.AuditService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{products: products, audit: audit, logger: logger}
}

type registerProductRequest struct {
	Nome       string `json:"nome" binding:"required"`
	Descricao  string `json:"descricao"`
	Quantidade int    `json:"quantidade" binding:"required"`
}

func (h *AdminHandler) RegisterProduct(c *gin.Context) {
	var req registerProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := h.products.Register(c.Request.Context(), req.Nome, req.Descricao, req.Quantidade)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("register product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register product"})
		return
	}

	if user := middleware.UserFrom(c); user != nil {
		h.audit.Record(c.Request.Context(), user.Username, "Cadastro/Update de Produto",
			"Produto: "+p.Name)
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) ListProducts(c *gin.Context) {
	items, err := h.products.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"produtos": items, "total": len(items)})
}

type consumeProductRequest struct {
	Quantidade int `json:"quantidade"`
}

func (h *AdminHandler) ConsumeProduct(c *gin.Context) {
	var req consumeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := h.products.Consume(c.Request.Context(), c.Param("name"), req.Quantidade)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, errs.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("consume product failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to consume product"})
		}
		return
	}

	if user := middleware.UserFrom(c); user != nil {
		h.audit.Record(c.Request.Context(), user.Username, "Baixa de Estoque",
			"Produto: "+p.Name)
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) ListLogs(c *gin.Context) {
	items, err := h.audit.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list audit logs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": items, "total": len(items)})
}
