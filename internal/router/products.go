package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airstore/internal/model"
	"airstore/internal/store"
)

// listProducts 查询已上架商品列表。
func listProducts(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListPublished(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": list})
	}
}

// getProduct 按 slug 查询单个已上架商品（商品详情页）。
func getProduct(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		p, err := products.GetBySlug(c.Request.Context(), slug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": p})
	}
}

// createProduct 后台建品，要求简单管理员 token，避免被任意调用。
func createProduct(products *store.ProductStore, adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Admin-Token") != adminToken {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "invalid admin token"})
			return
		}

		var req struct {
			Name        string `json:"name" binding:"required"`
			Slug        string `json:"slug" binding:"required"`
			Description string `json:"description"`
			Price       int64  `json:"price" binding:"required,min=1"` // 派萨
			Published   bool   `json:"published"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		p := &model.Product{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			Price:       req.Price,
			Published:   req.Published,
		}
		if err := products.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": p})
	}
}
