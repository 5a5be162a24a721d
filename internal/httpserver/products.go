package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posdash/internal/domain"
	productrepo "posdash/internal/repository/product"
)

type createProductRequest struct {
	Name             string          `json:"name" binding:"required"`
	SKU              string          `json:"sku" binding:"required"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	Quantity         int             `json:"quantity"`
	ReorderThreshold int             `json:"reorderThreshold"`
}

type updateProductRequest struct {
	Name             *string          `json:"name"`
	SKU              *string          `json:"sku"`
	Price            *decimal.Decimal `json:"price"`
	Cost             *decimal.Decimal `json:"cost"`
	ReorderThreshold *int             `json:"reorderThreshold"`
}

type adjustStockRequest struct {
	QuantityChange int `json:"quantityChange" binding:"required"`
}

func listProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func createProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := svc.Create(c.Request.Context(), productrepo.CreateInput{
			Name:             req.Name,
			SKU:              req.SKU,
			Price:            req.Price,
			Cost:             req.Cost,
			Quantity:         req.Quantity,
			ReorderThreshold: req.ReorderThreshold,
		})
		if err != nil {
			writeProductError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}
		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := svc.UpdateDetails(c.Request.Context(), id, productrepo.DetailsInput{
			Name:             req.Name,
			SKU:              req.SKU,
			Price:            req.Price,
			Cost:             req.Cost,
			ReorderThreshold: req.ReorderThreshold,
		})
		if err != nil {
			writeProductError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func adjustStockHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}
		var req adjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := svc.AdjustStock(c.Request.Context(), id, req.QuantityChange)
		if err != nil {
			writeProductError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			writeProductError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func writeProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrDuplicateSKU):
		c.JSON(http.StatusConflict, gin.H{"error": "sku already in use"})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot go negative"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
