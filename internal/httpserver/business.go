package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posdash/internal/domain"
	businessrepo "posdash/internal/repository/business"
)

type businessUpdateRequest struct {
	Name              string          `json:"name" binding:"required"`
	Currency          string          `json:"currency" binding:"required"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	ContactAddress    string          `json:"contactAddress"`
}

func getBusinessHandler(svc BusinessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svc.Get(c.Request.Context())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "business settings not configured"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load business settings"})
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func updateBusinessHandler(svc BusinessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req businessUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		b, err := svc.Update(c.Request.Context(), businessrepo.UpdateInput{
			Name:              req.Name,
			Currency:          req.Currency,
			TaxRate:           req.TaxRate,
			LowStockThreshold: req.LowStockThreshold,
			ContactAddress:    req.ContactAddress,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
