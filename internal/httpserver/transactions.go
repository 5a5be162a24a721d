package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"posdash/internal/domain"
)

func createTransactionHandler(svc TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sale domain.SaleRequest
		if err := c.ShouldBindJSON(&sale); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// The header wins over the body so plain REST clients can retry
		// safely without rebuilding the payload.
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			sale.IdempotencyKey = key
		}

		lines, err := svc.Create(c.Request.Context(), sale)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, lines)
	}
}

func listTransactionsHandler(svc TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := svc.History(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
			return
		}
		if history == nil {
			history = []domain.SalesTransaction{}
		}
		c.JSON(http.StatusOK, history)
	}
}
