package terminalserver

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"posdash/internal/checkout"
	"posdash/internal/domain"
)

// Deps carries the session and the history lister the routes serve.
type Deps struct {
	Session *checkout.Session
	History HistoryService
}

// HistoryService lists recorded sales for the terminal's history tab.
type HistoryService interface {
	ListTransactions(ctx context.Context) ([]domain.SalesTransaction, error)
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

type quantityRequest struct {
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity"`
}

func buildRouter(logger *log.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.GET("/healthz", healthHandler)

	router.GET("/view", viewHandler(deps.Session))
	router.GET("/products", productsHandler(deps.Session))
	router.POST("/refresh", refreshHandler(deps.Session))

	router.POST("/cart/items", addItemHandler(deps.Session))
	router.PATCH("/cart/items/:productId", quantityHandler(deps.Session))
	router.DELETE("/cart/items/:productId", removeItemHandler(deps.Session))
	router.DELETE("/cart", clearCartHandler(deps.Session))

	router.POST("/checkout", checkoutHandler(deps.Session))
	router.POST("/checkout/ack", acknowledgeHandler(deps.Session))

	router.GET("/transactions", historyHandler(deps.History))

	return router
}

func viewHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

// productsHandler serves the catalog snapshot, optionally filtered by a
// case-insensitive name/sku query.
func productsHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := session.Products()
		if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
			filtered := make([]domain.Product, 0, len(products))
			for _, p := range products {
				if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func refreshHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := session.Load(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh catalog"})
			return
		}
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func addItemHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session.AddItem(req.ProductID)
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func quantityHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := lineProductID(c)
		if !ok {
			return
		}
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		switch {
		case req.Quantity != nil:
			session.SetQuantity(id, *req.Quantity)
		case req.Delta != nil:
			session.AdjustQuantity(id, *req.Delta)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "delta or quantity required"})
			return
		}
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func removeItemHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := lineProductID(c)
		if !ok {
			return
		}
		session.RemoveItem(id)
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func clearCartHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.ClearCart()
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func checkoutHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.Submit(c.Request.Context())
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func acknowledgeHandler(session *checkout.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.Acknowledge()
		c.JSON(http.StatusOK, session.CurrentView())
	}
}

func historyHandler(history HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		txns, err := history.ListTransactions(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load history"})
			return
		}
		if txns == nil {
			txns = []domain.SalesTransaction{}
		}
		c.JSON(http.StatusOK, txns)
	}
}

func lineProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be a positive integer"})
		return 0, false
	}
	return id, true
}
