package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"posdash/internal/domain"
	businessrepo "posdash/internal/repository/business"
	productrepo "posdash/internal/repository/product"
)

// Deps carries the services the routes are wired to. The interfaces are
// kept narrow so handler tests can stub them.
type Deps struct {
	ProductSvc     ProductService
	TransactionSvc TransactionService
	BusinessSvc    BusinessService
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in productrepo.CreateInput) (*domain.Product, error)
	UpdateDetails(ctx context.Context, id int64, in productrepo.DetailsInput) (*domain.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type TransactionService interface {
	Create(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error)
	History(ctx context.Context) ([]domain.SalesTransaction, error)
}

type BusinessService interface {
	Get(ctx context.Context) (*domain.Business, error)
	Update(ctx context.Context, in businessrepo.UpdateInput) (*domain.Business, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(corsOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = corsOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Idempotency-Key")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.POST("/products", createProductHandler(deps.ProductSvc))
	router.PATCH("/products/:id", updateProductHandler(deps.ProductSvc))
	router.PATCH("/products/:id/stock", adjustStockHandler(deps.ProductSvc))
	router.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc))

	router.POST("/transactions", createTransactionHandler(deps.TransactionSvc))
	router.GET("/transactions", listTransactionsHandler(deps.TransactionSvc))

	router.GET("/business", getBusinessHandler(deps.BusinessSvc))
	router.PUT("/business", updateBusinessHandler(deps.BusinessSvc))

	return router
}
