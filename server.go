package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/models"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("shoes-backend")

// correlationMiddleware tags every request with an id that flows into
// logs through the request context.
func correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.GetHeader("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Correlation-Id", correlationId)
		c.Next()
	}
}

// errorResponse maps the shared error taxonomy onto HTTP statuses.
func errorResponse(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case utils.IsValidationError(err), errors.Is(err, utils.ErrorEmptyQuantity):
		status = http.StatusBadRequest
	case utils.IsConflictError(err):
		status = http.StatusConflict
	case errors.Is(err, utils.ErrorRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, utils.ErrorLimitExceeded),
		errors.Is(err, utils.ErrorLastGrid),
		errors.Is(err, utils.ErrorNotConfigured):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		config.LogError(c.Request.Context(), config.GetLogger(), "server.go", "errorResponse", c.FullPath(), nil, err)
	}
	payload := gin.H{"error": err.Error()}
	if correlationId, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok {
		payload["correlation_id"] = correlationId
	}
	c.JSON(status, payload)
}

func pathId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		errorResponse(c, utils.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func registerCustomerRoutes(api *gin.RouterGroup) {
	api.GET("/customers", func(c *gin.Context) {
		customers, err := models.GetCustomers(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, customers)
	})
	api.POST("/customers", func(c *gin.Context) {
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		customer, err := models.CreateCustomer(c.Request.Context(), &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	})
	api.PUT("/customers/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		customer, err := models.UpdateCustomer(c.Request.Context(), id, &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	})
	api.DELETE("/customers/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		customer, err := models.DeleteCustomer(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	})
}

func registerProductRoutes(api *gin.RouterGroup) {
	api.GET("/products", func(c *gin.Context) {
		products, err := models.GetProducts(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	})
	api.POST("/products", func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	})
	api.PUT("/products/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	})
	api.DELETE("/products/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		product, err := models.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	})
	api.GET("/products/:id/grid", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		grid, err := product.ResolveSizeGrid(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		// grid is nil when no grids exist yet; size entry stays
		// disabled client-side
		c.JSON(http.StatusOK, gin.H{"grid": grid})
	})
}

func registerGridRoutes(api *gin.RouterGroup) {
	api.GET("/size-grids", func(c *gin.Context) {
		grids, err := models.GetSizeGrids(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, grids)
	})
	api.POST("/size-grids", func(c *gin.Context) {
		var input models.NewSizeGrid
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		grid, err := models.CreateSizeGrid(c.Request.Context(), &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusCreated, grid)
	})
	api.DELETE("/size-grids/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		grid, err := models.DeleteSizeGrid(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, grid)
	})
	api.POST("/size-grids/:id/default", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		grid, err := models.SetDefaultSizeGrid(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, grid)
	})

	api.GET("/size-grids/:id/boxes", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		boxes, err := models.GetBoxTemplates(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, boxes)
	})
	api.POST("/size-grids/:id/boxes", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		var input struct {
			BoxSize int `json:"box_size" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		tpl, err := models.AddBoxType(c.Request.Context(), id, input.BoxSize)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusCreated, tpl)
	})
	api.PUT("/size-grids/:id/boxes/:boxSize", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		boxSize, ok := pathId(c, "boxSize")
		if !ok {
			return
		}
		var input struct {
			Size int `json:"size" binding:"required"`
			Qty  int `json:"qty"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		tpl, err := models.SetBoxContent(c.Request.Context(), id, boxSize, input.Size, input.Qty)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"template": tpl, "is_complete": tpl.IsComplete()})
	})
	api.DELETE("/size-grids/:id/boxes/:boxSize", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		boxSize, ok := pathId(c, "boxSize")
		if !ok {
			return
		}
		tpl, err := models.RemoveBoxType(c.Request.Context(), id, boxSize)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, tpl)
	})
	api.POST("/size-grids/:id/boxes/:boxSize/apply", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		boxSize, ok := pathId(c, "boxSize")
		if !ok {
			return
		}
		var input struct {
			Sizes models.SizeQuantities `json:"sizes"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		merged, err := models.ApplyBoxTemplate(c.Request.Context(), id, boxSize, input.Sizes)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sizes": merged})
	})
}

func registerOrderRoutes(api *gin.RouterGroup) {
	api.GET("/orders", func(c *gin.Context) {
		orders, err := models.GetOrders(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	})
	api.GET("/orders/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		order, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})
	api.POST("/orders", func(c *gin.Context) {
		var input models.NewOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		order, err := models.CreateOrder(c.Request.Context(), &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	})
	api.PUT("/orders/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		var input models.NewOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			errorResponse(c, err)
			return
		}
		order, err := models.UpdateOrder(c.Request.Context(), id, &input)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})
	api.DELETE("/orders/:id", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		order, err := models.DeleteOrder(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})
	api.GET("/orders/:id/invoice", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		snapshot, err := models.BuildInvoice(c.Request.Context(), id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, snapshot)
	})
	api.GET("/orders/:id/invoice.xlsx", func(c *gin.Context) {
		id, ok := pathId(c, "id")
		if !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "export-invoice")
		defer span.End()

		snapshot, err := models.BuildInvoice(ctx, id)
		if err != nil {
			errorResponse(c, err)
			return
		}
		f, err := models.ExportInvoiceExcel(snapshot)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.xlsx", snapshot.OrderNo))
		if err := f.Write(c.Writer); err != nil {
			config.LogError(ctx, config.GetLogger(), "server.go", "invoice.xlsx", "write", nil, err)
		}
	})
}

func registerSettingsRoutes(api *gin.RouterGroup) {
	api.GET("/settings", func(c *gin.Context) {
		settings, err := models.GetSettings(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	})
	api.PATCH("/settings", func(c *gin.Context) {
		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			errorResponse(c, err)
			return
		}
		settings, err := models.UpdateSettings(c.Request.Context(), fields)
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	})
	api.POST("/rates/refresh", func(c *gin.Context) {
		settings, err := models.RefreshRates(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	})
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Correlation-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(correlationMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"db":     config.GetDB() != nil,
			"redis":  config.GetRedisDB() != nil,
		})
	})

	api := router.Group("/api")
	registerCustomerRoutes(api)
	registerProductRoutes(api)
	registerGridRoutes(api)
	registerOrderRoutes(api)
	registerSettingsRoutes(api)
	return router
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	router := newRouter()
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start listening first, then bring up dependencies: the container
	// must answer health checks before the DB retry loop finishes.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := models.MigrateTable(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := models.MigrateLegacyOrders(context.Background()); err != nil {
		config.LogError(context.Background(), config.GetLogger(), "server.go", "main", "MigrateLegacyOrders", nil, err)
	}
	if _, err := models.RefreshRates(context.Background()); err != nil {
		config.LogError(context.Background(), config.GetLogger(), "server.go", "main", "RefreshRates", nil, err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
}
