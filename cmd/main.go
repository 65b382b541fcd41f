package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/api"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/config"
	consumer2 "github.com/Autum7899/DuyMinhSmartDoorLock/internal/consumer"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/repository"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
	"github.com/Autum7899/DuyMinhSmartDoorLock/migrations"
)

func connectDB(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("✅ Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Printf("❌ Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg)
	if err != nil {
		panic(err)
	}

	// Bound the pool so a contended checkout waits on a connection for a
	// limited time instead of piling up
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := migrations.AutoMigrateCategories(3, db); err != nil {
		log.Fatalf("Failed to migrate categories table: %v", err)
	}
	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate orders table: %v", err)
	}
	if err := migrations.AutoMigrateOrderItems(3, db); err != nil {
		log.Fatalf("Failed to migrate order_items table: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter("order-events")

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, rdb)
	orderService := service.NewOrderService(orderRepo, catalogService, kafkaWriter, rdb)
	searchService := service.NewSearchService(productRepo)
	authService := service.NewAuthService(rdb, cfg)

	categoryHandler := api.NewCategoryHandler(catalogService)
	productHandler := api.NewProductHandler(catalogService)
	orderHandler := api.NewOrderHandler(orderService)
	searchHandler := api.NewSearchHandler(searchService)
	authHandler := api.NewAuthHandler(authService)

	// consumer keeps the product cache fresh on other replicas
	consumer := consumer2.NewConsumer(catalogService, config.NewKafkaReader("order-events", "storefront-group"))
	go consumer.Start(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"message": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// storefront routes
	e.GET("/api/products", productHandler.GetProducts)
	e.GET("/api/products/:id", productHandler.GetProduct)
	e.GET("/api/products/:id/stock", productHandler.GetProductStock)
	e.GET("/api/categories", categoryHandler.GetCategories)
	e.GET("/api/categories/:id", categoryHandler.GetCategory)
	e.GET("/api/search", searchHandler.Search)
	e.POST("/api/checkout", orderHandler.Checkout)
	e.POST("/api/auth/login", authHandler.Login)

	// admin routes, JWT-gated
	jwtMW := echojwt.JWT([]byte(cfg.JWTSecret))
	e.GET("/api/auth/validate", authHandler.ValidateSession, jwtMW)
	e.POST("/api/categories", categoryHandler.CreateCategory, jwtMW)
	e.PUT("/api/categories/:id", categoryHandler.UpdateCategory, jwtMW)
	e.DELETE("/api/categories/:id", categoryHandler.DeleteCategory, jwtMW)
	e.POST("/api/products", productHandler.CreateProduct, jwtMW)
	e.PUT("/api/products/:id", productHandler.UpdateProduct, jwtMW)
	e.DELETE("/api/products/:id", productHandler.DeleteProduct, jwtMW)
	e.GET("/api/products/warmup-cache", productHandler.WarmupCache, jwtMW)

	orders := e.Group("/api/orders", jwtMW)
	orders.GET("", orderHandler.GetOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.POST("", orderHandler.CreateOrder)
	orders.PUT("/:id", orderHandler.UpdateOrder)
	orders.DELETE("/:id", orderHandler.DeleteOrder)

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "smartlock-shop",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
