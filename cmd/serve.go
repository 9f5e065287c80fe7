package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/auth"
	"github.com/vibast-solutions/ms-go-storefront/app/controller"
	"github.com/vibast-solutions/ms-go-storefront/app/notify"
	"github.com/vibast-solutions/ms-go-storefront/app/provider"
	"github.com/vibast-solutions/ms-go-storefront/app/repository"
	"github.com/vibast-solutions/ms-go-storefront/app/service"
	"github.com/vibast-solutions/ms-go-storefront/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the storefront API and bank callbacks.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type application struct {
	cfg      *config.Config
	tokens   *auth.TokenService
	orders   *service.OrderService
	carts    *service.CartService
	products *service.ProductService
	payments *service.PaymentService
}

type controllers struct {
	orders   *controller.OrderController
	payments *controller.PaymentController
	carts    *controller.CartController
	products *controller.ProductController
}

func runServe(_ *cobra.Command, _ []string) {
	app, cleanup := mustCreateApplication()
	defer cleanup()

	e := setupHTTPServer(app.cfg, app.tokens, &controllers{
		orders:   controller.NewOrderController(app.orders),
		payments: controller.NewPaymentController(app.payments, app.cfg.Bank),
		carts:    controller.NewCartController(app.carts),
		products: controller.NewProductController(app.products),
	})

	go func() {
		httpAddr := net.JoinHostPort(app.cfg.HTTP.Host, app.cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(cfg *config.Config, tokens *auth.TokenService, c *controllers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.App.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	requireUser := auth.RequireUser(tokens)
	requireAdmin := auth.RequireAdmin()

	e.GET("/health", c.payments.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	payments := api.Group("/payments")
	payments.POST("/create", c.payments.CreateHostedPayment)
	payments.POST("/success", c.payments.PaymentSuccess)
	payments.POST("/fail", c.payments.PaymentFail)
	payments.POST("/test", c.payments.TestPayment, requireUser)

	orders := api.Group("/orders")
	orders.POST("/payment-callback", c.orders.PaymentCallback)
	orders.POST("", c.orders.CreateOrder, requireUser)
	orders.GET("", c.orders.ListMyOrders, requireUser)
	orders.GET("/admin/orders", c.orders.ListAllOrders, requireUser, requireAdmin)
	orders.PUT("/admin/orders/:id", c.orders.UpdateOrderStatus, requireUser, requireAdmin)
	orders.GET("/admin/orders/:id/callbacks", c.orders.ListOrderCallbacks, requireUser, requireAdmin)
	orders.GET("/:id", c.orders.GetOrder, requireUser)
	orders.GET("/:id/status", c.orders.GetOrderStatus, requireUser)

	cart := api.Group("/cart", requireUser)
	cart.GET("", c.carts.GetCart)
	cart.POST("", c.carts.AddItem)
	cart.PUT("/:itemId", c.carts.UpdateItem)
	cart.DELETE("/:itemId", c.carts.RemoveItem)

	products := api.Group("/products")
	products.GET("", c.products.ListProducts)
	products.GET("/:id", c.products.GetProduct)
	products.POST("", c.products.CreateProduct, requireUser, requireAdmin)
	products.PUT("/:id", c.products.UpdateProduct, requireUser, requireAdmin)
	products.DELETE("/:id", c.products.DeleteProduct, requireUser, requireAdmin)

	return e
}

func mustCreateApplication() (*application, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	journal, closeJournal := mustCreateCallbackJournal(cfg.Mongo)

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewOrderEventRepository(db)
	callbackRepo := repository.NewPaymentCallbackRepository(db)

	gateway := provider.NewHalkbankProvider(provider.HalkbankConfig{
		ClientID:        cfg.Bank.ClientID,
		StoreKey:        cfg.Bank.StoreKey,
		GatewayURL:      cfg.Bank.GatewayURL,
		APIURL:          cfg.Bank.APIURL,
		APIUser:         cfg.Bank.APIUser,
		APIPassword:     cfg.Bank.APIPassword,
		CallbackBaseURL: cfg.Bank.CallbackBaseURL,
		FrontendURL:     cfg.Bank.FrontendURL,
		CompanyName:     cfg.Bank.CompanyName,
		Language:        cfg.Bank.Language,
		Currency:        cfg.Bank.Currency,
		HTTPTimeout:     cfg.Bank.HTTPTimeout,
	})
	if cfg.Bank.ClientID == "" || cfg.Bank.StoreKey == "" {
		logrus.Warn("Bank client id or store key is not configured; checkout is disabled")
	}

	app := &application{
		cfg:    cfg,
		tokens: auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
		orders: service.NewOrderService(
			orderRepo,
			cartRepo,
			userRepo,
			eventRepo,
			callbackRepo,
			journal,
			gateway,
			notify.NewSMTPNotifier(cfg.Mail),
			cfg.Notifications,
		),
		carts:    service.NewCartService(cartRepo, productRepo),
		products: service.NewProductService(productRepo),
		payments: service.NewPaymentService(gateway),
	}

	cleanup := func() {
		closeJournal()
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return app, cleanup
}

// mustCreateCallbackJournal connects to MongoDB when MONGO_URI is set. The
// returned journal drops records otherwise.
func mustCreateCallbackJournal(cfg config.MongoConfig) (*repository.CallbackJournal, func()) {
	if cfg.URI == "" {
		return repository.NewCallbackJournal(nil, cfg.Timeout), func() {}
	}

	client, err := repository.ConnectMongo(context.Background(), cfg.URI, cfg.Timeout)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}

	return repository.NewCallbackJournal(collection, cfg.Timeout), closeFn
}
