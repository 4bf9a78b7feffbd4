package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/checkout"
	"github.com/example/asianbasket/internal/config"
	"github.com/example/asianbasket/internal/handlers"
	"github.com/example/asianbasket/internal/middleware"
	"github.com/example/asianbasket/internal/payment"
	"github.com/example/asianbasket/internal/repository"
	"github.com/example/asianbasket/internal/services"
	"github.com/example/asianbasket/internal/stock"
	"github.com/example/asianbasket/internal/voucher"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	stockLedger := stock.NewLedger(repository.NewStockRepository(db), telegramService)
	voucherLedger := voucher.NewLedger(repository.NewVoucherRepository(db))
	checkoutService := checkout.NewService(stockLedger, voucherLedger)
	paymentSimulator := payment.NewSimulator()

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, stockLedger)
	stockHandler := handlers.NewStockHandler(stockLedger)
	checkoutHandler := handlers.NewCheckoutHandler(db, checkoutService)
	voucherHandler := handlers.NewVoucherHandler(voucherLedger)
	orderHandler := handlers.NewOrderHandler(db, checkoutService, paymentSimulator)
	profileHandler := handlers.NewProfileHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/categories", productHandler.ListCategories)
	products.Get("/:slug", productHandler.GetProduct)

	// Stock status and alert feed
	stockGroup := api.Group("/stock")
	stockGroup.Get("/alerts", stockHandler.ListAlerts)
	stockGroup.Get("/:productId", stockHandler.GetStatus)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/checkout/quote", checkoutHandler.Quote)

	protected.Get("/vouchers", voucherHandler.ListValid)
	protected.Post("/vouchers/redeem", voucherHandler.Redeem)
	protected.Delete("/vouchers/applied", voucherHandler.ClearApplied)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Post("/orders/:id/pay", orderHandler.PayOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)
}
