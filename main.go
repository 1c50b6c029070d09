package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shopapi/internal/handlers"
	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
	"shopapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SEED_DATA", true)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Storage: postgres when a DSN is configured, in-memory otherwise ---
	var store repositories.Store
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := repositories.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		store = repositories.NewGormStore(db)
	} else {
		log.Println("DATABASE_DSN not set, using in-memory store")
		store = repositories.NewMockStore()
	}

	// --- RabbitMQ (optional): order events are published when configured ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		publisher = mqClient

		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received order event %s (tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if err := mqClient.ConsumeOrderEvents(handler); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	}
	if mqClient != nil {
		defer mqClient.Close()
	}

	if viper.GetBool("SEED_DATA") {
		seedData(store)
	}

	app := NewApp(store, publisher, viper.GetString("JWT_SECRET"))

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp assembles the Fiber application from its dependencies. publisher
// may be nil, in which case no order events are published.
func NewApp(store repositories.Store, publisher services.EventPublisher, jwtSecret string) *fiber.App {
	authService := services.NewAuthService(store.Users(), jwtSecret)
	productService := services.NewProductService(store.Products())
	cartService := services.NewCartService(store.Carts(), store.Products())
	orderService := services.NewOrderService(store, publisher)

	app := fiber.New()
	app.Use(logger.New())

	auth := middleware.AuthRequired(authService)
	admin := middleware.AdminRequired()

	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api, auth, admin)
	handlers.NewCartHandler(cartService).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, auth, admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// seedData populates empty stores with default accounts and a sample
// catalog.
func seedData(store repositories.Store) {
	if _, err := store.Users().GetByEmail("admin@ecommerce.com"); err != nil {
		seedUser(store, "admin@ecommerce.com", "admin123", "Admin", "User", models.RoleAdmin)
		seedUser(store, "user@ecommerce.com", "user123", "John", "Doe", models.RoleUser)
		log.Println("Default users created")
	}

	if page, _, err := store.Products().ListActive(0, 1, "created_at", "desc"); err == nil && len(page) == 0 {
		for _, p := range sampleProducts() {
			product := p
			if err := store.Products().Create(&product); err != nil {
				log.Printf("Error seeding product %s: %v", product.Name, err)
			}
		}
		log.Println("Sample products created")
	}
}

func sampleProducts() []models.Product {
	return []models.Product{
		seedProduct("Premium Wireless Headphones", "High-quality wireless headphones with noise cancellation", 299.99, 249.99, 50, "Electronics", "Sony", true),
		seedProduct("Smart Watch Pro", "Advanced smartwatch with health monitoring", 399.99, 349.99, 30, "Electronics", "Apple", true),
		seedProduct("Running Shoes Ultra", "Comfortable running shoes for athletes", 149.99, 119.99, 100, "Sportswear", "Nike", true),
		seedProduct("Designer Sunglasses", "Premium polarized sunglasses", 199.99, 149.99, 75, "Accessories", "Ray-Ban", false),
		seedProduct("Leather Laptop Bag", "Genuine leather messenger bag", 179.99, 149.99, 40, "Accessories", "Hugo Boss", false),
		seedProduct("Wireless Earbuds", "True wireless earbuds with premium sound", 199.99, 169.99, 80, "Electronics", "Samsung", true),
		seedProduct("Fitness Tracker Band", "Water-resistant fitness band", 79.99, 59.99, 120, "Electronics", "Fitbit", false),
		seedProduct("Denim Jacket Classic", "Vintage style denim jacket", 129.99, 99.99, 60, "Clothing", "Levi's", false),
		seedProduct("Mechanical Keyboard", "RGB mechanical gaming keyboard", 159.99, 129.99, 45, "Electronics", "Corsair", false),
		seedProduct("Yoga Mat Premium", "Non-slip eco-friendly yoga mat", 49.99, 39.99, 200, "Sportswear", "Lululemon", false),
		seedProduct("Casual T-Shirt Pack", "Pack of 3 premium cotton t-shirts", 59.99, 49.99, 150, "Clothing", "H&M", false),
		seedProduct("Bluetooth Speaker", "Portable waterproof speaker", 89.99, 69.99, 90, "Electronics", "JBL", true),
	}
}

func seedProduct(name, description string, price, discountPrice float64, stock int, category, brand string, featured bool) models.Product {
	discount := decimal.NewFromFloat(discountPrice)
	return models.Product{
		Name:          name,
		Description:   description,
		Price:         decimal.NewFromFloat(price),
		DiscountPrice: &discount,
		StockQuantity: stock,
		Category:      category,
		Brand:         brand,
		IsActive:      true,
		IsFeatured:    featured,
	}
}

func seedUser(store repositories.Store, email, password, firstName, lastName string, role models.Role) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password for %s: %v", email, err)
		return
	}
	user := &models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	if err := store.Users().Create(user); err != nil {
		log.Printf("Error seeding user %s: %v", email, err)
	}
}
