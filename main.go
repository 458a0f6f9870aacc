package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/fadhlanhapp/ridefare-backend/handlers"
	"github.com/fadhlanhapp/ridefare-backend/repository"
	"github.com/fadhlanhapp/ridefare-backend/routes"
	"github.com/fadhlanhapp/ridefare-backend/services"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("RideFare API"),
		newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.WithError(err).Warn("failed to initialize New Relic")
	}

	store := repository.NewStore()

	// Database is optional: without DB_HOST the engine runs memory-only
	var tripRepo *repository.TripRepository
	var payoutRepo *repository.PayoutRepository
	var profileRepo *repository.ProfileRepository
	if os.Getenv("DB_HOST") != "" {
		if err := repository.InitDB(); err != nil {
			log.WithError(err).Fatal("failed to initialize database")
		}
		defer repository.CloseDB()
		if err := repository.EnsureSchema(); err != nil {
			log.WithError(err).Fatal("failed to ensure database schema")
		}

		tripRepo = repository.NewTripRepository()
		payoutRepo = repository.NewPayoutRepository()
		profileRepo = repository.NewProfileRepository()

		trips, err := tripRepo.LoadTrips()
		if err != nil {
			log.WithError(err).Fatal("failed to load trips")
		}
		payouts, err := payoutRepo.LoadPayouts()
		if err != nil {
			log.WithError(err).Fatal("failed to load payouts")
		}
		store.Seed(trips, payouts)
		log.WithFields(logrus.Fields{
			"trips":   len(trips),
			"payouts": len(payouts),
		}).Info("state loaded from database")
	} else {
		log.Info("DB_HOST not set, running with in-memory storage only")
	}

	// Initialize services
	profileService := services.NewProfileService(profileRepo, log)
	authService := services.NewAuthService(profileService, profileRepo, adminPrincipals(), log)
	if profileRepo != nil {
		profiles, err := profileRepo.LoadProfiles()
		if err != nil {
			log.WithError(err).Fatal("failed to load profiles")
		}
		profileService.Seed(profiles)

		roles, err := profileRepo.LoadRoles()
		if err != nil {
			log.WithError(err).Fatal("failed to load roles")
		}
		authService.SeedRoles(roles)
	}

	hs := &handlers.HandlerServices{
		AuthService:    authService,
		ProfileService: profileService,
		TripService:    services.NewTripService(store, authService, tripRepo, log),
		LedgerService:  services.NewLedgerService(store),
		PayoutService:  services.NewPayoutService(store, authService, payoutRepo, log),
		ExportService:  services.NewExportService(store, profileService),
	}

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Change to your frontend URL in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, hs)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.WithField("port", port).Info("server starting")
	if err := router.Run(":" + port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

// adminPrincipals reads the out-of-band admin bootstrap list. Role
// assignment requires an existing admin, so the first one has to come from
// deployment configuration.
func adminPrincipals() []string {
	var admins []string
	for _, principal := range strings.Split(os.Getenv("ADMIN_PRINCIPALS"), ",") {
		if p := strings.TrimSpace(principal); p != "" {
			admins = append(admins, p)
		}
	}
	return admins
}
