package config

import (
	"time"

	"customworld-api/models"

	"github.com/glebarez/sqlite"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds every runtime setting, populated from the environment.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"customworld.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`

	JWTSecret       string        `envconfig:"JWT_SECRET" default:"customworld_dev_secret"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	ResetTokenTTL   time.Duration `envconfig:"RESET_TOKEN_TTL" default:"15m"`

	Currency string `envconfig:"ORDER_CURRENCY" default:"XAF"`

	PaymentAPIURL     string        `envconfig:"PAYMENT_API_URL"`
	PaymentAPIKey     string        `envconfig:"PAYMENT_API_KEY"`
	PaymentSiteID     string        `envconfig:"PAYMENT_SITE_ID"`
	PaymentPrivateKey string        `envconfig:"PAYMENT_PRIVATE_KEY"`
	PaymentNotifyURL  string        `envconfig:"PAYMENT_NOTIFY_URL"`
	PaymentReturnURL  string        `envconfig:"PAYMENT_RETURN_URL"`
	PaymentTimeout    time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"15s"`
	// When true a webhook with a bad signature is rejected with 401.
	// The default keeps the accept-and-log behaviour so the gateway
	// never retry-storms us over a signature disagreement.
	PaymentStrictSignatures bool `envconfig:"PAYMENT_STRICT_SIGNATURES" default:"false"`
}

var (
	C  Config
	DB *gorm.DB
)

// Load populates C from the environment and configures logging.
func Load() error {
	if err := envconfig.Process("", &C); err != nil {
		return err
	}
	if C.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if lvl, err := log.ParseLevel(C.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return nil
}

// InitDB opens the database and migrates all models.
func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(C.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	log.Info("database connected and migrated")
}

// Migrate runs the schema migration on the given connection. Split out
// so tests can migrate an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Delivery{},
	)
}
