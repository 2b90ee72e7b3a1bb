package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"stayhub-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "stayhub_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Message{},
		&models.Review{},
	); err != nil {
		return err
	}

	return SeedDatabase(DB)
}

// SeedDatabase ensures a usable baseline: an admin account always, plus a
// demo host, guest and listing when SEED_SAMPLE_DATA=true. Every block is
// count-guarded so reruns are no-ops.
func SeedDatabase(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := models.User{
			Username:     envOrDefault("ADMIN_USERNAME", "admin"),
			PasswordHash: string(hash),
			Email:        envOrDefault("ADMIN_EMAIL", "admin@stayhub.local"),
			Role:         models.RoleAdmin,
			Active:       true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		log.Println("Default admin seeded")
	}

	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SEED_SAMPLE_DATA")), "true") {
		return nil
	}

	var hostCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleHost).Count(&hostCount).Error; err != nil {
		return fmt.Errorf("failed to count hosts: %w", err)
	}
	if hostCount > 0 {
		log.Println("Sample data already seeded")
		return nil
	}

	hostHash, err := bcrypt.GenerateFromPassword([]byte("host123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash sample password: %w", err)
	}
	guestHash, err := bcrypt.GenerateFromPassword([]byte("guest123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash sample password: %w", err)
	}

	host := models.User{
		Username:     "demo_host",
		PasswordHash: string(hostHash),
		Email:        "host@stayhub.local",
		Role:         models.RoleHost,
		Active:       true,
	}
	if err := db.Create(&host).Error; err != nil {
		return fmt.Errorf("failed to seed host: %w", err)
	}

	guest := models.User{
		Username:     "demo_guest",
		PasswordHash: string(guestHash),
		Email:        "guest@stayhub.local",
		Role:         models.RoleGuest,
		Active:       true,
	}
	if err := db.Create(&guest).Error; err != nil {
		return fmt.Errorf("failed to seed guest: %w", err)
	}

	listing := models.Listing{
		HostID:        host.ID,
		Title:         "Sunny Downtown Loft",
		Description:   "Bright loft close to everything",
		Location:      "Lisbon",
		PricePerNight: 95,
		MaxGuests:     4,
		Bedrooms:      2,
		Bathrooms:     1,
		Active:        true,
	}
	listing.SetAmenityList([]string{"wifi", "kitchen", "washer"})
	listing.SetBookedDateSet(map[string]bool{})
	if err := db.Create(&listing).Error; err != nil {
		return fmt.Errorf("failed to seed listing: %w", err)
	}

	log.Println("Sample data seeded")
	return nil
}
