package database

import (
	"errors"

	"arar/config"
	"arar/internal/domain"
	"arar/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(mysql.Open(cfg.DSN))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Open opens a gorm handle on any dialector; tests pass sqlite.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AdminUser{},
		&models.Collection{},
		&models.Product{},
		&models.Order{},
		&models.NewsletterSubscription{},
		&models.ContactInquiry{},
	)
}

// SeedAdmin creates the configured default admin when no account with that
// email exists yet.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig, log *zap.Logger) error {
	var existing models.AdminUser
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.AdminUser{
		ID:             "default-admin",
		Email:          cfg.Email,
		FullName:       cfg.FullName,
		Role:           domain.RoleAdmin,
		IsActive:       true,
		HashedPassword: string(hash),
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Info("default admin user created", zap.String("email", cfg.Email))
	return nil
}
