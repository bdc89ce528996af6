package db

import (
	"errors"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"github.com/stepup/stepup-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Review{},
		&model.CartItem{},
		&model.DeliveryPerson{},
		&model.DeliveryManager{},
		&model.Order{},
		&model.OrderItem{},
		&model.DeliveryDetail{},
		&model.Refund{},
		&model.Attendance{},
		&model.Leave{},
	}
}

// droppedConstraints were created by earlier schemas and are no longer
// declared on the models. AutoMigrate never removes constraints itself.
var droppedConstraints = []struct {
	model interface{}
	name  string
}{
	// delivery details outlive the rider who filed them
	{&model.DeliveryDetail{}, "fk_delivery_details_delivery_person"},
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	migrator := db.Migrator()
	for _, c := range droppedConstraints {
		if !migrator.HasConstraint(c.model, c.name) {
			continue
		}
		if err := migrator.DropConstraint(c.model, c.name); err != nil {
			logger.Error("Failed to drop constraint", err, map[string]interface{}{
				"constraint": c.name,
			})
			return err
		}
		logger.Info("Dropped constraint", map[string]interface{}{
			"constraint": c.name,
		})
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin creates the first admin account when none exists. It is a no-op
// when email or password is empty.
func SeedAdmin(db *gorm.DB, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing model.User
	err := db.Where("role = ?", model.RoleAdmin).First(&existing).Error
	if err == nil {
		logger.Debug("Admin account already present, skipping seed", map[string]interface{}{
			"admin_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	logger.Info("Admin account seeded", map[string]interface{}{
		"admin_id": admin.ID,
		"email":    email,
	})
	return nil
}
