package database

import (
	"log"

	"servicelink/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Department{},
		&model.Designation{},
		&model.Position{},
		&model.Venue{},
		&model.Vehicle{},
		&model.JobRequest{},
		&model.PurchasingRequest{},
		&model.VenueRequest{},
		&model.VehicleRequest{},
		&model.ApprovalRuleByDepartment{},
		&model.ApprovalRuleByDesignation{},
		&model.ApprovalRuleByRequestType{},
		&model.RequestActivity{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
