package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pressroom/config"
)

var db *gorm.DB

// GetDB returns the shared database handle, opening it on first use.
func GetDB() *gorm.DB {
	if db == nil {
		connect()
	}
	return db
}

// SetDB replaces the shared database handle. Tests use it to point the
// package at an in-memory database.
func SetDB(testDB *gorm.DB) {
	db = testDB
}

// CloseDB closes the underlying connection.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get underlying sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

func connect() {
	cfg := config.Get()

	var err error
	db, err = gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database at %s: %v", cfg.DatabasePath, err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Post{}, &Comment{})
}
