// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations
//	└── settings/        # Key/value preference rows
//
// The sqlite file is opened with a single connection, so every write is
// serialized at the driver level as well as by the preference store's lock.
//
// # Usage
//
//	db, err := database.NewDatabase("./wooauto.db")
//	repo := db.Settings()
//	err = repo.SetSetting("language", "zh")
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
