package database

import (
	jobrepo "github.com/kolscribe/kolscribe/internal/repository/job"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&jobrepo.JobEntity{},
	)
}
