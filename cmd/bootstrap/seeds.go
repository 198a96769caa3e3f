package bootstrap

import (
	"github.com/code-100-precent/LingSync/internal/models"
	"gorm.io/gorm"
)

type SeedService struct {
	db *gorm.DB
}

func (s *SeedService) SeedAll() error {
	if err := s.seedUsers(); err != nil {
		return err
	}
	return nil
}

func (s *SeedService) seedUsers() error {
	defaultUsers := []models.User{
		{
			Name:   "Administrator",
			Email:  "admin@lingsync.local",
			Role:   "admin",
			Status: models.StatusActive,
		},
	}

	for _, user := range defaultUsers {
		exists, err := models.IsExistsByEmail(s.db, user.Email)
		if err != nil {
			return err
		}
		if !exists {
			if err := s.db.Create(&user).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
