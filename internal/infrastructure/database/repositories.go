package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bananaviral/bananaviral-backend/internal/adapter/repository"
	domainRepo "github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Profile      domainRepo.ProfileRepository
	WebhookEvent domainRepo.WebhookEventRepository
	Generation   domainRepo.GenerationRepository
	Plan         domainRepo.PlanRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Profile:      repository.NewProfileRepository(db, logger),
		WebhookEvent: repository.NewWebhookEventRepository(db, logger),
		Generation:   repository.NewGenerationRepository(db, logger),
		Plan:         repository.NewPlanRepository(db, logger),
	}
}
