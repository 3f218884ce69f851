package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/mysticmatch/internal/cache"
	"github.com/oggyb/mysticmatch/internal/config"
	"github.com/oggyb/mysticmatch/internal/repository"
	"github.com/oggyb/mysticmatch/internal/session"
)

// AppContext holds shared dependencies (DB, Redis, Logger, sessions, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Sessions   session.Store
	Logger     *slog.Logger

	Profiles  *repository.ProfileRepository
	Decisions *repository.DecisionRepository
	Messages  *repository.MessageRepository
}

// New creates a new AppContext and binds the repositories to db.
// rdb may be nil when Redis is not configured; cache-backed features then
// fall back to the database.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, sessions session.Store, logger *slog.Logger) *AppContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Sessions:   sessions,
		Logger:     logger,
		Profiles:   repository.NewProfileRepository(db),
		Decisions:  repository.NewDecisionRepository(db),
		Messages:   repository.NewMessageRepository(db),
	}
}
