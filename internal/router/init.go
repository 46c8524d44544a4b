package router

import (
	app "github.com/stray2stay/api/internal/application"
	"github.com/stray2stay/api/internal/container"
	pginfra "github.com/stray2stay/api/internal/infrastructure/postgres"
	handlers "github.com/stray2stay/api/internal/interface/http"
	"github.com/stray2stay/api/internal/router/modules"
	"github.com/stray2stay/api/pkg/helpers"
)

type Deps struct {
	Users     *app.UserService
	Animals   *app.AnimalService
	Adoptions *app.AdoptionService
	Stats     *app.StatsService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(pool)
	animalRepo := pginfra.NewAnimalRepository(pool)
	adoptionRepo := pginfra.NewAdoptionRepository(pool)
	statsRepo := pginfra.NewStatsRepository(pool)

	notifier := app.NewQueueNotifier(container.GetRabbitPub(), logger)

	return Deps{
		Users: app.NewUserService(userRepo, animalRepo, container.GetJWT(), container.GetRedis(), logger),
		Animals: app.NewAnimalService(animalRepo, userRepo, notifier,
			container.GetGCS(), cfg.GCSBucket,
			container.GetES(), cfg.ESAnimalsIndex, logger),
		Adoptions: app.NewAdoptionService(adoptionRepo, animalRepo, userRepo, notifier, logger),
		Stats:     app.NewStatsService(statsRepo, animalRepo, container.GetRedis(), cfg.StatsCacheTTL, logger),
	}
}

// InitModules builds the service graph and registers every feature module
// with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	deps := buildDeps()

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	userHandler := handlers.NewUserHandler(deps.Users, cookies, logger)
	animalHandler := handlers.NewAnimalHandler(deps.Animals, logger, cfg.MaxPhotosPerListing, cfg.MaxPhotoSizeBytes)
	adoptionHandler := handlers.NewAdoptionHandler(deps.Adoptions, logger)
	statsHandler := handlers.NewStatsHandler(deps.Stats, logger)

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAnimalModule(animalHandler, container.GetJWT()))
	r.Add(modules.NewAdoptionModule(adoptionHandler, container.GetJWT()))
	r.Add(modules.NewStatsModule(statsHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
