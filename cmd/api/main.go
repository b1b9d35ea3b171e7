package main

import (
	"context"
	"net/http"

	"address-reconciler/docs"
	"address-reconciler/internal/config"
	"address-reconciler/internal/geocoder"
	"address-reconciler/internal/handler"
	"address-reconciler/internal/models"
	"address-reconciler/internal/position"
	"address-reconciler/internal/repository"
	"address-reconciler/internal/service"
	"address-reconciler/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Address Reconciler API
//	@version		1.0
//	@description	Imports address spreadsheets, geocodes them and correlates geocoder answers with the imported records.
//	@BasePath		/

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", config.LogLevel).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Initialize layers
	records := store.New()
	positions := position.New()
	client := geocoder.NewClient(config.GeocoderURL, config.GeocoderTimeout, nil)
	reconcileService := service.NewReconcileService(records, positions, client, service.Options{
		Timeout: config.GeocoderTimeout,
		Country: config.GeocoderCountry,
	})
	client.SetHandler(func(resp models.GeocodeResponse) {
		reconcileService.HandleResponse(resp)
	})

	r := gin.Default()

	if config.Persist {
		// Database connection
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewRepository(conn)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("cannot migrate db")
		}
		if err := reconcileService.Persist(ctx, repo); err != nil {
			log.Fatal().Err(err).Msg("cannot restore session")
		}

		nearestHandler := handler.NewNearestHandler(service.NewNearestPositionService(repo))
		r.GET("/positions/nearest", nearestHandler.Nearest)
	}

	reconcileService.Ready()

	recordHandler := handler.NewRecordHandler(reconcileService)
	geocodeHandler := handler.NewGeocodeHandler(reconcileService)
	positionHandler := handler.NewPositionHandler(reconcileService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.POST("/records", recordHandler.Import)
	r.GET("/records", recordHandler.List)
	r.DELETE("/records", recordHandler.Clear)
	r.GET("/records/lookup", recordHandler.Lookup)
	r.GET("/records/export", recordHandler.Export)
	r.PATCH("/records/:id", recordHandler.Update)
	r.POST("/pictures", recordHandler.BindPictures)

	r.GET("/match", geocodeHandler.Match)
	r.POST("/geocode", geocodeHandler.Geocode)
	r.POST("/geocode/search", geocodeHandler.Search)
	r.POST("/geocode/responses", geocodeHandler.Response)

	r.GET("/positions", positionHandler.List)
	r.PUT("/positions/user-location", positionHandler.UserLocation)
	r.DELETE("/positions/:id", positionHandler.Remove)

	docs.SwaggerInfo.Host = config.ServerAddress
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("addr", config.ServerAddress).Bool("persist", config.Persist).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
