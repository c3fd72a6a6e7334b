package main

import (
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dkazarov/fleet-reports/internal/auth"
	"github.com/dkazarov/fleet-reports/internal/config"
	"github.com/dkazarov/fleet-reports/internal/db"
	"github.com/dkazarov/fleet-reports/internal/excel"
	"github.com/dkazarov/fleet-reports/internal/geocode"
	httphandler "github.com/dkazarov/fleet-reports/internal/http"
	"github.com/dkazarov/fleet-reports/internal/http/middleware"
	"github.com/dkazarov/fleet-reports/internal/ingest"
	"github.com/dkazarov/fleet-reports/internal/logger"
	"github.com/dkazarov/fleet-reports/internal/notify"
	"github.com/dkazarov/fleet-reports/internal/pdf"
	"github.com/dkazarov/fleet-reports/internal/repository"
	"github.com/dkazarov/fleet-reports/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	sqlDB, err := database.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to access database handle")
	}

	vehicleRepo := repository.NewVehicleRepository(database)
	driverRepo := repository.NewDriverRepository(database)
	enterpriseRepo := repository.NewEnterpriseRepository(database)
	tripRepo := repository.NewTripRepository(database)
	trackRepo := repository.NewTrackRepository(database)
	reportRepo := repository.NewReportRepository(database)

	var amqpConn *amqp.Connection
	var publisher service.EventPublisher
	if cfg.AMQP.URL != "" {
		amqpConn, err = notify.Dial(cfg.AMQP.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect rabbitmq")
		}
		defer func() { _ = amqpConn.Close() }()

		eventPublisher, err := notify.NewVehicleEventPublisher(amqpConn, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init event publisher")
		}
		defer func() { _ = eventPublisher.Close() }()
		publisher = eventPublisher
	}

	var geocoder service.Geocoder
	if cfg.Geocoder.BaseURL != "" {
		geocoder = geocode.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent)
	}

	reportService := service.NewReportService(vehicleRepo, driverRepo, enterpriseRepo, tripRepo, trackRepo, reportRepo, log)
	trackService := service.NewTrackService(vehicleRepo, enterpriseRepo, trackRepo)
	tripService := service.NewTripService(vehicleRepo, enterpriseRepo, tripRepo, trackRepo, geocoder, log)
	vehicleService := service.NewVehicleService(vehicleRepo, publisher, log)

	var mqttClient mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = ingest.NewClient(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect mqtt")
		}
		defer mqttClient.Disconnect(250)

		subscriber := ingest.NewTrackSubscriber(mqttClient, cfg.MQTT.Topic, trackRepo, log)
		if err := subscriber.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start track subscriber")
		}
		log.Info().Str("topic", cfg.MQTT.Topic).Msg("track ingestion started")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		reportService,
		trackService,
		tripService,
		vehicleService,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		log,
	)
	health := httphandler.NewHealthChecker(sqlDB, amqpConn, mqttClient)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, health, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting fleet reports service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
