package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/delivery/http/controllers"
	"healthlake-pipeline/internal/app/delivery/http/middlewares"
	"healthlake-pipeline/internal/app/delivery/http/routers"
	"healthlake-pipeline/internal/app/drivers/cloud"
	"healthlake-pipeline/internal/app/drivers/logger"
	"healthlake-pipeline/internal/app/services/importer"
	"healthlake-pipeline/internal/app/services/shared/healthlake"
	"healthlake-pipeline/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	awsConfig := cloud.NewAWSConfig(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	blobStore := storage.NewS3Storage(cloud.NewS3Client(awsConfig))
	datastoreService := healthlake.NewDatastoreService(cloud.NewHealthLakeClient(awsConfig), internalConfig.Datastore.ID, log)
	fhirClient := healthlake.NewFhirClient(internalConfig.Datastore.Endpoint, driverConfig.AWS.Region, awsConfig.Credentials, log)
	importUsecase := importer.NewImportUsecase(blobStore, datastoreService, internalConfig, log)

	appMiddlewares := middlewares.NewMiddlewares(log, internalConfig)
	datastoreController := controllers.NewDatastoreController(log, datastoreService)
	pipelineController := controllers.NewPipelineController(log, importUsecase, fhirClient)

	routers.SetupRoutes(chiRouter, internalConfig, appMiddlewares, datastoreController, pipelineController)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()
	logrus.Printf("Admin API listening on %s", internalConfig.App.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Println("Waiting for pending requests already received by the server..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrus.Printf("Error during shutdown: %v", err)
	}

	logrus.Println("Server exiting")
}
