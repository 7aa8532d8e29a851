package routers

import (
	"fmt"
	"net/http"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/delivery/http/controllers"
	"healthlake-pipeline/internal/app/delivery/http/middlewares"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	datastoreController *controllers.DatastoreController,
	pipelineController *controllers.PipelineController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", constvars.HeaderAPIKey, constvars.HeaderRequestID},
		ExposedHeaders:   []string{constvars.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(chimiddleware.Recoverer)
	router.Use(middlewares.RequestID)
	router.Use(middlewares.RequestLogger)

	requestWindow := time.Duration(internalConfig.App.RequestWindowInSeconds) * time.Second
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, requestWindow))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, "ok", nil)
	})
	router.Handle("/metrics", promhttp.Handler())

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Use(middlewares.APIKeyAuth)

			r.Route("/datastores", func(r chi.Router) {
				r.Get("/", datastoreController.ListDatastores)
				r.Get("/{datastoreID}", datastoreController.DescribeDatastore)
			})

			r.Route("/import-jobs", func(r chi.Router) {
				r.Post("/", pipelineController.TriggerBatchImport)
				r.Get("/{jobID}", pipelineController.DescribeImportJob)
			})

			r.Route("/patients", func(r chi.Router) {
				r.Post("/", pipelineController.CreatePatient)
			})
		})
	})
}
