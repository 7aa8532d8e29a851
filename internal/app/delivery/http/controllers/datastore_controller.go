package controllers

import (
	"net/http"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DatastoreController struct {
	Log              *zap.Logger
	DatastoreService contracts.DatastoreService
}

var (
	datastoreControllerInstance *DatastoreController
	onceDatastoreController     sync.Once
)

func NewDatastoreController(logger *zap.Logger, datastoreService contracts.DatastoreService) *DatastoreController {
	onceDatastoreController.Do(func() {
		instance := &DatastoreController{
			Log:              logger,
			DatastoreService: datastoreService,
		}
		datastoreControllerInstance = instance
	})
	return datastoreControllerInstance
}

func (ctrl *DatastoreController) ListDatastores(w http.ResponseWriter, r *http.Request) {
	datastores, err := ctrl.DatastoreService.ListDatastores(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, "datastores retrieved", datastores)
}

func (ctrl *DatastoreController) DescribeDatastore(w http.ResponseWriter, r *http.Request) {
	datastoreID := chi.URLParam(r, "datastoreID")

	datastore, err := ctrl.DatastoreService.DescribeDatastore(r.Context(), datastoreID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, "datastore retrieved", datastore)
}
