package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ObjectsProcessed counts pipeline runs by stage and outcome.
var ObjectsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "healthlake_pipeline",
	Name:      "objects_processed_total",
	Help:      "Object events processed, by pipeline stage and outcome.",
}, []string{"stage", "outcome"})

// ImportJobsSubmitted counts bulk import jobs handed to the datastore.
var ImportJobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "healthlake_pipeline",
	Name:      "import_jobs_submitted_total",
	Help:      "Bulk FHIR import jobs submitted.",
})

// ResourcesStored counts individual FHIR resources upserted by type.
var ResourcesStored = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "healthlake_pipeline",
	Name:      "resources_stored_total",
	Help:      "FHIR resources upserted into the datastore, by resource type.",
}, []string{"resource_type"})

// DuplicateDeliveries counts queue deliveries skipped by the idempotency guard.
var DuplicateDeliveries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "healthlake_pipeline",
	Name:      "duplicate_deliveries_total",
	Help:      "Queue deliveries skipped because the object was already processed.",
})
