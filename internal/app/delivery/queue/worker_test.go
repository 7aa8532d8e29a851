package queue

import (
	"context"
	"testing"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeGuard struct {
	claimed  map[string]bool
	released []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{claimed: make(map[string]bool)}
}

func (f *fakeGuard) MarkProcessed(ctx context.Context, dedupeKey string) (bool, error) {
	if f.claimed[dedupeKey] {
		return false, nil
	}
	f.claimed[dedupeKey] = true
	return true, nil
}

func (f *fakeGuard) Release(ctx context.Context, dedupeKey string) error {
	delete(f.claimed, dedupeKey)
	f.released = append(f.released, dedupeKey)
	return nil
}

type recordingUsecases struct {
	imports       []string
	notes         []string
	transcripts   []string
	created       []string
	pipelineError error
}

func (r *recordingUsecases) ProcessObject(ctx context.Context, event models.ObjectEvent) (*models.ImportJob, error) {
	r.imports = append(r.imports, event.Key)
	return nil, r.pipelineError
}

func (r *recordingUsecases) ProcessBatch(ctx context.Context, bucket, prefix string) (*models.ImportJob, error) {
	return nil, nil
}

func (r *recordingUsecases) JobStatus(ctx context.Context, jobID string) (*models.ImportJob, error) {
	return nil, nil
}

type notesUsecase struct{ r *recordingUsecases }

func (u notesUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (string, error) {
	u.r.notes = append(u.r.notes, event.Key)
	return "", u.r.pipelineError
}

type transcriptionUsecase struct{ r *recordingUsecases }

func (u transcriptionUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (string, error) {
	u.r.transcripts = append(u.r.transcripts, event.Key)
	return "", u.r.pipelineError
}

type creatorUsecase struct{ r *recordingUsecases }

func (u creatorUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (*models.ProcessingSummary, error) {
	u.r.created = append(u.r.created, event.Key)
	return nil, u.r.pipelineError
}

func newTestWorker(guard *fakeGuard, recorder *recordingUsecases) *Worker {
	return &Worker{
		Guard:                  guard,
		ImportUsecase:          recorder,
		ClinicalNotesUsecase:   notesUsecase{recorder},
		TranscriptionUsecase:   transcriptionUsecase{recorder},
		ResourceCreatorUsecase: creatorUsecase{recorder},
		InternalConfig:         &config.InternalConfig{},
		Log:                    zap.NewNop(),
	}
}

func TestWorkerDispatch(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		key   string
		check func(t *testing.T, r *recordingUsecases)
	}{
		{"patients go to the importer", "patients/p1.json", func(t *testing.T, r *recordingUsecases) {
			assert.Len(t, r.imports, 1)
		}},
		{"observations go to the importer", "observations/o1.json", func(t *testing.T, r *recordingUsecases) {
			assert.Len(t, r.imports, 1)
		}},
		{"notes go to the NLP stage", "clinical-notes/visit.txt", func(t *testing.T, r *recordingUsecases) {
			assert.Len(t, r.notes, 1)
		}},
		{"audio goes to transcription", "audio/consult.wav", func(t *testing.T, r *recordingUsecases) {
			assert.Len(t, r.transcripts, 1)
		}},
		{"processed results go to resource creation", "processed/visit_processed.json", func(t *testing.T, r *recordingUsecases) {
			assert.Len(t, r.created, 1)
		}},
		{"transcription results go to resource creation", "transcriptions/visit_transcription_results.json", func(t *testing.T, r *recordingUsecases) {
			assert.Len(t, r.created, 1)
		}},
		{"unrelated keys are ignored", "tmp/scratch.bin", func(t *testing.T, r *recordingUsecases) {
			assert.Empty(t, r.imports)
			assert.Empty(t, r.notes)
			assert.Empty(t, r.transcripts)
			assert.Empty(t, r.created)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := &recordingUsecases{}
			worker := newTestWorker(newFakeGuard(), recorder)

			err := worker.processEvent(ctx, models.ObjectEvent{Bucket: "b", Key: tc.key, ETag: "e1"})
			assert.NoError(t, err)
			tc.check(t, recorder)
		})
	}
}

func TestWorkerIdempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate deliveries are processed once", func(t *testing.T) {
		recorder := &recordingUsecases{}
		worker := newTestWorker(newFakeGuard(), recorder)
		event := models.ObjectEvent{Bucket: "b", Key: "clinical-notes/visit.txt", ETag: "e1"}

		assert.NoError(t, worker.processEvent(ctx, event))
		assert.NoError(t, worker.processEvent(ctx, event))
		assert.Len(t, recorder.notes, 1)
	})

	t.Run("changed etag is reprocessed", func(t *testing.T) {
		recorder := &recordingUsecases{}
		worker := newTestWorker(newFakeGuard(), recorder)

		assert.NoError(t, worker.processEvent(ctx, models.ObjectEvent{Bucket: "b", Key: "clinical-notes/visit.txt", ETag: "e1"}))
		assert.NoError(t, worker.processEvent(ctx, models.ObjectEvent{Bucket: "b", Key: "clinical-notes/visit.txt", ETag: "e2"}))
		assert.Len(t, recorder.notes, 2)
	})

	t.Run("failure releases the claim for retry", func(t *testing.T) {
		guard := newFakeGuard()
		recorder := &recordingUsecases{pipelineError: assert.AnError}
		worker := newTestWorker(guard, recorder)
		event := models.ObjectEvent{Bucket: "b", Key: "clinical-notes/visit.txt", ETag: "e1"}

		assert.Error(t, worker.processEvent(ctx, event))
		assert.Len(t, guard.released, 1)

		recorder.pipelineError = nil
		assert.NoError(t, worker.processEvent(ctx, event))
		assert.Len(t, recorder.notes, 2)
	})
}

func TestParseNotification(t *testing.T) {
	t.Run("decodes a MinIO bucket notification", func(t *testing.T) {
		body := []byte(`{
			"EventName": "s3:ObjectCreated:Put",
			"Records": [{
				"eventTime": "2025-06-01T10:00:00Z",
				"s3": {
					"bucket": {"name": "source"},
					"object": {"key": "clinical-notes%2Fvisit.txt", "eTag": "abc", "size": 17}
				}
			}]
		}`)

		events, err := parseNotification(body)
		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, "source", events[0].Bucket)
		assert.Equal(t, "clinical-notes/visit.txt", events[0].Key)
		assert.Equal(t, "abc", events[0].ETag)
		assert.Equal(t, int64(17), events[0].Size)
		assert.Equal(t, 2025, events[0].EventTime.Year())
	})

	t.Run("rejects a notification without records", func(t *testing.T) {
		_, err := parseNotification([]byte(`{"EventName":"x","Records":[]}`))
		assert.Error(t, err)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := parseNotification([]byte(`{`))
		assert.Error(t, err)
	})
}
