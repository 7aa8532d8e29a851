package clinicalnotes

import (
	"context"
	"io"
	"testing"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/app/services/shared/nlp"
	"healthlake-pipeline/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeBlobStore struct {
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, assert.AnError
	}
	return data, nil
}

func (f *fakeBlobStore) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	data, _ := io.ReadAll(body)
	f.objects[bucket+"/"+key] = data
	return nil
}

func (f *fakeBlobStore) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	return nil
}

func (f *fakeBlobStore) ListObjects(ctx context.Context, bucket, prefix string, max int) ([]contracts.ObjectInfo, error) {
	return nil, nil
}

type fakeExtractor struct {
	entities []models.Entity
	phi      []models.Entity
}

func (f *fakeExtractor) DetectEntities(ctx context.Context, text string) ([]models.Entity, error) {
	return f.entities, nil
}

func (f *fakeExtractor) DetectPHI(ctx context.Context, text string) ([]models.Entity, error) {
	return f.phi, nil
}

func (f *fakeExtractor) InferICD10CM(ctx context.Context, text string) ([]models.CodedEntity, error) {
	return nil, nil
}

func (f *fakeExtractor) InferRxNorm(ctx context.Context, text string) ([]models.CodedEntity, error) {
	return nil, nil
}

func (f *fakeExtractor) InferSNOMEDCT(ctx context.Context, text string) ([]models.CodedEntity, error) {
	return nil, nil
}

func newTestUsecase(store *fakeBlobStore, extractor *fakeExtractor) *clinicalNotesUsecase {
	return &clinicalNotesUsecase{
		Storage:  store,
		Analyzer: nlp.NewAnalyzer(extractor, zap.NewNop()),
		InternalConfig: &config.InternalConfig{
			Pipeline: config.Pipeline{OutputBucket: "output"},
		},
		Log: zap.NewNop(),
	}
}

func TestClinicalNotesProcessObject(t *testing.T) {
	ctx := context.Background()

	t.Run("analyzes a note and writes the result", func(t *testing.T) {
		store := newFakeBlobStore()
		store.objects["source/clinical-notes/visit-1.txt"] = []byte("Patient reports chest pain. Prescribed aspirin.")
		extractor := &fakeExtractor{
			entities: []models.Entity{
				{Text: "chest pain", Category: constvars.EntityCategoryMedicalCondition, Score: 0.92, BeginOffset: 16, EndOffset: 26},
				{Text: "aspirin", Category: constvars.EntityCategoryMedication, Score: 0.88, BeginOffset: 39, EndOffset: 46},
			},
			phi: []models.Entity{
				{Text: "John", Type: constvars.PhiTypeName, Category: constvars.EntityCategoryPHI, Score: 0.99},
			},
		}
		uc := newTestUsecase(store, extractor)

		outputKey, err := uc.ProcessObject(ctx, models.ObjectEvent{Bucket: "source", Key: "clinical-notes/visit-1.txt"})
		assert.NoError(t, err)
		assert.Equal(t, "processed/visit-1_processed.json", outputKey)

		stored, ok := store.objects["output/"+outputKey]
		assert.True(t, ok)

		result := new(models.NLPResult)
		assert.NoError(t, json.Unmarshal(stored, result))
		assert.Equal(t, "clinical-notes/visit-1.txt", result.SourceKey)
		assert.NotEmpty(t, result.ProcessingID)
		assert.Len(t, result.Entities, 2)
		assert.Len(t, result.PHIEntities, 1)
		assert.Len(t, result.Diagnoses, 1)
		assert.Len(t, result.Medications, 1)
		// "chest pain" matches the cardiovascular term list.
		assert.Len(t, result.Cardiovascular, 1)
		assert.False(t, result.IsTranscription())
	})

	t.Run("rejects an empty note", func(t *testing.T) {
		store := newFakeBlobStore()
		store.objects["source/clinical-notes/empty.txt"] = []byte("   \n")
		uc := newTestUsecase(store, &fakeExtractor{})

		_, err := uc.ProcessObject(ctx, models.ObjectEvent{Bucket: "source", Key: "clinical-notes/empty.txt"})
		assert.Error(t, err)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		uc := newTestUsecase(newFakeBlobStore(), &fakeExtractor{})

		_, err := uc.ProcessObject(ctx, models.ObjectEvent{Bucket: "source", Key: "clinical-notes/missing.txt"})
		assert.Error(t, err)
	})
}
