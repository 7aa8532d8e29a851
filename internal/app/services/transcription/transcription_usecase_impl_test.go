package transcription

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

type fakeExtractor struct{}

func (f *fakeExtractor) DetectEntities(ctx context.Context, text string) ([]models.Entity, error) {
	return []models.Entity{
		{Text: "hypertension", Category: constvars.EntityCategoryMedicalCondition, Score: 0.9, BeginOffset: 0, EndOffset: 12},
	}, nil
}

func (f *fakeExtractor) DetectPHI(ctx context.Context, text string) ([]models.Entity, error) {
	return nil, nil
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

// fakeTranscriber completes after a configurable number of polls.
type fakeTranscriber struct {
	pollsUntilDone int
	polls          int
	failureReason  string
	startedJob     string
	startedFormat  string
}

func (f *fakeTranscriber) StartTranscription(ctx context.Context, jobName, mediaURI, mediaFormat, outputBucket, outputKey string) error {
	f.startedJob = jobName
	f.startedFormat = mediaFormat
	return nil
}

func (f *fakeTranscriber) GetTranscription(ctx context.Context, jobName string) (*contracts.TranscriptionJob, error) {
	f.polls++
	if f.failureReason != "" {
		return &contracts.TranscriptionJob{Name: jobName, Status: "FAILED", FailureReason: f.failureReason}, nil
	}
	if f.polls < f.pollsUntilDone {
		return &contracts.TranscriptionJob{Name: jobName, Status: "IN_PROGRESS"}, nil
	}
	return &contracts.TranscriptionJob{
		Name:          jobName,
		Status:        "COMPLETED",
		TranscriptURI: "s3://output/transcriptions/raw/" + jobName + ".json",
	}, nil
}

func (f *fakeTranscriber) ListTranscriptions(ctx context.Context, status string) ([]contracts.TranscriptionJob, error) {
	return nil, nil
}

func newTestUsecase(store *fakeBlobStore, transcriber *fakeTranscriber) *transcriptionUsecase {
	return &transcriptionUsecase{
		Storage:     store,
		Transcriber: transcriber,
		Analyzer:    nlp.NewAnalyzer(&fakeExtractor{}, zap.NewNop()),
		InternalConfig: &config.InternalConfig{
			Pipeline: config.Pipeline{
				OutputBucket:                       "output",
				TranscriptionTimeoutInSeconds:      5,
				TranscriptionPollIntervalInSeconds: 0,
			},
		},
		Log: zap.NewNop(),
	}
}

func transcriptJSON(text string) []byte {
	payload := map[string]interface{}{
		"results": map[string]interface{}{
			"transcripts": []map[string]string{{"transcript": text}},
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestTranscriptionProcessObject(t *testing.T) {
	ctx := context.Background()

	t.Run("transcribes audio and writes the analyzed result", func(t *testing.T) {
		store := newFakeBlobStore()
		transcriber := &fakeTranscriber{pollsUntilDone: 2}
		uc := newTestUsecase(store, transcriber)

		// Seed the transcript the job will "produce". The fake completes on the
		// second poll with a URI under output/transcriptions/raw/.
		store.objects["source/audio/consult.wav"] = []byte("riff")
		uc.Storage = &transcriptSeedingStore{fakeBlobStore: store, transcriber: transcriber}

		outputKey, err := uc.ProcessObject(ctx, models.ObjectEvent{Bucket: "source", Key: "audio/consult.wav"})
		assert.NoError(t, err)
		assert.Equal(t, "transcriptions/consult_transcription_results.json", outputKey)
		assert.Equal(t, "wav", transcriber.startedFormat)
		assert.GreaterOrEqual(t, transcriber.polls, 2)

		stored, ok := store.objects["output/"+outputKey]
		assert.True(t, ok)

		result := new(models.NLPResult)
		assert.NoError(t, json.Unmarshal(stored, result))
		assert.True(t, result.IsTranscription())
		assert.Equal(t, "Patient has hypertension.", result.TranscriptionText)
		assert.Equal(t, "s3://source/audio/consult.wav", result.OriginalAudioFile)
		assert.Len(t, result.Diagnoses, 1)
	})

	t.Run("skips unsupported media formats", func(t *testing.T) {
		uc := newTestUsecase(newFakeBlobStore(), &fakeTranscriber{})

		outputKey, err := uc.ProcessObject(ctx, models.ObjectEvent{Bucket: "source", Key: "audio/notes.pdf"})
		assert.NoError(t, err)
		assert.Empty(t, outputKey)
	})

	t.Run("surfaces job failure", func(t *testing.T) {
		uc := newTestUsecase(newFakeBlobStore(), &fakeTranscriber{failureReason: "bad audio"})

		_, err := uc.ProcessObject(ctx, models.ObjectEvent{Bucket: "source", Key: "audio/consult.wav"})
		assert.Error(t, err)
	})
}

// transcriptSeedingStore plants the transcript object the moment the job name
// is known, mimicking the transcription service writing its own output.
type transcriptSeedingStore struct {
	*fakeBlobStore
	transcriber *fakeTranscriber
}

func (s *transcriptSeedingStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	seededKey := "transcriptions/raw/" + s.transcriber.startedJob + ".json"
	if bucket == "output" && key == seededKey {
		return transcriptJSON("Patient has hypertension."), nil
	}
	return s.fakeBlobStore.GetObject(ctx, bucket, key)
}
