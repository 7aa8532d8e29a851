package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseS3URI(t *testing.T) {
	t.Run("S3 scheme", func(t *testing.T) {
		bucket, key, err := ParseS3URI("s3://my-bucket/audio/visit.wav")
		assert.NoError(t, err)
		assert.Equal(t, "my-bucket", bucket)
		assert.Equal(t, "audio/visit.wav", key)
	})

	t.Run("virtual-hosted HTTPS URL", func(t *testing.T) {
		bucket, key, err := ParseS3URI("https://my-bucket.s3.us-east-1.amazonaws.com/transcriptions/raw/job.json")
		assert.NoError(t, err)
		assert.Equal(t, "my-bucket", bucket)
		assert.Equal(t, "transcriptions/raw/job.json", key)
	})

	t.Run("path-style HTTPS URL", func(t *testing.T) {
		bucket, key, err := ParseS3URI("https://s3.us-east-1.amazonaws.com/my-bucket/processed/note_processed.json")
		assert.NoError(t, err)
		assert.Equal(t, "my-bucket", bucket)
		assert.Equal(t, "processed/note_processed.json", key)
	})

	t.Run("missing key", func(t *testing.T) {
		_, _, err := ParseS3URI("s3://my-bucket")
		assert.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, _, err := ParseS3URI("ftp://my-bucket/key")
		assert.Error(t, err)
	})
}

func TestObjectBaseName(t *testing.T) {
	assert.Equal(t, "visit-1234", ObjectBaseName("clinical-notes/visit-1234.txt"))
	assert.Equal(t, "patient", ObjectBaseName("patient.json"))
	assert.Equal(t, "archive.tar", ObjectBaseName("backups/archive.tar.gz"))
}

func TestObjectExtension(t *testing.T) {
	assert.Equal(t, "wav", ObjectExtension("audio/Consult.WAV"))
	assert.Equal(t, "json", ObjectExtension("patients/p1.json"))
	assert.Equal(t, "", ObjectExtension("no-extension"))
}
