package transcribemedical

import (
	"context"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	ttypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"go.uber.org/zap"
)

var (
	transcriberInstance contracts.Transcriber
	onceTranscriber     sync.Once
)

type medicalTranscriber struct {
	client *transcribe.Client
	Log    *zap.Logger
}

func NewMedicalTranscriber(client *transcribe.Client, logger *zap.Logger) contracts.Transcriber {
	onceTranscriber.Do(func() {
		instance := &medicalTranscriber{
			client: client,
			Log:    logger,
		}
		transcriberInstance = instance
	})
	return transcriberInstance
}

func (t *medicalTranscriber) StartTranscription(ctx context.Context, jobName, mediaURI, mediaFormat, outputBucket, outputKey string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Info("medicalTranscriber.StartTranscription called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobNameKey, jobName),
	)

	_, err := t.client.StartMedicalTranscriptionJob(ctx, &transcribe.StartMedicalTranscriptionJobInput{
		MedicalTranscriptionJobName: aws.String(jobName),
		LanguageCode:                ttypes.LanguageCodeEnUs,
		MediaFormat:                 mapMediaFormat(mediaFormat),
		Specialty:                   ttypes.SpecialtyPrimarycare,
		Type:                        ttypes.TypeConversation,
		Media: &ttypes.Media{
			MediaFileUri: aws.String(mediaURI),
		},
		OutputBucketName: aws.String(outputBucket),
		OutputKey:        aws.String(outputKey),
		Settings: &ttypes.MedicalTranscriptionSetting{
			ShowSpeakerLabels: aws.Bool(true),
			MaxSpeakerLabels:  aws.Int32(2),
		},
	})
	if err != nil {
		t.Log.Error("medicalTranscriber.StartTranscription error submitting job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobNameKey, jobName),
			zap.Error(err),
		)
		return exceptions.ErrStartTranscription(err, jobName)
	}
	return nil
}

func (t *medicalTranscriber) GetTranscription(ctx context.Context, jobName string) (*contracts.TranscriptionJob, error) {
	output, err := t.client.GetMedicalTranscriptionJob(ctx, &transcribe.GetMedicalTranscriptionJobInput{
		MedicalTranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return nil, exceptions.ErrGetTranscription(err, jobName)
	}

	job := output.MedicalTranscriptionJob
	mapped := &contracts.TranscriptionJob{
		Name:          aws.ToString(job.MedicalTranscriptionJobName),
		Status:        string(job.TranscriptionJobStatus),
		FailureReason: aws.ToString(job.FailureReason),
	}
	if job.Transcript != nil {
		mapped.TranscriptURI = aws.ToString(job.Transcript.TranscriptFileUri)
	}
	return mapped, nil
}

func (t *medicalTranscriber) ListTranscriptions(ctx context.Context, status string) ([]contracts.TranscriptionJob, error) {
	input := &transcribe.ListMedicalTranscriptionJobsInput{}
	if status != "" {
		input.Status = ttypes.TranscriptionJobStatus(status)
	}

	jobs := make([]contracts.TranscriptionJob, 0)
	for {
		output, err := t.client.ListMedicalTranscriptionJobs(ctx, input)
		if err != nil {
			return nil, exceptions.ErrGetTranscription(err, "")
		}
		for _, summary := range output.MedicalTranscriptionJobSummaries {
			jobs = append(jobs, contracts.TranscriptionJob{
				Name:          aws.ToString(summary.MedicalTranscriptionJobName),
				Status:        string(summary.TranscriptionJobStatus),
				FailureReason: aws.ToString(summary.FailureReason),
			})
		}
		if output.NextToken == nil {
			break
		}
		input.NextToken = output.NextToken
	}
	return jobs, nil
}

// mapMediaFormat normalizes a file extension to a supported media format.
// m4a containers are submitted as mp4.
func mapMediaFormat(format string) ttypes.MediaFormat {
	switch format {
	case "wav":
		return ttypes.MediaFormatWav
	case "mp3":
		return ttypes.MediaFormatMp3
	case "flac":
		return ttypes.MediaFormatFlac
	case "ogg":
		return ttypes.MediaFormatOgg
	case "mp4", "m4a":
		return ttypes.MediaFormatMp4
	default:
		return ttypes.MediaFormatWav
	}
}
