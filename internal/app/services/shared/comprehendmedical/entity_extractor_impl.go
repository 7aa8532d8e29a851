package comprehendmedical

import (
	"context"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical/types"
	"go.uber.org/zap"
)

var (
	entityExtractorInstance contracts.EntityExtractor
	onceEntityExtractor     sync.Once
)

type entityExtractor struct {
	client *comprehendmedical.Client
	Log    *zap.Logger
}

func NewEntityExtractor(client *comprehendmedical.Client, logger *zap.Logger) contracts.EntityExtractor {
	onceEntityExtractor.Do(func() {
		instance := &entityExtractor{
			client: client,
			Log:    logger,
		}
		entityExtractorInstance = instance
	})
	return entityExtractorInstance
}

func (e *entityExtractor) DetectEntities(ctx context.Context, text string) ([]models.Entity, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	output, err := e.client.DetectEntitiesV2(ctx, &comprehendmedical.DetectEntitiesV2Input{
		Text: aws.String(text),
	})
	if err != nil {
		e.Log.Error("entityExtractor.DetectEntities error detecting entities",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDetectEntities(err)
	}

	entities := mapEntities(output.Entities)
	e.Log.Info("entityExtractor.DetectEntities succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntityCountKey, len(entities)),
	)
	return entities, nil
}

func (e *entityExtractor) DetectPHI(ctx context.Context, text string) ([]models.Entity, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	output, err := e.client.DetectPHI(ctx, &comprehendmedical.DetectPHIInput{
		Text: aws.String(text),
	})
	if err != nil {
		e.Log.Error("entityExtractor.DetectPHI error detecting PHI",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDetectPHI(err)
	}

	return mapEntities(output.Entities), nil
}

func (e *entityExtractor) InferICD10CM(ctx context.Context, text string) ([]models.CodedEntity, error) {
	output, err := e.client.InferICD10CM(ctx, &comprehendmedical.InferICD10CMInput{
		Text: aws.String(text),
	})
	if err != nil {
		return nil, exceptions.ErrInferCoding(err, constvars.VocabularyICD10CM)
	}

	coded := make([]models.CodedEntity, 0, len(output.Entities))
	for _, entity := range output.Entities {
		coded = append(coded, models.CodedEntity{
			Entity: models.Entity{
				Text:        aws.ToString(entity.Text),
				Category:    string(entity.Category),
				Type:        string(entity.Type),
				Score:       float32Value(entity.Score),
				BeginOffset: int(aws.ToInt32(entity.BeginOffset)),
				EndOffset:   int(aws.ToInt32(entity.EndOffset)),
			},
			Concepts: mapICD10CMConcepts(entity.ICD10CMConcepts),
		})
	}
	return coded, nil
}

func (e *entityExtractor) InferRxNorm(ctx context.Context, text string) ([]models.CodedEntity, error) {
	output, err := e.client.InferRxNorm(ctx, &comprehendmedical.InferRxNormInput{
		Text: aws.String(text),
	})
	if err != nil {
		return nil, exceptions.ErrInferCoding(err, constvars.VocabularyRxNorm)
	}

	coded := make([]models.CodedEntity, 0, len(output.Entities))
	for _, entity := range output.Entities {
		coded = append(coded, models.CodedEntity{
			Entity: models.Entity{
				Text:        aws.ToString(entity.Text),
				Category:    string(entity.Category),
				Type:        string(entity.Type),
				Score:       float32Value(entity.Score),
				BeginOffset: int(aws.ToInt32(entity.BeginOffset)),
				EndOffset:   int(aws.ToInt32(entity.EndOffset)),
			},
			Concepts: mapRxNormConcepts(entity.RxNormConcepts),
		})
	}
	return coded, nil
}

func (e *entityExtractor) InferSNOMEDCT(ctx context.Context, text string) ([]models.CodedEntity, error) {
	output, err := e.client.InferSNOMEDCT(ctx, &comprehendmedical.InferSNOMEDCTInput{
		Text: aws.String(text),
	})
	if err != nil {
		return nil, exceptions.ErrInferCoding(err, constvars.VocabularySNOMEDCT)
	}

	coded := make([]models.CodedEntity, 0, len(output.Entities))
	for _, entity := range output.Entities {
		coded = append(coded, models.CodedEntity{
			Entity: models.Entity{
				Text:        aws.ToString(entity.Text),
				Category:    string(entity.Category),
				Type:        string(entity.Type),
				Score:       float32Value(entity.Score),
				BeginOffset: int(aws.ToInt32(entity.BeginOffset)),
				EndOffset:   int(aws.ToInt32(entity.EndOffset)),
			},
			Concepts: mapSNOMEDCTConcepts(entity.SNOMEDCTConcepts),
		})
	}
	return coded, nil
}

func mapEntities(raw []types.Entity) []models.Entity {
	entities := make([]models.Entity, 0, len(raw))
	for _, entity := range raw {
		mapped := models.Entity{
			Text:        aws.ToString(entity.Text),
			Category:    string(entity.Category),
			Type:        string(entity.Type),
			Score:       float32Value(entity.Score),
			BeginOffset: int(aws.ToInt32(entity.BeginOffset)),
			EndOffset:   int(aws.ToInt32(entity.EndOffset)),
		}
		for _, attribute := range entity.Attributes {
			mapped.Attributes = append(mapped.Attributes, models.Attribute{
				Text:  aws.ToString(attribute.Text),
				Type:  string(attribute.Type),
				Score: float32Value(attribute.Score),
			})
		}
		entities = append(entities, mapped)
	}
	return entities
}

func mapICD10CMConcepts(raw []types.ICD10CMConcept) []models.CodedConcept {
	concepts := make([]models.CodedConcept, 0, len(raw))
	for _, concept := range raw {
		concepts = append(concepts, models.CodedConcept{
			Code:        aws.ToString(concept.Code),
			Description: aws.ToString(concept.Description),
			Score:       float32Value(concept.Score),
		})
	}
	return concepts
}

func mapRxNormConcepts(raw []types.RxNormConcept) []models.CodedConcept {
	concepts := make([]models.CodedConcept, 0, len(raw))
	for _, concept := range raw {
		concepts = append(concepts, models.CodedConcept{
			Code:        aws.ToString(concept.Code),
			Description: aws.ToString(concept.Description),
			Score:       float32Value(concept.Score),
		})
	}
	return concepts
}

func mapSNOMEDCTConcepts(raw []types.SNOMEDCTConcept) []models.CodedConcept {
	concepts := make([]models.CodedConcept, 0, len(raw))
	for _, concept := range raw {
		concepts = append(concepts, models.CodedConcept{
			Code:        aws.ToString(concept.Code),
			Description: aws.ToString(concept.Description),
			Score:       float32Value(concept.Score),
		})
	}
	return concepts
}

func float32Value(v *float32) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}
