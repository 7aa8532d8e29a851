package nlp

import (
	"context"
	"strings"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"

	"go.uber.org/zap"
)

// cardiovascularTerms flag entities of interest to the cath lab even when the
// NLP service files them under a generic category.
var cardiovascularTerms = []string{
	"heart", "cardiac", "cardio", "coronary", "artery", "arterial",
	"chest pain", "angina", "myocardial", "infarction", "ischemia",
	"hypertension", "blood pressure", "arrhythmia", "fibrillation",
	"atrial", "ventricular", "stent", "angioplasty", "catheterization",
	"echocardiogram", "ecg", "ekg", "stenosis", "valve",
}

// Analyzer runs the full NLP pass over a document: entity extraction, PHI
// detection, clinical bucketing, and coded-vocabulary inference.
type Analyzer struct {
	Extractor contracts.EntityExtractor
	Log       *zap.Logger
}

func NewAnalyzer(extractor contracts.EntityExtractor, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		Extractor: extractor,
		Log:       logger,
	}
}

// Analyze populates the entity and vocabulary sections of an NLP result.
// Vocabulary inference failures degrade to an empty section rather than
// failing the run; entity extraction failures are fatal.
func (a *Analyzer) Analyze(ctx context.Context, result *models.NLPResult, text string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	entities, err := a.Extractor.DetectEntities(ctx, text)
	if err != nil {
		return err
	}
	result.Entities = entities

	phiEntities, err := a.Extractor.DetectPHI(ctx, text)
	if err != nil {
		return err
	}
	result.PHIEntities = phiEntities

	result.Medications = make([]models.CategorizedEntity, 0)
	result.Diagnoses = make([]models.CategorizedEntity, 0)
	result.Procedures = make([]models.CategorizedEntity, 0)
	result.Cardiovascular = make([]models.CategorizedEntity, 0)

	for _, entity := range entities {
		categorized := models.CategorizedEntity{
			Text:        entity.Text,
			Confidence:  entity.Score,
			Type:        entity.Type,
			BeginOffset: entity.BeginOffset,
			EndOffset:   entity.EndOffset,
			Attributes:  entity.Attributes,
			Source:      entity.Category,
		}

		switch entity.Category {
		case constvars.EntityCategoryMedication:
			result.Medications = append(result.Medications, categorized)
		case constvars.EntityCategoryMedicalCondition:
			result.Diagnoses = append(result.Diagnoses, categorized)
		case constvars.EntityCategoryProcedure:
			result.Procedures = append(result.Procedures, categorized)
		}

		if IsCardiovascular(entity.Text) {
			result.Cardiovascular = append(result.Cardiovascular, categorized)
		}
	}

	if coded, err := a.Extractor.InferICD10CM(ctx, text); err != nil {
		a.Log.Warn("analyzer.Analyze vocabulary inference failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	} else {
		result.ICD10CM = coded
	}

	if coded, err := a.Extractor.InferRxNorm(ctx, text); err != nil {
		a.Log.Warn("analyzer.Analyze vocabulary inference failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	} else {
		result.RxNorm = coded
	}

	if coded, err := a.Extractor.InferSNOMEDCT(ctx, text); err != nil {
		a.Log.Warn("analyzer.Analyze vocabulary inference failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	} else {
		result.SNOMEDCT = coded
	}

	a.Log.Info("analyzer.Analyze succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntityCountKey, len(entities)),
	)
	return nil
}

// IsCardiovascular reports whether the text mentions a cardiovascular term.
func IsCardiovascular(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range cardiovascularTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
