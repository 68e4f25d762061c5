package service

import (
	"context"
	"time"

	"stresswatch/internal/domain"
	"stresswatch/internal/events"
	"stresswatch/internal/inference"
	"stresswatch/internal/repository"
	"stresswatch/internal/store"

	"go.uber.org/zap"
)

// InferenceClient is the oracle boundary, injected so tests can substitute
// a stub and count calls.
type InferenceClient interface {
	Predict(ctx context.Context, req inference.Request) (*inference.Outcome, error)
}

// DetectionService runs the detection pipeline and owns the derived
// condition label.
type DetectionService interface {
	Submit(ctx context.Context, req SubmitDetectionRequest) (*SubmitDetectionResponse, error)
	History(ctx context.Context, subjectID string) ([]domain.DetectionRecord, error)
	CurrentLabel(ctx context.Context, subjectID string) (domain.ConditionLabel, error)
	Trend(ctx context.Context, subjectID string) ([]TrendPoint, error)
	// RecomputeLabel repairs a stale cached label from the full history.
	RecomputeLabel(ctx context.Context, subjectID string) (domain.ConditionLabel, error)
}

// SubmitDetectionRequest is one raw reading submission.
type SubmitDetectionRequest struct {
	SubjectID string
	Vitals    domain.VitalSigns
	Activity  string
	// Timestamp is the instant of the reading; zero value means "now".
	Timestamp time.Time
}

// SubmitDetectionResponse reports both writes of a submission independently:
// the record itself (authoritative) and the derived-label update
// (denormalized cache, repairable).
type SubmitDetectionResponse struct {
	Record       domain.DetectionRecord `json:"record"`
	Condition    domain.ConditionLabel  `json:"condition"`
	LabelUpdated bool                   `json:"label_updated"`
}

const labelCacheTTL = time.Hour

type detectionService struct {
	detections repository.DetectionsRepo
	subjects   repository.SubjectsRepo
	oracle     InferenceClient
	labels     store.KV         // optional, nil disables caching
	publisher  events.Publisher // optional, nil disables events
	now        func() time.Time
	logger     *zap.Logger
}

// NewDetectionService wires the pipeline. labels and publisher may be nil.
func NewDetectionService(
	detections repository.DetectionsRepo,
	subjects repository.SubjectsRepo,
	oracle InferenceClient,
	labels store.KV,
	publisher events.Publisher,
	logger *zap.Logger,
) DetectionService {
	return &detectionService{
		detections: detections,
		subjects:   subjects,
		oracle:     oracle,
		labels:     labels,
		publisher:  publisher,
		now:        time.Now,
		logger:     logger,
	}
}

// Submit runs the full flow: validate -> encode -> call oracle -> classify
// -> append -> recompute label. Validation failures reject the submission
// before any network or storage effect; a cancelled oracle call persists
// nothing.
func (s *detectionService) Submit(ctx context.Context, req SubmitDetectionRequest) (*SubmitDetectionResponse, error) {
	if _, err := s.subjects.Get(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	level, err := domain.ValidateSubmission(req.Vitals, req.Activity)
	if err != nil {
		return nil, err
	}
	vec := level.Vector()

	outcome, err := s.oracle.Predict(ctx, inference.Request{
		BVP:  req.Vitals.BVP,
		EDA:  req.Vitals.EDA,
		Temp: req.Vitals.Temp,
		AccX: vec.X,
		AccY: vec.Y,
		AccZ: vec.Z,
	})
	if err != nil {
		return nil, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	rec := domain.NewDetectionRecord(req.SubjectID, req.Vitals, level, outcome.Result, outcome.Advice, ts)

	// First write: the record itself. A failure here fails the submission.
	if err := s.detections.Insert(ctx, rec); err != nil {
		return nil, err
	}

	// Second write: the derived label. Recomputed from the full history's
	// newest-by-timestamp record, which makes concurrent submissions
	// order-independent. A failure here is reported but never rolls back
	// the record; the label stays stale until the next successful append
	// or an explicit RecomputeLabel.
	resp := &SubmitDetectionResponse{Record: rec, LabelUpdated: true}
	label, labelErr := s.RecomputeLabel(ctx, req.SubjectID)
	if labelErr != nil {
		s.logger.Warn("Detection stored but condition label update failed",
			zap.String("subject_id", req.SubjectID),
			zap.String("detection_id", rec.DetectionID),
			zap.Error(labelErr),
		)
		resp.LabelUpdated = false
		label = rec.Condition()
	}
	resp.Condition = label

	s.publishDetection(ctx, rec)

	s.logger.Info("Detection recorded",
		zap.String("subject_id", req.SubjectID),
		zap.String("detection_id", rec.DetectionID),
		zap.String("result", rec.Result),
		zap.String("condition", string(label)),
	)
	return resp, nil
}

// History returns the subject's records, newest first.
func (s *detectionService) History(ctx context.Context, subjectID string) ([]domain.DetectionRecord, error) {
	return s.detections.ListBySubject(ctx, subjectID)
}

// CurrentLabel is NotYetMeasured for an empty history, otherwise the
// classification of the newest-by-timestamp record. Reads go through the
// label cache when one is configured; the cache is best-effort and the
// history is always the authority on a miss.
func (s *detectionService) CurrentLabel(ctx context.Context, subjectID string) (domain.ConditionLabel, error) {
	if s.labels != nil {
		if v, err := s.labels.Get(ctx, labelCacheKey(subjectID)); err == nil {
			if label := domain.ConditionLabel(v); label.Valid() {
				return label, nil
			}
		}
	}

	label, err := s.deriveLabel(ctx, subjectID)
	if err != nil {
		return "", err
	}
	s.cacheLabel(ctx, subjectID, label)
	return label, nil
}

// Trend projects the history into the binarized chart series.
func (s *detectionService) Trend(ctx context.Context, subjectID string) ([]TrendPoint, error) {
	records, err := s.detections.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return BuildTrendSeries(records), nil
}

// RecomputeLabel derives the label from the full history and persists it on
// the subject. Idempotent; safe to call concurrently with appends.
func (s *detectionService) RecomputeLabel(ctx context.Context, subjectID string) (domain.ConditionLabel, error) {
	label, err := s.deriveLabel(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if err := s.subjects.UpdateCondition(ctx, subjectID, label); err != nil {
		return "", err
	}
	s.cacheLabel(ctx, subjectID, label)
	return label, nil
}

func (s *detectionService) deriveLabel(ctx context.Context, subjectID string) (domain.ConditionLabel, error) {
	latest, err := s.detections.Latest(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return domain.ConditionNotYetMeasured, nil
	}
	return latest.Condition(), nil
}

func (s *detectionService) cacheLabel(ctx context.Context, subjectID string, label domain.ConditionLabel) {
	if s.labels == nil {
		return
	}
	if err := s.labels.Set(ctx, labelCacheKey(subjectID), string(label), labelCacheTTL); err != nil {
		s.logger.Debug("Failed to cache condition label",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
	}
}

func (s *detectionService) publishDetection(ctx context.Context, rec domain.DetectionRecord) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishDetection(ctx, events.DetectionEvent{
		DetectionID: rec.DetectionID,
		SubjectID:   rec.SubjectID,
		Result:      rec.Result,
		Condition:   rec.Condition(),
		Timestamp:   rec.Timestamp,
	})
	if err != nil {
		s.logger.Warn("Failed to publish detection event",
			zap.String("detection_id", rec.DetectionID),
			zap.Error(err),
		)
	}
}

func labelCacheKey(subjectID string) string {
	return "subject:" + subjectID + ":condition"
}
