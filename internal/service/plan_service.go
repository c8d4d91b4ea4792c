package service

import (
	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
	"alcyxob/runplan/internal/progress"
	"alcyxob/runplan/internal/repository"
	"alcyxob/runplan/internal/schedule"
	"alcyxob/runplan/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrPlanNotOwned         = errors.New("plan does not belong to this user")
	ErrInvalidStartDate     = errors.New("start date must be a valid YYYY-MM-DD date")
	ErrInvalidWeekNumber    = errors.New("week number must be positive")
	ErrEmptySchedule        = errors.New("plan requires at least one schedule day")
	ErrInvalidFeedback      = errors.New("feedback has an invalid completion status")
	ErrProgressNotAvailable = errors.New("plan has no phase timeline to compute progress from")
	ErrNoArchiveSnapshot    = errors.New("plan has no archived pre-migration snapshot")
)

// PlanService owns the plan lifecycle: creation, migration-on-read
// normalization, progress derivation, and feedback capture.
type PlanService interface {
	CreatePlan(ctx context.Context, ownerID primitive.ObjectID, name, startDate, raceDate string, days []domain.ScheduleDay) (*domain.PlanDocument, error)
	ListPlans(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlanDocument, error)

	// GetPlan loads a plan of unknown vintage, migrates it to the canonical
	// format if needed, and returns a renderable document. The migration, if
	// one happened, is persisted back; a failed write-back still yields a
	// usable document.
	GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.PlanDocument, schedule.Diagnostics, error)

	GetProgress(ctx context.Context, planID primitive.ObjectID, currentWeek int) (progress.Summary, error)
	LogFeedback(ctx context.Context, feedback *domain.WorkoutFeedback) (primitive.ObjectID, error)

	// ArchiveSnapshotURL returns a presigned download URL for the plan's
	// pre-migration archive snapshot. Coaches may fetch any plan's
	// snapshot; runners only their own.
	ArchiveSnapshotURL(ctx context.Context, planID, requesterID primitive.ObjectID, role domain.Role) (string, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo     repository.PlanRepository
	feedbackRepo repository.FeedbackRepository
	archive      storage.ArchiveStore
	normalizer   *schedule.Normalizer
	logger       *slog.Logger
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	feedbackRepo repository.FeedbackRepository,
	archive storage.ArchiveStore,
	logger *slog.Logger,
) PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &planService{
		planRepo:     planRepo,
		feedbackRepo: feedbackRepo,
		archive:      archive,
		normalizer:   schedule.NewNormalizer(logger),
		logger:       logger,
	}
}

// CreatePlan stores a new canonical-format plan. Day-of-week fields are
// recomputed from each date so the date/weekday invariant holds from the
// moment of creation, and a phase timeline is built from the plan span.
func (s *planService) CreatePlan(ctx context.Context, ownerID primitive.ObjectID, name, startDate, raceDate string, days []domain.ScheduleDay) (*domain.PlanDocument, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	if !calendar.IsValidDate(startDate) {
		return nil, ErrInvalidStartDate
	}
	if raceDate != "" && !calendar.IsValidDate(raceDate) {
		return nil, fmt.Errorf("race date %q: %w", raceDate, calendar.ErrInvalidDateFormat)
	}
	if len(days) == 0 {
		return nil, ErrEmptySchedule
	}

	for i := range days {
		t, err := calendar.ParseDate(days[i].Date)
		if err != nil {
			return nil, fmt.Errorf("schedule day %d: %w", i, err)
		}
		days[i].DayOfWeek = calendar.WeekdayOf(t)
		if days[i].Kind == "" {
			days[i].Kind = domain.DayKindTrain
		}
	}

	if v := schedule.ValidateDays(days); !v.Valid {
		return nil, fmt.Errorf("schedule is not valid: %v", v.Errors)
	}

	plan := &domain.PlanDocument{
		OwnerID:       ownerID,
		Name:          name,
		FormatVersion: domain.FormatCanonicalDaily,
		StartDate:     startDate,
		RaceDate:      raceDate,
		Days:          days,
		WeeklyView:    schedule.BuildWeeklyView(days),
	}

	totalWeeks := len(plan.WeeklyView)
	if totalWeeks > 0 {
		tl := progress.BuildTimeline(totalWeeks, totalWeeks)
		plan.Timeline = &tl
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// ListPlans returns all plans owned by a runner.
func (s *planService) ListPlans(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlanDocument, error) {
	return s.planRepo.GetByOwnerID(ctx, ownerID)
}

// GetPlan implements migration-on-read. Legacy documents are archived and
// converted the first time they are loaded; already-canonical documents
// only get their weekly view refreshed, which never triggers a write.
func (s *planService) GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.PlanDocument, schedule.Diagnostics, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, schedule.Diagnostics{}, ErrPlanNotFound
		}
		return nil, schedule.Diagnostics{}, err
	}

	result := s.normalizer.Normalize(plan, plan.StartDate)
	if !result.NeedsPersistence {
		return result.Plan, result.Diagnostics, nil
	}

	// A migration happened. Snapshot the raw pre-migration document first;
	// the write-back must never be the only copy of history.
	if key := s.archivePreMigrationSnapshot(ctx, plan); key != "" && result.Plan.Migration != nil {
		result.Plan.Migration.ArchiveKey = key
	}

	err = s.planRepo.Update(ctx, result.Plan, plan.Version)
	switch {
	case err == nil:
		return result.Plan, result.Diagnostics, nil
	case errors.Is(err, repository.ErrVersionConflict):
		// Another reader migrated this plan first. Reload and re-normalize;
		// idempotence guarantees the second pass needs no write.
		s.logger.Info("lost migration write race, reloading plan", "plan", planID.Hex())
		fresh, ferr := s.planRepo.GetByID(ctx, planID)
		if ferr != nil {
			return result.Plan, result.Diagnostics, nil
		}
		res := s.normalizer.Normalize(fresh, fresh.StartDate)
		return res.Plan, res.Diagnostics, nil
	default:
		// Persisting the migration failed; the normalized document is still
		// renderable, so degrade instead of erroring out.
		s.logger.Error("failed to persist plan migration", "plan", planID.Hex(), "error", err)
		return result.Plan, result.Diagnostics, nil
	}
}

// GetProgress computes the training-phase progress summary for a plan at
// the given week, from the stored timeline and recent key-workout feedback.
func (s *planService) GetProgress(ctx context.Context, planID primitive.ObjectID, currentWeek int) (progress.Summary, error) {
	if currentWeek < 1 {
		return progress.Summary{}, ErrInvalidWeekNumber
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return progress.Summary{}, ErrPlanNotFound
		}
		return progress.Summary{}, err
	}

	timeline := s.timelineFor(plan)
	if timeline == nil {
		return progress.Summary{}, ErrProgressNotAvailable
	}

	fromWeek := currentWeek - 3
	if fromWeek < 1 {
		fromWeek = 1
	}
	feedback, err := s.feedbackRepo.KeyWorkoutsInWindow(ctx, planID, fromWeek, currentWeek)
	if err != nil {
		// Feedback is a quality signal, not a requirement; compute from the
		// timeline alone rather than failing the request.
		s.logger.Warn("failed to load workout feedback", "plan", planID.Hex(), "error", err)
		feedback = nil
	}

	return progress.ComputeProgress(*timeline, currentWeek, feedback, s.weeksToRace(plan, currentWeek)), nil
}

// LogFeedback appends one completion signal for a plan's workout.
func (s *planService) LogFeedback(ctx context.Context, feedback *domain.WorkoutFeedback) (primitive.ObjectID, error) {
	switch feedback.CompletionStatus {
	case domain.CompletionCompleted, domain.CompletionModified, domain.CompletionMissed:
	default:
		return primitive.NilObjectID, ErrInvalidFeedback
	}
	if feedback.WeekNumber < 1 {
		return primitive.NilObjectID, ErrInvalidWeekNumber
	}
	if _, err := s.planRepo.GetByID(ctx, feedback.PlanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrPlanNotFound
		}
		return primitive.NilObjectID, err
	}
	return s.feedbackRepo.Append(ctx, feedback)
}

// timelineFor returns the plan's stored timeline, building a default one
// from the plan span for older documents that predate timelines.
func (s *planService) timelineFor(plan *domain.PlanDocument) *domain.PhaseTimeline {
	if plan.Timeline != nil {
		return plan.Timeline
	}
	totalWeeks := planWeekCount(plan)
	if totalWeeks < 2 {
		return nil
	}
	tl := progress.BuildTimeline(totalWeeks, totalWeeks)
	return &tl
}

// weeksToRace returns how many weeks remain until the week containing the
// race date, or nil when no race date is known.
func (s *planService) weeksToRace(plan *domain.PlanDocument, currentWeek int) *int {
	if plan.RaceDate == "" || plan.StartDate == "" {
		return nil
	}
	start, err := calendar.ParseDate(plan.StartDate)
	if err != nil {
		return nil
	}
	race, err := calendar.ParseDate(plan.RaceDate)
	if err != nil {
		return nil
	}
	raceWeek := calendar.DaysBetween(calendar.MondayOf(start), race)/7 + 1
	remaining := raceWeek - currentWeek
	return &remaining
}

func planWeekCount(plan *domain.PlanDocument) int {
	if len(plan.WeeklyView) > 0 {
		return len(plan.WeeklyView)
	}
	if len(plan.LegacyPlan) > 0 {
		return len(plan.LegacyPlan)
	}
	return 0
}

// ArchiveSnapshotURL presigns a time-limited download link for the plan's
// pre-migration snapshot.
func (s *planService) ArchiveSnapshotURL(ctx context.Context, planID, requesterID primitive.ObjectID, role domain.Role) (string, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPlanNotFound
		}
		return "", err
	}
	if role != domain.RoleCoach && plan.OwnerID != requesterID {
		return "", ErrPlanNotOwned
	}
	if s.archive == nil || plan.Migration == nil || plan.Migration.ArchiveKey == "" {
		return "", ErrNoArchiveSnapshot
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, plan.Migration.ArchiveKey, storage.DefaultPresignedURLExpiry)
}

// archivePreMigrationSnapshot stores the raw document as JSON in the
// archive bucket and returns the object key, or "" on failure. Failure is
// logged and tolerated: the legacy grid is also retained inside the
// migrated document itself.
func (s *planService) archivePreMigrationSnapshot(ctx context.Context, plan *domain.PlanDocument) string {
	if s.archive == nil {
		return ""
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		s.logger.Error("failed to marshal pre-migration snapshot", "plan", plan.ID.Hex(), "error", err)
		return ""
	}
	key := path.Join("archive", plan.ID.Hex(), fmt.Sprintf("%s-%s.json", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()))
	if err := s.archive.PutDocument(ctx, key, "application/json", raw); err != nil {
		s.logger.Warn("pre-migration snapshot archive failed, continuing", "plan", plan.ID.Hex(), "error", err)
		return ""
	}
	return key
}
