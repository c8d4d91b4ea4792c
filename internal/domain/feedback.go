package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionStatus is how a logged workout compared to what was scheduled.
type CompletionStatus string

const (
	CompletionCompleted CompletionStatus = "completed"
	CompletionModified  CompletionStatus = "modified"
	CompletionMissed    CompletionStatus = "missed"
)

// EffortLevel is the runner's perceived effort versus the expected effort.
type EffortLevel string

const (
	EffortEasier     EffortLevel = "easier"
	EffortAsExpected EffortLevel = "as_expected"
	EffortHarder     EffortLevel = "harder"
)

// HRMatch reports whether heart rate stayed in the target zone.
type HRMatch string

const (
	HRMatchYes    HRMatch = "yes"
	HRMatchNo     HRMatch = "no"
	HRMatchUnsure HRMatch = "unsure"
)

// WorkoutFeedback is one append-only completion signal for a scheduled
// workout. The progress engine consumes these read-only; nothing in this
// codebase mutates a logged entry.
type WorkoutFeedback struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID           primitive.ObjectID `bson:"planId" json:"planId"`
	WeekNumber       int                `bson:"weekNumber" json:"weekNumber"`
	IsKeyWorkout     bool               `bson:"isKeyWorkout" json:"isKeyWorkout"`
	CompletionStatus CompletionStatus   `bson:"completionStatus" json:"completionStatus"`
	EffortVsExpected EffortLevel        `bson:"effortVsExpected,omitempty" json:"effortVsExpected,omitempty"`
	HRMatchedTarget  HRMatch            `bson:"hrMatchedTarget,omitempty" json:"hrMatchedTarget,omitempty"`
	LoggedAt         time.Time          `bson:"loggedAt" json:"loggedAt"`
}
