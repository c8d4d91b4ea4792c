package domain

import (
	"time"

	"alcyxob/runplan/internal/calendar"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormatVersion identifies which persisted schedule shape a plan document
// carries. The format is resolved once at the boundary so downstream code
// never re-checks optional fields.
type FormatVersion string

const (
	// FormatLegacyWeekly is the original week-indexed grid shape. Plans in
	// this format are migrated to FormatCanonicalDaily on first read.
	FormatLegacyWeekly FormatVersion = "legacy_weekly"
	// FormatCanonicalDaily is the flat, date-stamped day list that is the
	// source of truth for all current plans.
	FormatCanonicalDaily FormatVersion = "canonical_daily"
)

// DayKind classifies a schedule day.
type DayKind string

const (
	DayKindTrain DayKind = "train"
	DayKindRest  DayKind = "rest"
	DayKindRace  DayKind = "race"
)

// CalibrationTag marks a day as a calibration workout whose result feeds
// pace/effort recalibration.
type CalibrationTag struct {
	Protocol string `bson:"protocol" json:"protocol"`
	Distance string `bson:"distance,omitempty" json:"distance,omitempty"`
}

// ScheduleDay is the canonical unit of truth: one calendar day of a plan.
// Within a plan each date appears exactly once and DayOfWeek always matches
// the weekday computed from Date. Normalization and view-building never
// mutate ScheduleDay values; only explicit edit operations write new ones.
type ScheduleDay struct {
	Date           string           `bson:"date" json:"date"`
	DayOfWeek      calendar.Weekday `bson:"dayOfWeek" json:"dayOfWeek"`
	WorkoutText    string           `bson:"workoutText" json:"workoutText"`
	Tips           []string         `bson:"tips,omitempty" json:"tips,omitempty"`
	Kind           DayKind          `bson:"kind" json:"kind"`
	CalibrationTag *CalibrationTag  `bson:"calibrationTag,omitempty" json:"calibrationTag,omitempty"`
}

// DayCell is the lightweight day representation used inside week grids,
// both in the legacy stored format and in the derived weekly view.
type DayCell struct {
	Date        string   `bson:"date,omitempty" json:"date,omitempty"`
	WorkoutText string   `bson:"workoutText" json:"workoutText"`
	Tips        []string `bson:"tips,omitempty" json:"tips,omitempty"`
	Kind        DayKind  `bson:"kind,omitempty" json:"kind,omitempty"`
}

// WeekView is a disposable grid projection of the canonical day list.
// Every week holds exactly seven entries keyed Mon..Sun; dates without a
// ScheduleDay are filled with synthesized rest cells. It is rebuilt on
// every read and is never the basis for further computation.
type WeekView struct {
	WeekNumber int                          `bson:"week" json:"week"`
	Days       map[calendar.Weekday]DayCell `bson:"days" json:"days"`
}

// LegacyWeek is one row of the original week-indexed grid format. The
// stored order defines week numbering: index 0 is week 1.
type LegacyWeek struct {
	Week int                          `bson:"week" json:"week"`
	Days map[calendar.Weekday]DayCell `bson:"days" json:"days"`
}

// MigrationInfo records provenance of a legacy-to-canonical migration.
// ArchiveKey points at the pre-migration snapshot in the archive bucket;
// it is empty when the snapshot upload failed or no archive is configured.
type MigrationInfo struct {
	MigrationID    string        `bson:"migrationId" json:"migrationId"`
	MigratedAt     time.Time     `bson:"migratedAt" json:"migratedAt"`
	OriginalFormat FormatVersion `bson:"originalFormat" json:"originalFormat"`
	WeeksConverted int           `bson:"weeksConverted" json:"weeksConverted"`
	DaysGenerated  int           `bson:"daysGenerated" json:"daysGenerated"`
	ArchiveKey     string        `bson:"archiveKey,omitempty" json:"archiveKey,omitempty"`
}

// PlanDocument is the stored representation of one training plan. Days is
// the canonical source of truth (absent on legacy documents, which carry
// LegacyPlan instead); WeeklyView is a derived projection re-built from
// Days on every read. Version is an optimistic concurrency counter: every
// persisted mutation checks-and-increments it, so two concurrent
// migrations of the same plan cannot both win the write-back.
type PlanDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID       primitive.ObjectID `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	FormatVersion FormatVersion      `bson:"formatVersion,omitempty" json:"formatVersion,omitempty"`
	StartDate     string             `bson:"startDate,omitempty" json:"startDate,omitempty"`
	RaceDate      string             `bson:"raceDate,omitempty" json:"raceDate,omitempty"`
	Days          []ScheduleDay      `bson:"days,omitempty" json:"days,omitempty"`
	WeeklyView    []WeekView         `bson:"weeklyView,omitempty" json:"weeklyView,omitempty"`
	LegacyPlan    []LegacyWeek       `bson:"plan,omitempty" json:"plan,omitempty"`
	Timeline      *PhaseTimeline     `bson:"phaseTimeline,omitempty" json:"phaseTimeline,omitempty"`
	Migration     *MigrationInfo     `bson:"migration,omitempty" json:"migration,omitempty"`
	Version       int64              `bson:"version" json:"version"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ResolveFormat classifies a stored document of unknown vintage. Documents
// carrying canonical days win over a leftover legacy grid; a document with
// neither is reported as legacy with no usable payload.
func (p *PlanDocument) ResolveFormat() FormatVersion {
	if len(p.Days) > 0 {
		return FormatCanonicalDaily
	}
	return FormatLegacyWeekly
}

// IsLegacyShaped reports whether the document still needs migration: it has
// a non-empty weekly grid and no canonical day list.
func (p *PlanDocument) IsLegacyShaped() bool {
	return len(p.Days) == 0 && len(p.LegacyPlan) > 0
}

// CloneDays returns a deep copy of the canonical day list, safe to sort or
// decorate without touching the source of truth.
func CloneDays(days []ScheduleDay) []ScheduleDay {
	if days == nil {
		return nil
	}
	out := make([]ScheduleDay, len(days))
	for i, d := range days {
		out[i] = d
		if d.Tips != nil {
			out[i].Tips = append([]string(nil), d.Tips...)
		}
		if d.CalibrationTag != nil {
			tag := *d.CalibrationTag
			out[i].CalibrationTag = &tag
		}
	}
	return out
}

// Clone returns a deep copy of the document. Normalization works on a
// clone so a failure at any point leaves the caller's value untouched.
func (p *PlanDocument) Clone() *PlanDocument {
	if p == nil {
		return nil
	}
	out := *p
	out.Days = CloneDays(p.Days)
	if p.WeeklyView != nil {
		out.WeeklyView = make([]WeekView, len(p.WeeklyView))
		for i, wv := range p.WeeklyView {
			out.WeeklyView[i] = cloneWeekGrid(wv.WeekNumber, wv.Days)
		}
	}
	if p.LegacyPlan != nil {
		out.LegacyPlan = make([]LegacyWeek, len(p.LegacyPlan))
		for i, lw := range p.LegacyPlan {
			wv := cloneWeekGrid(lw.Week, lw.Days)
			out.LegacyPlan[i] = LegacyWeek{Week: wv.WeekNumber, Days: wv.Days}
		}
	}
	if p.Timeline != nil {
		tl := p.Timeline.Clone()
		out.Timeline = &tl
	}
	if p.Migration != nil {
		mig := *p.Migration
		out.Migration = &mig
	}
	return &out
}

func cloneWeekGrid(week int, days map[calendar.Weekday]DayCell) WeekView {
	out := WeekView{WeekNumber: week}
	if days != nil {
		out.Days = make(map[calendar.Weekday]DayCell, len(days))
		for wd, cell := range days {
			c := cell
			if cell.Tips != nil {
				c.Tips = append([]string(nil), cell.Tips...)
			}
			out.Days[wd] = c
		}
	}
	return out
}
