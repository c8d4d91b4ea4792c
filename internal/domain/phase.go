package domain

// PhaseID identifies a training phase in the fixed progression order.
type PhaseID string

const (
	PhaseAerobicBase  PhaseID = "aerobic_base"
	PhaseThreshold    PhaseID = "threshold"
	PhaseEconomy      PhaseID = "economy"
	PhaseRaceSpecific PhaseID = "race_specific"
)

// TrainingPhase describes one entry of the static phase catalog.
type TrainingPhase struct {
	ID                   PhaseID `bson:"id" json:"id"`
	Name                 string  `bson:"name" json:"name"`
	Purpose              string  `bson:"purpose" json:"purpose"`
	TypicalDurationWeeks int     `bson:"typicalDurationWeeks" json:"typicalDurationWeeks"`
	MaxDurationWeeks     int     `bson:"maxDurationWeeks" json:"maxDurationWeeks"`
}

// PhaseOrder is the strict progression sequence. Plans use an ordered
// subset of it depending on duration; phases never run out of this order.
var PhaseOrder = []PhaseID{PhaseAerobicBase, PhaseThreshold, PhaseEconomy, PhaseRaceSpecific}

// phaseCatalog is static coaching metadata, not user data.
var phaseCatalog = map[PhaseID]TrainingPhase{
	PhaseAerobicBase: {
		ID:                   PhaseAerobicBase,
		Name:                 "Aerobic Base",
		Purpose:              "Build aerobic capacity with easy volume and long runs",
		TypicalDurationWeeks: 4,
		MaxDurationWeeks:     8,
	},
	PhaseThreshold: {
		ID:                   PhaseThreshold,
		Name:                 "Threshold",
		Purpose:              "Raise lactate threshold with tempo and cruise intervals",
		TypicalDurationWeeks: 4,
		MaxDurationWeeks:     6,
	},
	PhaseEconomy: {
		ID:                   PhaseEconomy,
		Name:                 "Economy",
		Purpose:              "Improve running economy with intervals and strides",
		TypicalDurationWeeks: 3,
		MaxDurationWeeks:     5,
	},
	PhaseRaceSpecific: {
		ID:                   PhaseRaceSpecific,
		Name:                 "Race Specific",
		Purpose:              "Sharpen race pace and rehearse goal effort",
		TypicalDurationWeeks: 3,
		MaxDurationWeeks:     4,
	},
}

// PhaseByID looks a phase up in the static catalog.
func PhaseByID(id PhaseID) (TrainingPhase, bool) {
	p, ok := phaseCatalog[id]
	return p, ok
}

// PhaseWindow assigns one phase to an inclusive week range.
type PhaseWindow struct {
	Phase     PhaseID `bson:"phase" json:"phase"`
	WeekStart int     `bson:"weekStart" json:"weekStart"`
	WeekEnd   int     `bson:"weekEnd" json:"weekEnd"`
}

// PhaseTimeline maps plan weeks onto training phases. It is built once per
// plan from duration and weeks-to-race and consumed read-only by the
// progress engine.
type PhaseTimeline struct {
	Enabled       bool          `bson:"enabled" json:"enabled"`
	AllowedPhases []PhaseID     `bson:"allowedPhases" json:"allowedPhases"`
	Windows       []PhaseWindow `bson:"windows" json:"windows"`
}

// PhaseForWeek returns the phase active at the given week number.
func (t PhaseTimeline) PhaseForWeek(week int) (PhaseID, bool) {
	for _, w := range t.Windows {
		if week >= w.WeekStart && week <= w.WeekEnd {
			return w.Phase, true
		}
	}
	return "", false
}

// PhaseStartWeek returns the first week of the given phase, or 0 when the
// phase is not on this timeline.
func (t PhaseTimeline) PhaseStartWeek(id PhaseID) int {
	for _, w := range t.Windows {
		if w.Phase == id {
			return w.WeekStart
		}
	}
	return 0
}

// Clone returns an independent copy of the timeline.
func (t PhaseTimeline) Clone() PhaseTimeline {
	out := t
	out.AllowedPhases = append([]PhaseID(nil), t.AllowedPhases...)
	out.Windows = append([]PhaseWindow(nil), t.Windows...)
	return out
}
