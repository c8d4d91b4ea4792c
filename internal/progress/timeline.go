package progress

import "alcyxob/runplan/internal/domain"

// BuildTimeline assigns plan weeks to training phases. Short plans skip
// the middle phases: up to 8 weeks runs base then race-specific, up to 12
// adds threshold, longer plans use all four. Weeks are split in proportion
// to each phase's typical duration, with the final phase absorbing the
// remainder so every week of the plan lands in exactly one window.
func BuildTimeline(totalWeeks int, weeksToRace int) domain.PhaseTimeline {
	if totalWeeks < 2 {
		return domain.PhaseTimeline{Enabled: false}
	}

	var allowed []domain.PhaseID
	switch {
	case totalWeeks <= 8:
		allowed = []domain.PhaseID{domain.PhaseAerobicBase, domain.PhaseRaceSpecific}
	case totalWeeks <= 12:
		allowed = []domain.PhaseID{domain.PhaseAerobicBase, domain.PhaseThreshold, domain.PhaseRaceSpecific}
	default:
		allowed = append([]domain.PhaseID(nil), domain.PhaseOrder...)
	}

	typicalTotal := 0
	for _, id := range allowed {
		phase, _ := domain.PhaseByID(id)
		typicalTotal += phase.TypicalDurationWeeks
	}

	windows := make([]domain.PhaseWindow, 0, len(allowed))
	currentWeek := 1
	for i, id := range allowed {
		phase, _ := domain.PhaseByID(id)
		weeks := totalWeeks * phase.TypicalDurationWeeks / typicalTotal
		if weeks < 1 {
			weeks = 1
		}
		// Last phase gets the remaining weeks.
		if i == len(allowed)-1 {
			weeks = totalWeeks - currentWeek + 1
		}
		if weeks < 1 {
			weeks = 1
		}
		windows = append(windows, domain.PhaseWindow{
			Phase:     id,
			WeekStart: currentWeek,
			WeekEnd:   currentWeek + weeks - 1,
		})
		currentWeek += weeks
	}

	return domain.PhaseTimeline{
		Enabled:       true,
		AllowedPhases: allowed,
		Windows:       windows,
	}
}
