package recommend

import "github.com/google/uuid"

// WeekGoal groups the recommendations a student should work on in a
// given week.
type WeekGoal struct {
	Goal            string           `json:"goal"`
	Recommendations []Recommendation `json:"recommendations"`
}

// WeekPlan is one week of the study plan.
type WeekPlan struct {
	Week  int        `json:"week"`
	Goals []WeekGoal `json:"goals"`
}

// StudyPlan is a multi-week schedule derived from the recommendation
// list: critical gaps first, improvement areas next, then review.
type StudyPlan struct {
	PlanID        string     `json:"plan_id"`
	StudentID     string     `json:"student_id"`
	DurationWeeks int        `json:"duration_weeks"`
	WeeklyGoals   []WeekPlan `json:"weekly_goals"`
}

// DefaultPlanWeeks is the standard study-plan horizon.
const DefaultPlanWeeks = 4

// BuildStudyPlan schedules the recommendations across the given number
// of weeks. Week 1 addresses high-priority items, week 2 medium, and
// remaining weeks maintain progress.
func (e *Engine) BuildStudyPlan(studentID string, recs []Recommendation, weeks int) StudyPlan {
	if weeks <= 0 {
		weeks = DefaultPlanWeeks
	}

	var high, medium []Recommendation
	for _, r := range recs {
		switch r.Priority {
		case PriorityHigh:
			high = append(high, r)
		case PriorityMedium:
			medium = append(medium, r)
		}
	}

	plan := StudyPlan{
		PlanID:        uuid.NewString(),
		StudentID:     studentID,
		DurationWeeks: weeks,
		WeeklyGoals:   make([]WeekPlan, 0, weeks),
	}

	for week := 1; week <= weeks; week++ {
		var goal WeekGoal
		switch {
		case week == 1 && len(high) > 0:
			goal = WeekGoal{Goal: "Address critical learning gaps", Recommendations: firstN(high, 2)}
		case week == 2 && len(medium) > 0:
			goal = WeekGoal{Goal: "Focus on improvement areas", Recommendations: firstN(medium, 2)}
		default:
			goal = WeekGoal{Goal: "Maintain progress and review", Recommendations: firstN(recs, 1)}
		}
		plan.WeeklyGoals = append(plan.WeeklyGoals, WeekPlan{Week: week, Goals: []WeekGoal{goal}})
	}

	return plan
}

func firstN(recs []Recommendation, n int) []Recommendation {
	if len(recs) < n {
		n = len(recs)
	}
	out := make([]Recommendation, n)
	copy(out, recs[:n])
	return out
}
