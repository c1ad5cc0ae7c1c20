// Package recommend generates templated study recommendations and
// structured study plans from a performance analysis. It is fully
// rule-based; the only nondeterminism is template selection, which
// flows through a seedable source so tests stay stable.
package recommend

import (
	"fmt"
	"math/rand"
	"sync"

	"learnpilot/internal/classifier"
)

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation types.
const (
	TypeMotivational = "motivational"
	TypeResources    = "resources"
	TypeActionPlan   = "action_plan"
	TypeStudyTips    = "study_tips"
)

// Recommendation is a single study recommendation.
type Recommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items"`
}

// Performance carries the analysis inputs the engine keys on.
type Performance struct {
	Subject          string
	QuizScore        float64
	Attendance       float64
	PerformanceLevel string
}

var motivationalTemplates = map[string][]string{
	classifier.LevelExcellent: {
		"Great job! You're excelling in this subject. Consider exploring advanced topics or helping peers.",
		"Your performance is outstanding. Challenge yourself with more complex problems.",
		"Excellent work! You might want to mentor other students or take on leadership roles.",
	},
	classifier.LevelGood: {
		"You're doing well! Focus on maintaining consistency and reviewing key concepts regularly.",
		"Good progress! Try to identify any minor gaps and practice more challenging problems.",
		"Keep up the good work! Consider joining study groups to reinforce your understanding.",
	},
	classifier.LevelAverage: {
		"You're on the right track. Focus on regular practice and review of fundamental concepts.",
		"Consider dedicating more time to this subject. Break down topics into smaller, manageable chunks.",
		"Average performance suggests room for improvement. Create a structured study schedule.",
	},
	classifier.LevelBelowAverage: {
		"Let's work on improving. Start with basics and build up gradually. Don't hesitate to ask for help.",
		"Focus on understanding core concepts first. Practice daily and track your progress.",
		"Consider seeking additional support. Review foundational material and practice regularly.",
	},
	classifier.LevelPoor: {
		"Let's create a focused improvement plan. Start with the basics and practice consistently.",
		"Don't worry, we can improve! Break down the subject into small steps and celebrate small wins.",
		"Consider one-on-one tutoring or additional resources. Focus on understanding, not just memorizing.",
	},
}

var studyResources = map[string][]string{
	"Mathematics": {
		"Khan Academy - Algebra and Calculus",
		"Practice problem sets from textbook",
		"Online math tutoring sessions",
		"Math study groups",
	},
	"Science": {
		"Interactive science simulations",
		"Laboratory practice sessions",
		"Science documentaries and videos",
		"Concept mapping exercises",
	},
	"English": {
		"Reading comprehension exercises",
		"Writing practice with feedback",
		"Grammar and vocabulary building",
		"Literature discussion groups",
	},
	"History": {
		"Timeline creation activities",
		"Primary source analysis",
		"Historical documentaries",
		"Study guides and flashcards",
	},
	"Computer Science": {
		"Coding practice platforms",
		"Project-based learning",
		"Algorithm visualization tools",
		"Peer programming sessions",
	},
}

var generalStudyTips = []string{
	"Study in 25-30 minute focused sessions (Pomodoro technique)",
	"Review material within 24 hours of learning",
	"Teach concepts to others to reinforce understanding",
	"Use active recall instead of passive reading",
	"Get adequate sleep for better memory retention",
}

// Engine builds recommendations and study plans.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an engine with the given template-selection seed.
func New(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

func (e *Engine) pick(options []string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return options[e.rng.Intn(len(options))]
}

// Generate produces the ordered recommendation list: a motivational
// message, subject resources when known, one action plan per learning
// gap, and general study tips.
func (e *Engine) Generate(perf Performance, gaps []classifier.LearningGap) []Recommendation {
	var recs []Recommendation

	level := perf.PerformanceLevel
	templates, ok := motivationalTemplates[level]
	if !ok {
		templates = motivationalTemplates[classifier.LevelAverage]
	}
	recs = append(recs, Recommendation{
		Type:        TypeMotivational,
		Priority:    PriorityHigh,
		Title:       "Learning Guidance",
		Description: e.pick(templates),
		ActionItems: []string{},
	})

	if resources, ok := studyResources[perf.Subject]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeResources,
			Priority:    PriorityMedium,
			Title:       fmt.Sprintf("Recommended Resources for %s", perf.Subject),
			Description: fmt.Sprintf("Here are some resources to help you improve in %s", perf.Subject),
			ActionItems: resources,
		})
	}

	for _, gap := range gaps {
		if rec, ok := gapRecommendation(gap); ok {
			recs = append(recs, rec)
		}
	}

	recs = append(recs, Recommendation{
		Type:        TypeStudyTips,
		Priority:    PriorityLow,
		Title:       "General Study Tips",
		Description: "Best practices for effective learning",
		ActionItems: generalStudyTips,
	})

	return recs
}

func gapRecommendation(gap classifier.LearningGap) (Recommendation, bool) {
	priority := PriorityMedium
	if gap.Severity == classifier.SeverityHigh {
		priority = PriorityHigh
	}

	switch gap.Type {
	case classifier.GapLowQuizScore:
		return Recommendation{
			Type:        TypeActionPlan,
			Priority:    priority,
			Title:       fmt.Sprintf("Improve %s Performance", gap.Subject),
			Description: gap.Description,
			ActionItems: []string{
				fmt.Sprintf("Review %s fundamentals this week", gap.Subject),
				fmt.Sprintf("Complete 3 practice quizzes on %s", gap.Subject),
				"Schedule a review session with instructor",
				"Focus on understanding concepts, not just memorization",
			},
		}, true
	case classifier.GapLowAttendance:
		return Recommendation{
			Type:        TypeActionPlan,
			Priority:    priority,
			Title:       "Improve Attendance",
			Description: gap.Description,
			ActionItems: []string{
				"Set reminders for class schedules",
				"Review missed class materials",
				"Connect with classmates for notes",
				"Communicate with instructors about absences",
			},
		}, true
	}
	return Recommendation{}, false
}
