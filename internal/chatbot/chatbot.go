// Package chatbot implements the educational assistant responder:
// keyword intent classification and context-aware templated replies,
// with an optional relay to an upstream LLM endpoint. When the relay
// is unavailable the templated path always answers.
package chatbot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"learnpilot/internal/classifier"
)

// Recognized intents.
const (
	IntentPerformance    = "performance_inquiry"
	IntentStudyHelp      = "study_help"
	IntentMotivation     = "motivation"
	IntentRecommendation = "recommendation_request"
	IntentGeneral        = "general"
)

// SystemPrompt frames the assistant's role for LLM relay calls.
const SystemPrompt = `You are an AI educational assistant helping students improve learning outcomes based on academic performance data.
Your role is to:
- Explain weak topics clearly and supportively
- Suggest what to study next based on performance analysis
- Provide motivation and encouragement
- Never provide medical or psychological diagnosis
- Focus on educational guidance only
- Be empathetic and understanding`

// StudentContext is the performance context a reply can draw on.
type StudentContext struct {
	StudentID        string  `json:"student_id,omitempty"`
	Subject          string  `json:"subject,omitempty"`
	QuizScore        float64 `json:"quiz_score,omitempty"`
	Attendance       float64 `json:"attendance,omitempty"`
	PerformanceLevel string  `json:"performance_level,omitempty"`
}

// Reply is one chatbot answer.
type Reply struct {
	Response    string `json:"response"`
	Intent      string `json:"intent"`
	ContextUsed bool   `json:"context_used"`
}

var intentKeywords = map[string][]string{
	IntentPerformance:    {"score", "performance", "grade", "result", "how am i doing"},
	IntentStudyHelp:      {"study", "learn", "practice", "help", "understand", "topic"},
	IntentMotivation:     {"motivate", "encourage", "discouraged", "difficult", "hard"},
	IntentRecommendation: {"recommend", "suggest", "what should", "next", "plan"},
}

// Keyword groups checked in a fixed order so overlapping messages
// classify the same way every time.
var intentOrder = []string{IntentPerformance, IntentStudyHelp, IntentMotivation, IntentRecommendation}

var performanceTemplates = []string{
	"Based on your recent performance in %s, I can see you scored %v%%. This places you in the %s category. Let's work together to improve this!",
	"Your %s quiz shows a score of %v%%, which is %s. I'm here to help you understand the concepts better.",
	"Looking at your %s performance (%v%%), you're at %s level. We can definitely improve this with focused practice.",
}

var encouragements = []string{
	"Remember, every expert was once a beginner. You're making progress!",
	"Learning is a journey, not a destination. Keep going!",
	"It's okay to struggle - that's how we grow. I believe in you!",
	"Small steps lead to big improvements. You've got this!",
}

// Bot generates replies. Template selection uses a seedable source.
type Bot struct {
	mu  sync.Mutex
	rng *rand.Rand
	llm *LLMClient
}

// New creates a bot. llm may be nil to disable the upstream relay.
func New(seed int64, llm *LLMClient) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed)), llm: llm}
}

// HasLLM reports whether an upstream relay is configured.
func (b *Bot) HasLLM() bool { return b.llm != nil }

func (b *Bot) pick(options []string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return options[b.rng.Intn(len(options))]
}

// Respond answers a user message. The second return value reports
// whether the upstream LLM produced the response; false with a
// configured relay means the templated fallback answered.
func (b *Bot) Respond(ctx context.Context, message string, sc *StudentContext) (Reply, bool) {
	intent := ClassifyIntent(message)

	if b.llm != nil {
		contextStr := ""
		if sc != nil {
			contextStr = FormatContext(*sc)
		}
		answer, err := b.llm.Complete(ctx, SystemPrompt, contextStr, message)
		if err == nil {
			return Reply{Response: answer, Intent: intent, ContextUsed: sc != nil}, true
		}
		log.Warn().Err(err).Msg("LLM relay failed, falling back to templates")
	}

	var response string
	switch {
	case intent == IntentPerformance && sc != nil:
		response = b.performanceReply(*sc)
	case intent == IntentStudyHelp && sc != nil:
		response = b.studyHelpReply(*sc)
	case intent == IntentMotivation:
		response = b.motivationReply()
	case intent == IntentRecommendation && sc != nil:
		response = b.recommendationReply(*sc)
	default:
		response = b.generalReply(sc)
	}

	return Reply{Response: response, Intent: intent, ContextUsed: sc != nil}, false
}

// ClassifyIntent maps a message to an intent via keyword matching.
func ClassifyIntent(message string) string {
	lower := strings.ToLower(message)
	for _, intent := range intentOrder {
		for _, keyword := range intentKeywords[intent] {
			if strings.Contains(lower, keyword) {
				return intent
			}
		}
	}
	return IntentGeneral
}

func (b *Bot) performanceReply(sc StudentContext) string {
	subject := sc.Subject
	if subject == "" {
		subject = "your subjects"
	}
	level := sc.PerformanceLevel
	if level == "" {
		level = classifier.LevelAverage
	}
	template := b.pick(performanceTemplates)
	return fmt.Sprintf(template, subject, sc.QuizScore, level) + "\n\n" + b.pick(encouragements)
}

func (b *Bot) studyHelpReply(sc StudentContext) string {
	subject := sc.Subject
	if subject == "" {
		subject = "the subject"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I'm here to help you with %s! ", subject)
	if sc.PerformanceLevel == classifier.LevelBelowAverage || sc.PerformanceLevel == classifier.LevelPoor {
		sb.WriteString("Let's start with the fundamentals. I recommend reviewing the basic concepts first, then gradually moving to more complex topics. ")
		sb.WriteString("Would you like me to suggest specific study resources or create a study plan?")
	} else {
		sb.WriteString("You're doing well! To improve further, I suggest practicing more challenging problems and exploring advanced topics. ")
		sb.WriteString("What specific area would you like help with?")
	}
	return sb.String()
}

func (b *Bot) motivationReply() string {
	var sb strings.Builder
	sb.WriteString(b.pick(encouragements))
	sb.WriteString("\n\n")
	sb.WriteString("Remember that learning takes time and effort. Every small step forward is progress. ")
	sb.WriteString("If you're feeling stuck, try breaking down your goals into smaller, manageable tasks. ")
	sb.WriteString("You've got this!")
	return sb.String()
}

func (b *Bot) recommendationReply(sc StudentContext) string {
	subject := sc.Subject
	if subject == "" {
		subject = "your studies"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on your performance in %s, here's what I recommend:\n\n", subject)
	switch sc.PerformanceLevel {
	case classifier.LevelBelowAverage, classifier.LevelPoor:
		sb.WriteString("1. Review fundamental concepts - make sure you understand the basics\n")
		sb.WriteString("2. Practice regularly - consistency is key\n")
		sb.WriteString("3. Seek help when needed - don't hesitate to ask questions\n")
		sb.WriteString("4. Track your progress - celebrate small wins\n")
	case classifier.LevelAverage:
		sb.WriteString("1. Focus on areas where you can improve\n")
		sb.WriteString("2. Challenge yourself with more difficult problems\n")
		sb.WriteString("3. Join study groups to reinforce learning\n")
		sb.WriteString("4. Review and practice regularly\n")
	default:
		sb.WriteString("1. Explore advanced topics to deepen understanding\n")
		sb.WriteString("2. Help others learn - teaching reinforces your knowledge\n")
		sb.WriteString("3. Take on challenging projects\n")
		sb.WriteString("4. Maintain your excellent performance\n")
	}
	return sb.String()
}

func (b *Bot) generalReply(sc *StudentContext) string {
	var sb strings.Builder
	sb.WriteString("I'm here to help you with your learning journey! ")
	if sc != nil && sc.Subject != "" {
		fmt.Fprintf(&sb, "I can see you're working on %s. ", sc.Subject)
	}
	sb.WriteString("I can help you with:\n")
	sb.WriteString("- Understanding your performance\n")
	sb.WriteString("- Creating study plans\n")
	sb.WriteString("- Recommending resources\n")
	sb.WriteString("- Providing motivation and support\n\n")
	sb.WriteString("What would you like to know?")
	return sb.String()
}

// FormatContext renders a student context for LLM relay calls.
func FormatContext(sc StudentContext) string {
	var sb strings.Builder
	sb.WriteString("Student Performance Context:\n")
	fmt.Fprintf(&sb, "- Subject: %s\n", orNA(sc.Subject))
	fmt.Fprintf(&sb, "- Quiz Score: %v%%\n", sc.QuizScore)
	fmt.Fprintf(&sb, "- Performance Level: %s\n", orNA(sc.PerformanceLevel))
	fmt.Fprintf(&sb, "- Attendance: %v%%\n", sc.Attendance)
	return sb.String()
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
