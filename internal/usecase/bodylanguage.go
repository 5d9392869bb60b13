package usecase

import (
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/service/signal"
)

// EstimateBodyLanguage returns a simulated expression/eye-contact
// estimate for an answer that carries a video reference. No real vision
// model is involved; the signal source supplies the values so tests can
// pin them. Returns nil when there is no video, never a fabricated
// estimate.
func EstimateBodyLanguage(videoRef string, sig signal.Source) *domain.BodyLanguage {
	if videoRef == "" {
		return nil
	}
	expression := sig.Expression()
	eyeContact := sig.EyeContact()
	var suggestions []string
	if !eyeContact {
		suggestions = append(suggestions, "Maintain eye contact with the camera for a more confident impression.")
	}
	switch expression {
	case "nervous":
		suggestions = append(suggestions, "Try to relax and avoid fidgeting.")
	case "distracted":
		suggestions = append(suggestions, "Focus on the interviewer and avoid looking away frequently.")
	case "smiling":
		suggestions = append(suggestions, "Great job smiling! It helps you appear confident and approachable.")
	case "confident":
		suggestions = append(suggestions, "Excellent confident body language!")
	}
	return &domain.BodyLanguage{Expression: expression, EyeContact: eyeContact, Suggestions: suggestions}
}
