package usecase

import (
	"log/slog"
	"math"
	"strings"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/service/signal"
	"github.com/prepwise/ai-interview-evaluator/pkg/textx"
)

var fillerWordList = []string{"um", "uh", "like", "you know", "so", "actually", "basically", "right", "well"}

var cueLexicons = map[string][]string{
	"empathy":        {"understand", "empath", "care", "listen", "support", "help"},
	"leadership":     {"lead", "manage", "organize", "initiative", "guide", "mentor"},
	"teamwork":       {"team", "collaborate", "together", "group", "support", "cooperate"},
	"adaptability":   {"adapt", "change", "flexible", "adjust", "learn", "new"},
	"problemSolving": {"solve", "problem", "challenge", "fix", "improve", "analyze"},
	"positivity":     {"positive", "enthusiastic", "motivated", "excited", "optimistic", "happy"},
}

var positiveWords = []string{"good", "great", "excellent", "positive", "helpful", "improve", "learn", "understand",
	"enthusiastic", "motivated", "excited", "optimistic", "happy"}

var negativeWords = []string{"bad", "terrible", "hate", "difficult", "problem", "issue", "wrong", "fail", "stress"}

// AnalyzeSkills derives the four delivery sub-scores for one answer.
// Primary path is a single generation call returning four comma-
// separated integers; any missing value defaults to 5. The fallback
// performs local lexical analysis and returns diagnostics alongside the
// scores. The final return reports whether the fallback ran.
func AnalyzeSkills(ctx domain.Context, gen domain.TextGenerator, sig signal.Source, question, answer, audioRef string) (domain.SkillScores, *domain.SkillDiagnostics, bool) {
	out, err := gen.Generate(ctx, skillsPrompt(question, answer, audioRef != ""))
	if err == nil {
		scores := ai.ParseIntList(out, 4, 5)
		return domain.SkillScores{
			Communication: scores[0],
			Grammar:       scores[1],
			Attitude:      scores[2],
			SoftSkills:    scores[3],
		}.Clamp(), nil, false
	}
	slog.Warn("skill analysis failed, using lexical fallback", slog.Any("error", err))
	observability.StageFallback("skills")
	s, d := skillsFallback(answer, audioRef, sig)
	return s, d, true
}

// skillsFallback scores delivery from surface features of the text:
// filler words, sentence count and variety, cue-word tallies, and a
// simple sentiment comparison. When an audio reference exists, pace and
// pause counts come from the signal source, which is a simulated
// stand-in rather than real audio analysis.
func skillsFallback(answer, audioRef string, sig signal.Source) (domain.SkillScores, *domain.SkillDiagnostics) {
	text := strings.ToLower(strings.TrimSpace(answer))
	if text == "" {
		return domain.SkillScores{Communication: 1, Grammar: 1, Attitude: 1, SoftSkills: 1},
			&domain.SkillDiagnostics{Suggestions: []string{"No answer provided."}}
	}

	var fillers []string
	for _, w := range fillerWordList {
		if strings.Contains(text, w) {
			fillers = append(fillers, w)
		}
	}

	sentences := textx.Sentences(text)
	totalLen := 0
	firstWords := map[string]struct{}{}
	for _, s := range sentences {
		totalLen += len(s)
		if parts := strings.Fields(s); len(parts) > 0 {
			firstWords[parts[0]] = struct{}{}
		}
	}
	avgLen := 0.0
	if len(sentences) > 0 {
		avgLen = float64(totalLen) / float64(len(sentences))
	}
	variety := len(firstWords)

	base := 1.0
	if avgLen > 20 {
		base = 2.0
	}
	communication := 0.5*float64(len(sentences)) + base
	if communication > 8 {
		communication = 8
	}
	if communication < 2 {
		communication = 2
	}
	if len(fillers) > 2 {
		communication--
	}
	if variety < 2 {
		communication--
	}

	diag := &domain.SkillDiagnostics{FillerWords: fillers}
	var suggestions []string
	if audioRef != "" {
		pace := sig.PaceWPM()
		pauses := sig.Pauses()
		diag.PaceWPM = pace
		diag.Pauses = pauses
		if pace < 110 || pace > 160 {
			communication--
			suggestions = append(suggestions, "Adjust your speaking pace to a natural range (110-160 wpm).")
		}
		if pauses > 2 {
			communication--
			suggestions = append(suggestions, "Try to avoid long pauses in your speech.")
		}
	}
	if len(fillers) > 2 {
		suggestions = append(suggestions, "Reduce filler words for clearer speech.")
	}
	if variety < 2 {
		suggestions = append(suggestions, "Vary your sentence openings for more engaging delivery.")
	}
	if communication >= 7 {
		suggestions = append(suggestions, "Excellent clarity and articulation!")
	}

	cues := map[string]int{}
	totalCues := 0
	for name, lex := range cueLexicons {
		n := 0
		for _, w := range lex {
			if strings.Contains(text, w) {
				n++
			}
		}
		cues[name] = n
		totalCues += n
	}
	diag.Cues = cues

	positiveCount, negativeCount := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			positiveCount++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			negativeCount++
		}
	}
	sentiment := "neutral"
	switch {
	case positiveCount > negativeCount+1:
		sentiment = "positive"
	case negativeCount > positiveCount+1:
		sentiment = "negative"
	}
	diag.Sentiment = sentiment

	if cues["empathy"] == 0 {
		suggestions = append(suggestions, "Show more empathy in your responses.")
	}
	if cues["leadership"] == 0 {
		suggestions = append(suggestions, "Demonstrate leadership or initiative where possible.")
	}
	if cues["teamwork"] == 0 {
		suggestions = append(suggestions, "Highlight teamwork or collaboration experience.")
	}
	if cues["adaptability"] == 0 {
		suggestions = append(suggestions, "Mention adaptability or learning from change.")
	}
	if cues["problemSolving"] == 0 {
		suggestions = append(suggestions, "Describe your problem-solving approach.")
	}
	if sentiment == "negative" {
		suggestions = append(suggestions, "Try to maintain a positive tone in your answers.")
	}
	diag.Suggestions = suggestions

	structured := len(sentences) > 1 && avgLen > 10
	grammar := 4
	if structured {
		grammar = 6
	}
	if len(fillers) > 2 {
		grammar--
	}

	attitude := 5
	if sentiment == "positive" {
		attitude += 2
	} else if sentiment == "negative" {
		attitude -= 2
	}

	softSkills := 3 + totalCues
	if softSkills > 8 {
		softSkills = 8
	}
	if sentiment == "negative" && softSkills > 3 {
		softSkills--
	}

	return domain.SkillScores{
		Communication: int(math.Round(communication)),
		Grammar:       grammar,
		Attitude:      attitude,
		SoftSkills:    softSkills,
	}.Clamp(), diag
}
