// Package quiz scores lesson quizzes. Grading is pure: persistence belongs to
// the caller.
package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	KindMultipleChoice = "multiple_choice"
	KindTrueFalse      = "true_false"
	KindShortAnswer    = "short_answer"
	KindMultipleSelect = "multiple_select"

	DefaultPassingScore = 70.0
)

// Values is an answer or answer key. It decodes from either a JSON string or
// an array of strings.
type Values []string

func (v *Values) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" || trimmed == "" {
		*v = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*v = Values{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("answer must be a string or list of strings: %w", err)
	}
	*v = many
	return nil
}

type Question struct {
	ID          string
	Kind        string
	Key         Values
	Points      float64
	Explanation string
}

type QuestionResult struct {
	QuestionID     string   `json:"question_id"`
	Kind           string   `json:"kind"`
	Given          []string `json:"given"`
	Correct        bool     `json:"correct"`
	PointsEarned   float64  `json:"points_earned"`
	PointsPossible float64  `json:"points_possible"`
	Explanation    string   `json:"explanation,omitempty"`
}

type Result struct {
	Score        float64          `json:"score"`
	EarnedPoints float64          `json:"earned_points"`
	TotalPoints  float64          `json:"total_points"`
	PassingScore float64          `json:"passing_score"`
	Passed       bool             `json:"passed"`
	Breakdown    []QuestionResult `json:"breakdown"`
}

// Grade scores answers (keyed by question ID) against the questions in the
// order given. A non-positive passingScore means DefaultPassingScore. With no
// points available the score is 0 and the quiz is failed.
func Grade(questions []Question, answers map[string]Values, passingScore float64) Result {
	if passingScore <= 0 {
		passingScore = DefaultPassingScore
	}
	res := Result{
		PassingScore: passingScore,
		Breakdown:    make([]QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		given := answers[q.ID]
		correct := matches(q.Kind, q.Key, given)
		qr := QuestionResult{
			QuestionID:     q.ID,
			Kind:           q.Kind,
			Given:          append([]string{}, given...),
			Correct:        correct,
			PointsPossible: points,
			Explanation:    q.Explanation,
		}
		if correct {
			qr.PointsEarned = points
		}
		res.TotalPoints += points
		res.EarnedPoints += qr.PointsEarned
		res.Breakdown = append(res.Breakdown, qr)
	}
	if res.TotalPoints > 0 {
		res.Score = res.EarnedPoints / res.TotalPoints * 100
		res.Passed = res.Score >= passingScore
	}
	return res
}

func matches(kind string, key, given Values) bool {
	if len(key) == 0 || len(given) == 0 {
		return false
	}
	switch kind {
	case KindShortAnswer:
		got := NormalizeShortAnswer(given[0])
		if got == "" {
			return false
		}
		for _, k := range key {
			if NormalizeShortAnswer(k) == got {
				return true
			}
		}
		return false
	case KindMultipleSelect:
		return equalSets(key, given)
	default:
		// multiple_choice, true_false and anything unrecognised: exact match.
		return strings.TrimSpace(key[0]) == strings.TrimSpace(given[0])
	}
}

// NormalizeShortAnswer lowercases, drops punctuation and symbols, and
// collapses whitespace: "It's  Fine!" -> "its fine".
func NormalizeShortAnswer(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func equalSets(a, b Values) bool {
	x, y := normalizeSet(a), normalizeSet(b)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func normalizeSet(v Values) []string {
	seen := make(map[string]struct{}, len(v))
	out := make([]string, 0, len(v))
	for _, s := range v {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
