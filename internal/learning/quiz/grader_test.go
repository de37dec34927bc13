package quiz

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleQuestions() []Question {
	return []Question{
		{ID: "q1", Kind: KindMultipleChoice, Key: Values{"B"}, Points: 2},
		{ID: "q2", Kind: KindTrueFalse, Key: Values{"true"}},
		{ID: "q3", Kind: KindShortAnswer, Key: Values{"its fine", "it is fine"}},
		{ID: "q4", Kind: KindMultipleSelect, Key: Values{"C", "A"}},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	res := Grade(sampleQuestions(), map[string]Values{
		"q1": {"B"},
		"q2": {"true"},
		"q3": {"It's Fine!"},
		"q4": {"A", "C"},
	}, 0)
	if res.Score != 100 || !res.Passed {
		t.Fatalf("want 100 passed, got score=%v passed=%v", res.Score, res.Passed)
	}
	if res.TotalPoints != 5 || res.EarnedPoints != 5 {
		t.Fatalf("points: earned=%v total=%v", res.EarnedPoints, res.TotalPoints)
	}
	if res.PassingScore != DefaultPassingScore {
		t.Fatalf("passing score default: got=%v", res.PassingScore)
	}
	if len(res.Breakdown) != 4 {
		t.Fatalf("breakdown len: %d", len(res.Breakdown))
	}
}

func TestGradePartial(t *testing.T) {
	res := Grade(sampleQuestions(), map[string]Values{
		"q1": {"B"},
		"q2": {"false"},
		"q3": {"no"},
		"q4": {"A"},
	}, 70)
	if res.Score != 40 {
		t.Fatalf("score: want=40 got=%v", res.Score)
	}
	if res.Passed {
		t.Fatalf("40 should not pass at 70")
	}
	if !res.Breakdown[0].Correct || res.Breakdown[1].Correct || res.Breakdown[3].Correct {
		t.Fatalf("unexpected breakdown: %+v", res.Breakdown)
	}
}

func TestGradePassAtThreshold(t *testing.T) {
	qs := []Question{
		{ID: "a", Kind: KindMultipleChoice, Key: Values{"x"}, Points: 7},
		{ID: "b", Kind: KindMultipleChoice, Key: Values{"x"}, Points: 3},
	}
	res := Grade(qs, map[string]Values{"a": {"x"}}, 70)
	if res.Score != 70 || !res.Passed {
		t.Fatalf("score equal to threshold should pass: %+v", res)
	}
}

func TestGradeEmpty(t *testing.T) {
	res := Grade(nil, nil, 70)
	if res.Score != 0 || res.Passed {
		t.Fatalf("empty quiz: want score 0 failed, got %+v", res)
	}
	if res.Breakdown == nil {
		t.Fatalf("breakdown should be an empty list, not nil")
	}
}

func TestGradeDeterministic(t *testing.T) {
	answers := map[string]Values{"q1": {"A"}, "q3": {"IT IS fine"}, "q4": {"C", "A", "A"}}
	a := Grade(sampleQuestions(), answers, 50)
	b := Grade(sampleQuestions(), answers, 50)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("grading not deterministic:\n%+v\n%+v", a, b)
	}
	if !a.Breakdown[3].Correct {
		t.Fatalf("duplicate selections should not break set equality")
	}
}

func TestNormalizeShortAnswer(t *testing.T) {
	cases := map[string]string{
		"It's Fine!":         "its fine",
		"  hello,   WORLD  ": "hello world",
		"$100":               "100",
		"...":                "",
	}
	for in, want := range cases {
		if got := NormalizeShortAnswer(in); got != want {
			t.Fatalf("NormalizeShortAnswer(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestValuesUnmarshal(t *testing.T) {
	var answers map[string]Values
	if err := json.Unmarshal([]byte(`{"a":"B","b":["A","C"],"c":null}`), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(answers["a"], Values{"B"}) || !reflect.DeepEqual(answers["b"], Values{"A", "C"}) {
		t.Fatalf("unexpected values: %#v", answers)
	}
	if answers["c"] != nil {
		t.Fatalf("null should decode to nil, got %#v", answers["c"])
	}
	var bad Values
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Fatalf("expected error for number")
	}
}
