package prediction

import "testing"

func TestPrediction_Validate(t *testing.T) {
	t.Parallel()

	valid := Prediction{MatchID: 1, AuthorID: "user-1", Kind: KindUser, PredictedHome: 2, PredictedAway: 0, Confidence: 70}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid prediction: %v", err)
	}

	cases := map[string]Prediction{
		"unknown kind":     {MatchID: 1, AuthorID: "a", Kind: "GUESS"},
		"missing author":   {MatchID: 1, Kind: KindModel},
		"confidence > 100": {MatchID: 1, AuthorID: "a", Kind: KindModel, Confidence: 101},
		"negative score":   {MatchID: 1, AuthorID: "a", Kind: KindModel, PredictedHome: -1},
		"missing match id": {AuthorID: "a", Kind: KindStatistical},
	}
	for name, item := range cases {
		if err := item.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestPrediction_Grade(t *testing.T) {
	t.Parallel()

	p := Prediction{PredictedHome: 2, PredictedAway: 1}
	if !p.Grade(3, 0) {
		t.Fatalf("home win prediction should be correct for 3-0")
	}
	if p.Grade(1, 1) {
		t.Fatalf("home win prediction should be wrong for a draw")
	}
}
