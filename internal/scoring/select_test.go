package scoring

import "testing"

func TestSelectTopN(t *testing.T) {
	scored := []ScoredCandidate{
		{Score: 40, Candidate: Candidate{ID: 1}},
		{Score: 80, Candidate: Candidate{ID: 2}},
		{Score: 60, Candidate: Candidate{ID: 3}},
	}

	top := SelectTopN(scored, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(top))
	}
	if top[0].Candidate.ID != 2 || top[1].Candidate.ID != 3 {
		t.Errorf("expected candidates [2 3], got [%d %d]", top[0].Candidate.ID, top[1].Candidate.ID)
	}
}

func TestSelectTopNStableTies(t *testing.T) {
	scored := []ScoredCandidate{
		{Score: 50, Candidate: Candidate{ID: 1}},
		{Score: 50, Candidate: Candidate{ID: 2}},
		{Score: 50, Candidate: Candidate{ID: 3}},
	}

	top := SelectTopN(scored, 3)
	for i, want := range []int64{1, 2, 3} {
		if top[i].Candidate.ID != want {
			t.Errorf("position %d: expected candidate %d, got %d", i, want, top[i].Candidate.ID)
		}
	}
}

func TestSelectTopNDoesNotModifyInput(t *testing.T) {
	scored := []ScoredCandidate{
		{Score: 10, Candidate: Candidate{ID: 1}},
		{Score: 90, Candidate: Candidate{ID: 2}},
	}

	_ = SelectTopN(scored, 1)
	if scored[0].Candidate.ID != 1 || scored[1].Candidate.ID != 2 {
		t.Errorf("input slice was reordered: [%d %d]", scored[0].Candidate.ID, scored[1].Candidate.ID)
	}
}

func TestSelectTopNShortInput(t *testing.T) {
	scored := []ScoredCandidate{{Score: 10, Candidate: Candidate{ID: 1}}}

	top := SelectTopN(scored, 5)
	if len(top) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(top))
	}
}

func TestSelectTopNEmptyAndNegative(t *testing.T) {
	if top := SelectTopN(nil, 3); len(top) != 0 {
		t.Errorf("expected empty result for nil input, got %d", len(top))
	}

	scored := []ScoredCandidate{{Score: 10}}
	if top := SelectTopN(scored, -1); len(top) != 0 {
		t.Errorf("expected empty result for negative n, got %d", len(top))
	}
	if top := SelectTopN(scored, 0); len(top) != 0 {
		t.Errorf("expected empty result for n=0, got %d", len(top))
	}
}
