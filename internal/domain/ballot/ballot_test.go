package ballot

import (
	"errors"
	"reflect"
	"testing"
)

func TestYesNoEncodeDecodeRoundTrip(t *testing.T) {
	for _, choice := range []string{ChoiceYes, ChoiceNo, ChoiceAbstain} {
		value, err := EncodeYesNo(choice)
		if err != nil {
			t.Fatalf("encode %s: %v", choice, err)
		}
		if value != choice {
			t.Fatalf("yes/no must encode verbatim, got %q", value)
		}
		b, err := Decode(MethodYesNo, value)
		if err != nil {
			t.Fatalf("decode %s: %v", choice, err)
		}
		if b.(YesNoBallot).Choice != choice {
			t.Fatalf("round trip mismatch: %v", b)
		}
	}
}

func TestYesNoRejectsUnknownToken(t *testing.T) {
	if _, err := EncodeYesNo("MAYBE"); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if _, err := Decode(MethodYesNo, "yes"); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("lowercase token must be rejected, got %v", err)
	}
}

func TestMultipleChoiceRoundTrip(t *testing.T) {
	value, err := EncodeMultipleChoice([]int64{3, 1, 2}, 3)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if value != "[3,1,2]" {
		t.Fatalf("expected order-preserving JSON array, got %q", value)
	}
	b, err := Decode(MethodMultipleChoice, value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(b.(ChoiceBallot).OptionIDs, []int64{3, 1, 2}) {
		t.Fatalf("round trip mismatch: %v", b)
	}
}

func TestMultipleChoiceValidation(t *testing.T) {
	if _, err := EncodeMultipleChoice([]int64{1, 2, 3}, 2); !errors.Is(err, ErrTooManyChoices) {
		t.Fatalf("expected ErrTooManyChoices, got %v", err)
	}
	if _, err := EncodeMultipleChoice(nil, 2); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if _, err := EncodeMultipleChoice([]int64{1, 1}, 5); !errors.Is(err, ErrDuplicateSelection) {
		t.Fatalf("expected ErrDuplicateSelection, got %v", err)
	}
	if _, err := Decode(MethodMultipleChoice, "[1,1]"); !errors.Is(err, ErrDuplicateSelection) {
		t.Fatalf("decode must re-check duplicates, got %v", err)
	}
	if _, err := Decode(MethodMultipleChoice, "not json"); !errors.Is(err, ErrMalformedValue) {
		t.Fatalf("expected ErrMalformedValue, got %v", err)
	}
}

func TestRankingRoundTrip(t *testing.T) {
	ranks := map[string]int{"CAND_A": 1, "CAND_B": 3, "CAND_C": 2}
	value, err := EncodeRanking(ranks)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := Decode(MethodRanking, value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(b.(RankBallot).Ranks, ranks) {
		t.Fatalf("round trip mismatch: %v", b)
	}
}

func TestRankingPartialBallotAllowed(t *testing.T) {
	// Ranking a subset is fine as long as ranks are 1..k.
	if _, err := EncodeRanking(map[string]int{"A": 1, "B": 2}); err != nil {
		t.Fatalf("partial ranking should be valid: %v", err)
	}
}

func TestRankingValidation(t *testing.T) {
	if _, err := EncodeRanking(map[string]int{"A": 1, "B": 3}); !errors.Is(err, ErrInvalidRankSequence) {
		t.Fatalf("gap in ranks must fail, got %v", err)
	}
	if _, err := EncodeRanking(map[string]int{"A": 1, "B": 1}); !errors.Is(err, ErrDuplicateRank) {
		t.Fatalf("shared rank must fail, got %v", err)
	}
	if _, err := EncodeRanking(map[string]int{"A": 2}); !errors.Is(err, ErrInvalidRankSequence) {
		t.Fatalf("ranks must start at 1, got %v", err)
	}
	if _, err := EncodeRanking(map[string]int{"A": 0}); !errors.Is(err, ErrInvalidRankSequence) {
		t.Fatalf("non-positive rank must fail, got %v", err)
	}
	if _, err := EncodeRanking(nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("empty ranking must fail, got %v", err)
	}
}

func TestDecodeUnknownMethod(t *testing.T) {
	if _, err := Decode(Method("APPROVAL"), "YES"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}
