package ballot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Method selects how a resolution's ballots are shaped and encoded.
type Method string

const (
	MethodYesNo          Method = "YES_NO"
	MethodMultipleChoice Method = "MULTIPLE_CHOICE"
	MethodRanking        Method = "RANKING"
)

func (m Method) Valid() bool {
	return m == MethodYesNo || m == MethodMultipleChoice || m == MethodRanking
}

// Tokens accepted by YES_NO ballots.
const (
	ChoiceYes     = "YES"
	ChoiceNo      = "NO"
	ChoiceAbstain = "ABSTAIN"
)

var (
	ErrUnknownMethod       = errors.New("unknown voting method")
	ErrInvalidChoice       = errors.New("invalid yes/no choice")
	ErrTooManyChoices      = errors.New("too many options selected")
	ErrEmptySelection      = errors.New("at least one option must be selected")
	ErrDuplicateSelection  = errors.New("option selected more than once")
	ErrDuplicateRank       = errors.New("two candidates share a rank")
	ErrInvalidRankSequence = errors.New("ranks must form a contiguous sequence starting at 1")
	ErrMalformedValue      = errors.New("malformed vote value")
)

// Ballot is the tagged union over the three vote-value encodings. The owning
// resolution's Method decides which concrete type a stored value decodes to;
// a value is never parsed without knowing the method first.
type Ballot interface {
	Method() Method
	Encode() (string, error)
}

// YesNoBallot carries one of the YES/NO/ABSTAIN tokens. It is encoded
// verbatim, not as JSON.
type YesNoBallot struct {
	Choice string
}

func (b YesNoBallot) Method() Method { return MethodYesNo }

func (b YesNoBallot) Encode() (string, error) {
	switch b.Choice {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return b.Choice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, b.Choice)
}

// ChoiceBallot carries the selected option ids of a MULTIPLE_CHOICE vote,
// order-preserving. Encoded as a JSON array.
type ChoiceBallot struct {
	OptionIDs []int64
}

func (b ChoiceBallot) Method() Method { return MethodMultipleChoice }

func (b ChoiceBallot) Encode() (string, error) {
	if len(b.OptionIDs) == 0 {
		return "", ErrEmptySelection
	}
	seen := make(map[int64]bool, len(b.OptionIDs))
	for _, id := range b.OptionIDs {
		if seen[id] {
			return "", fmt.Errorf("%w: option %d", ErrDuplicateSelection, id)
		}
		seen[id] = true
	}
	data, err := json.Marshal(b.OptionIDs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RankBallot maps candidate codes to positive ranks. The used ranks must be
// the contiguous sequence 1..k over the k ranked candidates; ranking only a
// subset of the candidates is allowed. Encoded as a JSON object.
type RankBallot struct {
	Ranks map[string]int
}

func (b RankBallot) Method() Method { return MethodRanking }

func (b RankBallot) Encode() (string, error) {
	if err := validateRanks(b.Ranks); err != nil {
		return "", err
	}
	data, err := json.Marshal(b.Ranks)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeYesNo returns the canonical vote value for a YES_NO selection.
func EncodeYesNo(choice string) (string, error) {
	return YesNoBallot{Choice: choice}.Encode()
}

// EncodeMultipleChoice returns the canonical vote value for a selection of
// option ids, enforcing the resolution's maxChoices limit.
func EncodeMultipleChoice(optionIDs []int64, maxChoices int) (string, error) {
	if maxChoices > 0 && len(optionIDs) > maxChoices {
		return "", fmt.Errorf("%w: %d selected, %d allowed", ErrTooManyChoices, len(optionIDs), maxChoices)
	}
	return ChoiceBallot{OptionIDs: optionIDs}.Encode()
}

// EncodeRanking returns the canonical vote value for a candidate ranking.
func EncodeRanking(ranks map[string]int) (string, error) {
	return RankBallot{Ranks: ranks}.Encode()
}

// Decode is the exact inverse of the per-method encoders. It re-runs full
// validation so that a value arriving pre-encoded from a client cannot slip
// a malformed ballot past the write boundary.
func Decode(method Method, value string) (Ballot, error) {
	switch method {
	case MethodYesNo:
		switch value {
		case ChoiceYes, ChoiceNo, ChoiceAbstain:
			return YesNoBallot{Choice: value}, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, value)

	case MethodMultipleChoice:
		var ids []int64
		if err := json.Unmarshal([]byte(value), &ids); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedValue, err)
		}
		if len(ids) == 0 {
			return nil, ErrEmptySelection
		}
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				return nil, fmt.Errorf("%w: option %d", ErrDuplicateSelection, id)
			}
			seen[id] = true
		}
		return ChoiceBallot{OptionIDs: ids}, nil

	case MethodRanking:
		var ranks map[string]int
		if err := json.Unmarshal([]byte(value), &ranks); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedValue, err)
		}
		if err := validateRanks(ranks); err != nil {
			return nil, err
		}
		return RankBallot{Ranks: ranks}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

func validateRanks(ranks map[string]int) error {
	if len(ranks) == 0 {
		return ErrEmptySelection
	}
	used := make([]int, 0, len(ranks))
	byRank := make(map[int]bool, len(ranks))
	for code, rank := range ranks {
		if rank < 1 {
			return fmt.Errorf("%w: rank %d for %s", ErrInvalidRankSequence, rank, code)
		}
		if byRank[rank] {
			return fmt.Errorf("%w: rank %d", ErrDuplicateRank, rank)
		}
		byRank[rank] = true
		used = append(used, rank)
	}
	sort.Ints(used)
	for i, rank := range used {
		if rank != i+1 {
			return fmt.Errorf("%w: missing rank %d", ErrInvalidRankSequence, i+1)
		}
	}
	return nil
}
