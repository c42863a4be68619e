package domain

import "errors"

var (
	ErrEmptySubjectID   = errors.New("empty subject id")
	ErrInvalidSubjectID = errors.New("subject id must be 11 digits")
)

var (
	ErrEmptyBatch = errors.New("batch has no subjects")
)

var (
	ErrInvalidWeights  = errors.New("factor weights must sum to 1.0")
	ErrNegativeWeight  = errors.New("factor weights must be non-negative")
	ErrEmptyRuleTable  = errors.New("severity rule table is empty")
	ErrEmptyTierTable  = errors.New("tier table is empty")
	ErrUnorderedTiers  = errors.New("tier table must be ordered by threshold")
	ErrEmptyVocabulary = errors.New("role vocabulary is empty")
)
