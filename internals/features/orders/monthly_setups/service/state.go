package service

import (
	"errors"
	"fmt"
)

type Step string

const (
	StepRosterEdit        Step = "roster_edit"
	StepMealTypeSelection Step = "meal_type_selection"
	StepReview            Step = "review"
	StepSubmitted         Step = "submitted"
)

var ErrDraftTransition = errors.New("この操作は現在のステップでは実行できません")

var stepOrder = []Step{StepRosterEdit, StepMealTypeSelection, StepReview, StepSubmitted}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool { return s.index() >= 0 }

// Next: maju satu langkah. Review → Submitted hanya lewat Submit.
func (s Step) Next() (Step, error) {
	switch s {
	case StepRosterEdit:
		return StepMealTypeSelection, nil
	case StepMealTypeSelection:
		return StepReview, nil
	}
	return s, fmt.Errorf("%w: next dari %s", ErrDraftTransition, s)
}

// Back: mundur satu langkah; Submitted terminal.
func (s Step) Back() (Step, error) {
	switch s {
	case StepMealTypeSelection:
		return StepRosterEdit, nil
	case StepReview:
		return StepMealTypeSelection, nil
	}
	return s, fmt.Errorf("%w: back dari %s", ErrDraftTransition, s)
}

// Require: operasi hanya boleh di langkah tertentu
func (s Step) Require(allowed ...Step) error {
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDraftTransition, s)
}
