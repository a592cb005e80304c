// Package grading judges a user's stored answer against a question's preset answer.
//
// Presets and answers are closed sum types over the five question shapes; Judge is an
// exhaustive match, so a shape mismatch can never fall through into another branch.
package grading

import "course_api_backend/internal/model"

// Preset is the graded-against truth of one question.
type Preset interface {
	Type() model.QuestionType
	preset()
}

// Response is one user's submitted answer to one question.
type Response interface {
	Type() model.QuestionType
	response()
}

type TextPreset struct{ Text string }
type BooleanPreset struct{ Value bool }

// SinglePreset holds the correct option ids; exactly one by convention.
type SinglePreset struct{ Correct []uint }
type MultiPreset struct{ Correct []uint }

// MappedPreset maps every option of the question to its own group.
type MappedPreset struct{ Groups map[uint]uint }

func (TextPreset) Type() model.QuestionType    { return model.QuestionText }
func (BooleanPreset) Type() model.QuestionType { return model.QuestionBoolean }
func (SinglePreset) Type() model.QuestionType  { return model.QuestionSingle }
func (MultiPreset) Type() model.QuestionType   { return model.QuestionMulti }
func (MappedPreset) Type() model.QuestionType  { return model.QuestionMapped }

func (TextPreset) preset()    {}
func (BooleanPreset) preset() {}
func (SinglePreset) preset()  {}
func (MultiPreset) preset()   {}
func (MappedPreset) preset()  {}

type TextResponse struct{ Text string }
type BooleanResponse struct{ Value bool }

// SingleResponse with OptionID 0 means no option was chosen.
type SingleResponse struct{ OptionID uint }
type MultiResponse struct{ OptionIDs []uint }

type Pair struct {
	OptionID uint
	GroupID  uint
}

type MappedResponse struct{ Pairs []Pair }

func (TextResponse) Type() model.QuestionType    { return model.QuestionText }
func (BooleanResponse) Type() model.QuestionType { return model.QuestionBoolean }
func (SingleResponse) Type() model.QuestionType  { return model.QuestionSingle }
func (MultiResponse) Type() model.QuestionType   { return model.QuestionMulti }
func (MappedResponse) Type() model.QuestionType  { return model.QuestionMapped }

func (TextResponse) response()    {}
func (BooleanResponse) response() {}
func (SingleResponse) response()  {}
func (MultiResponse) response()   {}
func (MappedResponse) response()  {}

// Judge reports whether the response reproduces the preset exactly. No partial credit.
func Judge(p Preset, r Response) bool {
	if p == nil || r == nil {
		return false
	}
	switch p := p.(type) {
	case TextPreset:
		a, ok := r.(TextResponse)
		// 不做大小写和空白归一化
		return ok && a.Text == p.Text
	case BooleanPreset:
		a, ok := r.(BooleanResponse)
		return ok && a.Value == p.Value
	case SinglePreset:
		a, ok := r.(SingleResponse)
		return ok && a.OptionID != 0 && contains(p.Correct, a.OptionID)
	case MultiPreset:
		a, ok := r.(MultiResponse)
		return ok && judgeMulti(p, a)
	case MappedPreset:
		a, ok := r.(MappedResponse)
		return ok && judgeMapped(p, a)
	}
	return false
}

func judgeMulti(p MultiPreset, a MultiResponse) bool {
	correct := toSet(p.Correct)
	chosen := toSet(a.OptionIDs)
	if len(correct) == 0 || len(chosen) != len(correct) {
		return false
	}
	for id := range chosen {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}

func judgeMapped(p MappedPreset, a MappedResponse) bool {
	if len(p.Groups) == 0 || len(a.Pairs) != len(p.Groups) {
		return false
	}
	seen := make(map[uint]struct{}, len(a.Pairs))
	for _, pair := range a.Pairs {
		if _, dup := seen[pair.OptionID]; dup {
			return false
		}
		seen[pair.OptionID] = struct{}{}

		group, ok := p.Groups[pair.OptionID]
		if !ok || group != pair.GroupID {
			return false
		}
	}
	return true
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
