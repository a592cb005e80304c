package grading

import (
	"fmt"

	"course_api_backend/internal/model"
)

// PresetFor builds the preset of a question from its catalog rows. The question must be
// loaded with PresetAnswer, Options and MappedOptions.
func PresetFor(q *model.Question) (Preset, error) {
	if q.PresetAnswer == nil {
		return nil, fmt.Errorf("question %d has no preset answer", q.ID)
	}
	switch q.Type {
	case model.QuestionText:
		return TextPreset{Text: q.PresetAnswer.Text}, nil
	case model.QuestionBoolean:
		return BooleanPreset{Value: q.PresetAnswer.Boolean}, nil
	case model.QuestionSingle:
		return SinglePreset{Correct: correctOptions(q)}, nil
	case model.QuestionMulti:
		return MultiPreset{Correct: correctOptions(q)}, nil
	case model.QuestionMapped:
		groups := make(map[uint]uint, len(q.MappedOptions))
		for _, o := range q.MappedOptions {
			groups[o.ID] = o.GroupID
		}
		return MappedPreset{Groups: groups}, nil
	}
	return nil, fmt.Errorf("question %d has unknown type %q", q.ID, q.Type)
}

// ResponseFor builds the response variant stored in an answer row for the given question type.
// The answer must be loaded with MultiOptions and MappedAnswers.
func ResponseFor(t model.QuestionType, a *model.Answer) (Response, error) {
	switch t {
	case model.QuestionText:
		return TextResponse{Text: a.Text}, nil
	case model.QuestionBoolean:
		if a.Boolean == nil {
			return nil, fmt.Errorf("answer %d has no boolean value", a.ID)
		}
		return BooleanResponse{Value: *a.Boolean}, nil
	case model.QuestionSingle:
		var id uint
		if a.SingleOptionID != nil {
			id = *a.SingleOptionID
		}
		return SingleResponse{OptionID: id}, nil
	case model.QuestionMulti:
		ids := make([]uint, 0, len(a.MultiOptions))
		for _, o := range a.MultiOptions {
			ids = append(ids, o.ID)
		}
		return MultiResponse{OptionIDs: ids}, nil
	case model.QuestionMapped:
		pairs := make([]Pair, 0, len(a.MappedAnswers))
		for _, m := range a.MappedAnswers {
			pairs = append(pairs, Pair{OptionID: m.ValueID, GroupID: m.GroupID})
		}
		return MappedResponse{Pairs: pairs}, nil
	}
	return nil, fmt.Errorf("unknown question type %q", t)
}

// JudgeAnswer grades a stored answer row. Rows that cannot be turned into a
// response for the question's type grade as incorrect.
func JudgeAnswer(q *model.Question, a *model.Answer) bool {
	p, err := PresetFor(q)
	if err != nil {
		return false
	}
	r, err := ResponseFor(q.Type, a)
	if err != nil {
		return false
	}
	return Judge(p, r)
}

func correctOptions(q *model.Question) []uint {
	ids := make([]uint, 0, 1)
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}
