package grading

import (
	"testing"

	"course_api_backend/internal/model"
)

func TestJudgeScalarShapes(t *testing.T) {
	tests := []struct {
		name   string
		preset Preset
		answer Response
		want   bool
	}{
		{"text exact", TextPreset{Text: "Go"}, TextResponse{Text: "Go"}, true},
		{"text case sensitive", TextPreset{Text: "Go"}, TextResponse{Text: "go"}, false},
		{"text whitespace sensitive", TextPreset{Text: "Go"}, TextResponse{Text: " Go"}, false},
		{"boolean equal", BooleanPreset{Value: false}, BooleanResponse{Value: false}, true},
		{"boolean differs", BooleanPreset{Value: true}, BooleanResponse{Value: false}, false},
		{"single correct", SinglePreset{Correct: []uint{3}}, SingleResponse{OptionID: 3}, true},
		{"single wrong", SinglePreset{Correct: []uint{3}}, SingleResponse{OptionID: 4}, false},
		{"single unanswered", SinglePreset{Correct: []uint{3}}, SingleResponse{}, false},
		{"shape mismatch", TextPreset{Text: "true"}, BooleanResponse{Value: true}, false},
		{"nil response", BooleanPreset{Value: true}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Judge(tt.preset, tt.answer); got != tt.want {
				t.Fatalf("Judge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJudgeMultiIsExactSetMatch(t *testing.T) {
	preset := MultiPreset{Correct: []uint{1, 2, 5}}

	if Judge(preset, MultiResponse{OptionIDs: []uint{1, 2}}) {
		t.Fatalf("correct subset must not pass")
	}
	if !Judge(preset, MultiResponse{OptionIDs: []uint{5, 1, 2}}) {
		t.Fatalf("exact set in another order must pass")
	}
	if Judge(preset, MultiResponse{OptionIDs: []uint{1, 2, 3}}) {
		t.Fatalf("same cardinality with a wrong option must not pass")
	}
	if Judge(preset, MultiResponse{OptionIDs: []uint{1, 2, 5, 3}}) {
		t.Fatalf("superset must not pass")
	}
	if Judge(MultiPreset{}, MultiResponse{}) {
		t.Fatalf("empty preset must not pass")
	}
}

func TestJudgeMappedIsOrderInsensitive(t *testing.T) {
	preset := MappedPreset{Groups: map[uint]uint{10: 1, 11: 1, 12: 2}}

	reordered := MappedResponse{Pairs: []Pair{{12, 2}, {10, 1}, {11, 1}}}
	if !Judge(preset, reordered) {
		t.Fatalf("all correct pairs in another order must pass")
	}

	swapped := MappedResponse{Pairs: []Pair{{10, 2}, {11, 1}, {12, 1}}}
	if Judge(preset, swapped) {
		t.Fatalf("swapped group must not pass")
	}

	partial := MappedResponse{Pairs: []Pair{{10, 1}, {12, 2}}}
	if Judge(preset, partial) {
		t.Fatalf("missing pair must not pass")
	}

	repeated := MappedResponse{Pairs: []Pair{{10, 1}, {10, 1}, {12, 2}}}
	if Judge(preset, repeated) {
		t.Fatalf("repeated option must not pass")
	}
}

func TestJudgeAnswerFromRows(t *testing.T) {
	yes := true
	boolQ := &model.Question{Type: model.QuestionBoolean, PresetAnswer: &model.PresetAnswer{Boolean: true}}
	if !JudgeAnswer(boolQ, &model.Answer{Boolean: &yes}) {
		t.Fatalf("boolean answer should pass")
	}
	if JudgeAnswer(boolQ, &model.Answer{}) {
		t.Fatalf("missing boolean value should not pass")
	}

	opt := func(id uint, correct bool) model.PresetChoosableOption {
		o := model.PresetChoosableOption{IsCorrect: correct}
		o.ID = id
		return o
	}
	multiQ := &model.Question{
		Type:         model.QuestionMulti,
		PresetAnswer: &model.PresetAnswer{},
		Options:      []model.PresetChoosableOption{opt(1, true), opt(2, false), opt(3, true)},
	}
	if !JudgeAnswer(multiQ, &model.Answer{MultiOptions: []model.PresetChoosableOption{opt(3, true), opt(1, true)}}) {
		t.Fatalf("multi answer with both correct options should pass")
	}

	mapped := func(id, group uint) model.PresetMappedOption {
		o := model.PresetMappedOption{GroupID: group}
		o.ID = id
		return o
	}
	mappedQ := &model.Question{
		Type:          model.QuestionMapped,
		PresetAnswer:  &model.PresetAnswer{},
		MappedOptions: []model.PresetMappedOption{mapped(7, 1), mapped(8, 2)},
	}
	answer := &model.Answer{MappedAnswers: []model.MappedAnswer{{ValueID: 8, GroupID: 2}, {ValueID: 7, GroupID: 1}}}
	if !JudgeAnswer(mappedQ, answer) {
		t.Fatalf("mapped answer should pass")
	}

	if JudgeAnswer(&model.Question{Type: model.QuestionText}, &model.Answer{Text: ""}) {
		t.Fatalf("question without preset must never pass")
	}
}
