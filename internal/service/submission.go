package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"course_api_backend/internal/grading"
	"course_api_backend/internal/model"
	"course_api_backend/internal/repository"
	"course_api_backend/internal/util"
)

// SubmitRequest 答案提交体：{"answers": [{"question": 1, "answer": ...}]}
type SubmitRequest struct {
	Answers []SubmittedAnswer `json:"answers" binding:"required,dive"`
}

// SubmittedAnswer answer 的形状由题型决定：
// text 为字符串，boolean 为布尔值，single 为选项 ID，multi 为选项 ID 数组，
// mapped 为 [{"value": 选项ID, "group": 分组ID}]，value 也可以写作 title。
type SubmittedAnswer struct {
	Question uint            `json:"question" binding:"required"`
	Answer   json.RawMessage `json:"answer" swaggertype:"object"`
}

type mappedItem struct {
	Value *uint `json:"value"`
	Title *uint `json:"title"`
	Group *uint `json:"group"`
}

type parsedAnswer struct {
	question *model.Question
	response grading.Response
}

// parseBatch 校验整批答案；任意一项不合法则整批拒绝
func parseBatch(lesson *model.Lesson, items []SubmittedAnswer) ([]parsedAnswer, error) {
	questions := make(map[uint]*model.Question, len(lesson.Questions))
	for i := range lesson.Questions {
		questions[lesson.Questions[i].ID] = &lesson.Questions[i]
	}

	parsed := make([]parsedAnswer, 0, len(items))
	for _, item := range items {
		q, ok := questions[item.Question]
		if !ok {
			return nil, fmt.Errorf("%w: question %d is not part of lesson %d", util.ErrValidation, item.Question, lesson.ID)
		}
		r, err := parseAnswer(q, item.Answer)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, parsedAnswer{question: q, response: r})
	}
	return parsed, nil
}

func parseAnswer(q *model.Question, raw json.RawMessage) (grading.Response, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: question %d has no answer", util.ErrValidation, q.ID)
	}
	shapeErr := func(want string) error {
		return fmt.Errorf("%w: question %d (%s) expects %s", util.ErrValidation, q.ID, q.Type, want)
	}

	switch q.Type {
	case model.QuestionText:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, shapeErr("a string")
		}
		return grading.TextResponse{Text: text}, nil

	case model.QuestionBoolean:
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, shapeErr("a boolean")
		}
		return grading.BooleanResponse{Value: value}, nil

	case model.QuestionSingle:
		var id uint
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, shapeErr("an option id")
		}
		if !hasOption(q, id) {
			return nil, fmt.Errorf("%w: option %d does not belong to question %d", util.ErrValidation, id, q.ID)
		}
		return grading.SingleResponse{OptionID: id}, nil

	case model.QuestionMulti:
		var ids []uint
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, shapeErr("an array of option ids")
		}
		seen := make(map[uint]bool, len(ids))
		unique := make([]uint, 0, len(ids))
		for _, id := range ids {
			if !hasOption(q, id) {
				return nil, fmt.Errorf("%w: option %d does not belong to question %d", util.ErrValidation, id, q.ID)
			}
			if !seen[id] {
				seen[id] = true
				unique = append(unique, id)
			}
		}
		return grading.MultiResponse{OptionIDs: unique}, nil

	case model.QuestionMapped:
		var items []mappedItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, shapeErr(`an array of {"value": id, "group": id}`)
		}
		seen := make(map[grading.Pair]bool, len(items))
		pairs := make([]grading.Pair, 0, len(items))
		for _, it := range items {
			value := it.Value
			if value == nil {
				value = it.Title
			}
			if value == nil || it.Group == nil {
				return nil, shapeErr(`an array of {"value": id, "group": id}`)
			}
			if !hasMappedOption(q, *value) {
				return nil, fmt.Errorf("%w: value %d does not belong to question %d", util.ErrValidation, *value, q.ID)
			}
			if !hasGroup(q, *it.Group) {
				return nil, fmt.Errorf("%w: group %d does not belong to question %d", util.ErrValidation, *it.Group, q.ID)
			}
			p := grading.Pair{OptionID: *value, GroupID: *it.Group}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
		return grading.MappedResponse{Pairs: pairs}, nil
	}
	return nil, fmt.Errorf("%w: question %d has unknown type %q", util.ErrValidation, q.ID, q.Type)
}

func hasOption(q *model.Question, id uint) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func hasMappedOption(q *model.Question, id uint) bool {
	for _, o := range q.MappedOptions {
		if o.ID == id {
			return true
		}
	}
	return false
}

func hasGroup(q *model.Question, id uint) bool {
	for _, g := range q.MappedGroups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// persistAnswers 覆盖每道题唯一的答案行；集合类答案先清空再写入
func persistAnswers(ctx context.Context, answers *repository.AnswerRepository, userID, lessonProgressID uint, items []parsedAnswer) error {
	for _, it := range items {
		a, err := answers.GetOrCreate(ctx, userID, it.question.ID, lessonProgressID)
		if err != nil {
			return err
		}
		a.LessonProgressID = lessonProgressID

		switch r := it.response.(type) {
		case grading.TextResponse:
			a.Text = r.Text
		case grading.BooleanResponse:
			v := r.Value
			a.Boolean = &v
		case grading.SingleResponse:
			id := r.OptionID
			a.SingleOptionID = &id
		case grading.MultiResponse:
			options := make([]model.PresetChoosableOption, 0, len(r.OptionIDs))
			for _, id := range r.OptionIDs {
				options = append(options, model.PresetChoosableOption{RecordModel: model.RecordModel{ID: id}})
			}
			if err := answers.ReplaceMultiOptions(ctx, a, options); err != nil {
				return err
			}
		case grading.MappedResponse:
			mapped := make([]model.MappedAnswer, 0, len(r.Pairs))
			for _, p := range r.Pairs {
				m, err := answers.GetOrCreateMappedAnswer(ctx, userID, p.OptionID, p.GroupID)
				if err != nil {
					return err
				}
				mapped = append(mapped, *m)
			}
			if err := answers.ReplaceMappedAnswers(ctx, a, mapped); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported response %T", r)
		}

		if err := answers.SaveScalars(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
