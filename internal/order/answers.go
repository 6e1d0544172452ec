package order

import (
	"sort"

	"umzug/internal"
)

// NormalizeAnswers drops unanswered entries and sorts the rest by the
// position the field had in the form.
func NormalizeAnswers(raw []internal.Answer) []internal.Answer {
	out := make([]internal.Answer, 0, len(raw))
	for _, a := range raw {
		if answered(a.Value) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// answered mirrors the truthiness the form frontend applied: empty
// strings, zero numbers, false, nil and empty collections all count as
// unanswered.
func answered(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case map[string]string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	default:
		return true
	}
}

// AnswerSet is the mutable working set of answers owned by a single
// Generate call. Take removes the matched answer so that whatever is
// left at the end points at form fields no step knows about.
type AnswerSet struct {
	answers []internal.Answer
}

func NewAnswerSet(answers []internal.Answer) *AnswerSet {
	s := &AnswerSet{answers: make([]internal.Answer, len(answers))}
	copy(s.answers, answers)
	return s
}

// Find returns the value of the named answer without consuming it.
func (s *AnswerSet) Find(name string) (any, bool) {
	for _, a := range s.answers {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Take returns the value of the named answer and removes it from the
// working set. A second Take for the same name returns false.
func (s *AnswerSet) Take(name string) (any, bool) {
	for i, a := range s.answers {
		if a.Name == name {
			s.answers = append(s.answers[:i], s.answers[i+1:]...)
			return a.Value, true
		}
	}
	return nil, false
}

// TakeString is Take for plain string answers; any other value shape
// yields "".
func (s *AnswerSet) TakeString(name string) string {
	v, ok := s.Take(name)
	if !ok {
		return ""
	}
	return stringValue(v)
}

// TakeMap is Take for object-shaped answers (names, dates).
func (s *AnswerSet) TakeMap(name string) map[string]string {
	v, ok := s.Take(name)
	if !ok {
		return nil
	}
	return mapValue(v)
}

func (s *AnswerSet) Len() int { return len(s.answers) }

// Remaining returns the unconsumed answers, in normalized order.
func (s *AnswerSet) Remaining() []internal.Answer {
	out := make([]internal.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func mapValue(v any) map[string]string {
	switch t := v.(type) {
	case map[string]string:
		return t
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = stringValue(val)
		}
		return out
	default:
		return nil
	}
}
