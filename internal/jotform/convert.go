package jotform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"umzug/internal"
	"umzug/internal/order"
)

// Submission is the raw payload the API returns for one form
// submission. Answers are keyed by question id; field types inside are
// loose (order arrives as a string, answer as any JSON shape).
type Submission struct {
	ID        string               `json:"id"`
	FormID    string               `json:"form_id"`
	CreatedAt string               `json:"created_at"`
	Answers   map[string]rawAnswer `json:"answers"`
}

type rawAnswer struct {
	Name   string          `json:"name"`
	Order  json.RawMessage `json:"order"`
	Text   string          `json:"text"`
	Answer any             `json:"answer"`
}

// ToAnswers flattens the keyed answer map into the answer stream the
// order generator consumes. Entries without a usable order index are
// dropped; they cannot be positioned in the stream.
func (s Submission) ToAnswers() []internal.Answer {
	out := make([]internal.Answer, 0, len(s.Answers))
	for _, raw := range s.Answers {
		idx, ok := orderIndex(raw.Order)
		if !ok {
			continue
		}
		out = append(out, internal.Answer{
			Name:  raw.Name,
			Order: idx,
			Value: raw.Answer,
			Text:  raw.Text,
		})
	}
	return out
}

// ToRow builds the local submission record: normalized answers as JSON
// plus the summary fields the overview lists need.
func (s Submission) ToRow() (internal.SubmissionRow, error) {
	answers := order.NormalizeAnswers(s.ToAnswers())

	blob, err := json.Marshal(answers)
	if err != nil {
		return internal.SubmissionRow{}, fmt.Errorf("encode answers for submission %s: %w", s.ID, err)
	}

	name := findAnswerMap("name", answers)
	return internal.SubmissionRow{
		ID:          s.ID,
		FormID:      s.FormID,
		CreatedAt:   s.CreatedAt,
		Email:       findAnswerString("email7", answers),
		OrderID:     findAnswerString("typeA", answers),
		Name:        joinNonEmpty(name["prefix"], name["first"], name["last"]),
		AnswersJSON: string(blob),
		Status:      "fetched",
	}, nil
}

func orderIndex(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(asString))
		return n, err == nil
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return int(asNumber), true
	}
	return 0, false
}

func findAnswerString(name string, answers []internal.Answer) string {
	for _, a := range answers {
		if a.Name == name {
			return a.String()
		}
	}
	return ""
}

func findAnswerMap(name string, answers []internal.Answer) map[string]string {
	for _, a := range answers {
		if a.Name != name {
			continue
		}
		if m, ok := a.Value.(map[string]any); ok {
			out := make(map[string]string, len(m))
			for k, v := range m {
				if s, ok := v.(string); ok {
					out[k] = s
				}
			}
			return out
		}
	}
	return nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, " ")
}
