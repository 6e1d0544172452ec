package jotform

import (
	"encoding/json"
	"testing"

	"umzug/internal"
)

const sampleSubmissionJSON = `{
  "id": "6001",
  "form_id": "230000000000000",
  "created_at": "2026-08-30 10:00:00",
  "answers": {
    "1": {"name": "name", "order": "1", "answer": {"prefix": "Frau", "first": "Erika", "last": "Muster"}},
    "2": {"name": "email7", "order": "2", "answer": "erika@example.com"},
    "3": {"name": "typeA", "order": "4", "answer": "R-2002"},
    "4": {"name": "unanswered", "order": "5", "answer": ""},
    "5": {"name": "numericOrder", "order": 6, "answer": "x"},
    "6": {"name": "noOrder", "answer": "y"}
  }
}`

func TestToAnswers(t *testing.T) {
	var sub Submission
	if err := json.Unmarshal([]byte(sampleSubmissionJSON), &sub); err != nil {
		t.Fatal(err)
	}

	answers := sub.ToAnswers()
	byName := map[string]internal.Answer{}
	for _, a := range answers {
		byName[a.Name] = a
	}

	if _, ok := byName["noOrder"]; ok {
		t.Fatal("answers without an order index cannot be positioned")
	}
	if byName["numericOrder"].Order != 6 {
		t.Fatalf("numeric order: %+v", byName["numericOrder"])
	}
	if byName["email7"].Order != 2 || byName["email7"].String() != "erika@example.com" {
		t.Fatalf("email answer: %+v", byName["email7"])
	}
}

func TestToRow(t *testing.T) {
	var sub Submission
	if err := json.Unmarshal([]byte(sampleSubmissionJSON), &sub); err != nil {
		t.Fatal(err)
	}

	row, err := sub.ToRow()
	if err != nil {
		t.Fatal(err)
	}
	if row.ID != "6001" || row.Status != "fetched" {
		t.Fatalf("row: %+v", row)
	}
	if row.Email != "erika@example.com" || row.OrderID != "R-2002" {
		t.Fatalf("summary fields: %+v", row)
	}
	if row.Name != "Frau Erika Muster" {
		t.Fatalf("name=%q", row.Name)
	}

	// The stored stream is normalized: the empty answer is gone and the
	// remainder round-trips.
	var answers []internal.Answer
	if err := json.Unmarshal([]byte(row.AnswersJSON), &answers); err != nil {
		t.Fatal(err)
	}
	for _, a := range answers {
		if a.Name == "unanswered" {
			t.Fatal("unanswered entries must not be stored")
		}
	}
	if len(answers) != 4 {
		t.Fatalf("answers: %+v", answers)
	}
}
