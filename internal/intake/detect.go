package intake

import "strings"

type DetectResult struct {
	IsNotification bool
	Score          float64
	Reason         string
}

var notifyKeywords = []string{"jotform", "neue antwort", "new submission", "formular", "umzugsanfrage"}

// DetectNotification scores whether a mail looks like a form
// notification before the expensive extraction runs. A found submission
// reference is decisive on its own.
func DetectNotification(subject, sender string, refs []SubmissionRef) DetectResult {
	subject = strings.ToLower(subject)
	sender = strings.ToLower(sender)

	score := 0.0
	if len(refs) > 0 {
		score += 0.6
	}
	if strings.Contains(sender, "jotform") {
		score += 0.4
	}
	for _, kw := range notifyKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
	}
	if score > 1 {
		score = 1
	}

	ok := score >= 0.45
	reason := "rules_negative"
	if ok {
		reason = "rules_positive"
	}
	return DetectResult{IsNotification: ok, Score: score, Reason: reason}
}
