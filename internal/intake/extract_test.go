package intake

import "testing"

func TestScanText(t *testing.T) {
	text := "Neue Antwort eingegangen.\nSubmission ID: 6100000000000000001\nTel: 089 306 42 972\n"
	refs := scanText(text, SourcePlainText)
	if len(refs) != 1 {
		t.Fatalf("len=%d", len(refs))
	}
	if refs[0].SubmissionID != "6100000000000000001" {
		t.Fatalf("id=%s", refs[0].SubmissionID)
	}
}

func TestScanTextIgnoresShortNumbers(t *testing.T) {
	text := "Antwort vom 07.10.2026, PLZ 80999, Tel 017610171990"
	if refs := scanText(text, SourcePlainText); len(refs) != 0 {
		t.Fatalf("unexpected refs: %+v", refs)
	}
}

func TestScanHTMLLinks(t *testing.T) {
	html := `<html><body>
<p>Eine neue Antwort ist eingegangen.</p>
<a href="https://www.jotform.com/submission/6100000000000000001">Antwort ansehen</a>
<a href="https://www.jotform.com/edit?sid=6100000000000000002&mode=edit">Bearbeiten</a>
</body></html>`
	refs := scanHTML(html)
	if len(refs) != 2 {
		t.Fatalf("len=%d refs=%+v", len(refs), refs)
	}
	if refs[0].SubmissionID != "6100000000000000001" || refs[1].SubmissionID != "6100000000000000002" {
		t.Fatalf("refs=%+v", refs)
	}
}

func TestExtractSubmissionRefsFromRawMail(t *testing.T) {
	raw := []byte("From: JotForm <noreply@jotform.com>\r\n" +
		"To: office@example.com\r\n" +
		"Subject: Neue Antwort: Umzugsanfrage\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Antwort ansehen: https://www.jotform.com/submission/6100000000000000001\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><a href=\"https://www.jotform.com/submission/6100000000000000001\">Ansehen</a></body></html>\r\n" +
		"--b1--\r\n")

	refs, subject, err := ExtractSubmissionRefs(raw)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "Neue Antwort: Umzugsanfrage" {
		t.Fatalf("subject=%q", subject)
	}
	if len(refs) != 1 {
		t.Fatalf("expected dedupe to one ref, got %+v", refs)
	}
	if refs[0].SubmissionID != "6100000000000000001" {
		t.Fatalf("id=%s", refs[0].SubmissionID)
	}
}

func TestDetectNotification(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		sender  string
		refs    []SubmissionRef
		want    bool
	}{
		{"jotform sender", "Re: Termin", "noreply@jotform.com", nil, false},
		{"sender and subject", "Neue Antwort: Umzugsanfrage", "noreply@jotform.com", nil, true},
		{"ref alone decides", "Fwd:", "kunde@example.com", []SubmissionRef{{SubmissionID: "6100000000000000001"}}, true},
		{"plain mail", "Rückfrage zu Ihrem Angebot", "kunde@example.com", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectNotification(tt.subject, tt.sender, tt.refs)
			if got.IsNotification != tt.want {
				t.Fatalf("score=%v reason=%s", got.Score, got.Reason)
			}
		})
	}
}
