package intake

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
)

// SubmissionRef is one submission mention found in a notification mail,
// with the place it was found in for diagnostics.
type SubmissionRef struct {
	SubmissionID string
	Source       string
}

const (
	SourceHTMLLink   = "html_link"
	SourcePlainText  = "plain_text"
	SourceAttachment = "attachment_pdf"
)

// Submission IDs are long numeric tokens; short numbers in the mail
// body (dates, postal codes, phone numbers) must not match.
var (
	reSubmissionPath  = regexp.MustCompile(`/submission/(\d{15,20})`)
	reSubmissionParam = regexp.MustCompile(`[?&](?:sid|submissionID)=(\d{15,20})`)
	reSubmissionText  = regexp.MustCompile(`(?i)(?:submission(?:[ \-#:]*id)?|eingang|antwort)[^\d]{0,10}(\d{15,20})`)
)

// ExtractSubmissionRefs scans a raw notification mail for submission
// IDs: links in the HTML part, patterns in the plain-text part and the
// attached submission PDF. Results are deduplicated in discovery order.
func ExtractSubmissionRefs(raw []byte) ([]SubmissionRef, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}

	refs := make([]SubmissionRef, 0, 2)
	if env.HTML != "" {
		refs = append(refs, scanHTML(env.HTML)...)
	}
	if env.Text != "" {
		refs = append(refs, scanText(env.Text, SourcePlainText)...)
	}
	for _, att := range env.Attachments {
		if !strings.HasSuffix(strings.ToLower(att.FileName), ".pdf") {
			continue
		}
		extra, err := scanPDF(att.Content)
		if err != nil {
			continue
		}
		refs = append(refs, extra...)
	}

	return dedupeRefs(refs), env.GetHeader("Subject"), nil
}

func scanHTML(html string) []SubmissionRef {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []SubmissionRef{}
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		for _, re := range []*regexp.Regexp{reSubmissionPath, reSubmissionParam} {
			if m := re.FindStringSubmatch(href); m != nil {
				out = append(out, SubmissionRef{SubmissionID: m[1], Source: SourceHTMLLink})
			}
		}
	})

	// Some notification templates carry the ID as visible text only.
	out = append(out, scanText(doc.Text(), SourceHTMLLink)...)
	return out
}

func scanText(text, source string) []SubmissionRef {
	out := []SubmissionRef{}
	for _, re := range []*regexp.Regexp{reSubmissionPath, reSubmissionParam, reSubmissionText} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			out = append(out, SubmissionRef{SubmissionID: m[1], Source: source})
		}
	}
	return out
}

func scanPDF(content []byte) ([]SubmissionRef, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []SubmissionRef{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, scanText(text, SourceAttachment)...)
	}
	return out, nil
}

func dedupeRefs(refs []SubmissionRef) []SubmissionRef {
	seen := map[string]struct{}{}
	out := make([]SubmissionRef, 0, len(refs))
	for _, ref := range refs {
		if _, exists := seen[ref.SubmissionID]; exists {
			continue
		}
		seen[ref.SubmissionID] = struct{}{}
		out = append(out, ref)
	}
	return out
}
