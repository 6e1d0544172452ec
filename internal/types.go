package internal

import "strings"

// Answer is one name/value pair from a form submission. Order is the
// position the field had in the form; Text carries the human-readable
// label JotForm attaches to repeated-group fields.
type Answer struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
	Value any    `json:"answer"`
	Text  string `json:"text,omitempty"`
}

// String returns the answer value when it is a plain string.
func (a Answer) String() string {
	s, _ := a.Value.(string)
	return s
}

// Furniture is one order line item. Volume is only set for the
// "weitere Möbel" sub-form; the bulky/heavy sub-forms keep 0 here and
// contribute to the order total instead.
type Furniture struct {
	Name             string  `json:"name"`
	SelectedCategory string  `json:"selectedCategory"`
	Colli            string  `json:"colli"`
	Volume           float64 `json:"volume,omitempty"`
	Bulky            bool    `json:"bulky,omitempty"`
	M100             bool    `json:"m100,omitempty"`
	Weight           string  `json:"weight,omitempty"`
}

// OrderService is a bookable service resolved against the service catalog.
type OrderService struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
	Colli string `json:"colli"`
}

type Category struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// Address describes one end of the move. HasLoft is untyped on purpose:
// the origin form maps the "Ja" answer to a bool while the destination
// form stores the raw string, and downstream consumers rely on both
// shapes.
type Address struct {
	Address         string `json:"address"`
	Floor           string `json:"floor,omitempty"`
	LiftType        string `json:"liftType,omitempty"`
	Area            string `json:"area,omitempty"`
	HasLoft         any    `json:"hasLoft,omitempty"`
	RoomsNumber     string `json:"roomsNumber,omitempty"`
	RunningDistance string `json:"runningDistance,omitempty"`
	MovementObject  string `json:"movementObject,omitempty"`
	ParkingSlot     bool   `json:"parkingSlot,omitempty"`
	Packservice     bool   `json:"packservice,omitempty"`
	IsAltbau        bool   `json:"isAltbau,omitempty"`
	Demontage       bool   `json:"demontage,omitempty"`
	Montage         bool   `json:"montage,omitempty"`
	Stockwerke      string `json:"stockwerke,omitempty"`
}

type Customer struct {
	Salutation string `json:"salutation,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	TelNumber  string `json:"telNumber,omitempty"`
	EmailCopy  string `json:"emailCopy,omitempty"`
}

// FullName joins salutation, first and last name for display.
func (c Customer) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Salutation, c.FirstName, c.LastName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// Order is the aggregate produced from one form submission.
type Order struct {
	Date          string         `json:"date,omitempty"`
	DateFrom      string         `json:"date_from,omitempty"`
	DateTo        string         `json:"date_to,omitempty"`
	Time          string         `json:"time,omitempty"`
	Images        string         `json:"images,omitempty"`
	Customer      Customer       `json:"customer"`
	From          Address        `json:"from"`
	To            Address        `json:"to"`
	Items         []Furniture    `json:"items"`
	Services      []OrderService `json:"services"`
	RID           string         `json:"rid,omitempty"`
	BoxNumber     string         `json:"boxNumber,omitempty"`
	Volume        string         `json:"volume,omitempty"`
	Text          string         `json:"text,omitempty"`
	Expensive     bool           `json:"expensive,omitempty"`
	ExpensiveText string         `json:"expensiveText,omitempty"`
	Src           string         `json:"src,omitempty"`
}

type WarningKind string

const (
	WarnMalformedAnswerBlock WarningKind = "MALFORMED_ANSWER_BLOCK"
	WarnMissingCatalogEntry  WarningKind = "MISSING_CATALOG_ENTRY"
	WarnUnresolvedService    WarningKind = "UNRESOLVED_SERVICE"
	WarnResidualAnswers      WarningKind = "RESIDUAL_ANSWERS"
)

// Warning is a non-fatal diagnostic collected while generating an order.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Answer  string      `json:"answer,omitempty"`
	Message string      `json:"message"`
}

// SubmissionRow is one fetched form submission as stored locally.
type SubmissionRow struct {
	ID          string
	FormID      string
	CreatedAt   string
	Email       string
	OrderID     string
	Name        string
	AnswersJSON string
	Status      string
}

// OrderRow is a generated order as stored locally.
type OrderRow struct {
	ID           int
	SubmissionID string
	OrderJSON    string
	Volume       string
	Status       string
	CreatedAt    string
}

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
