package registration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scriptink/writofest-api/internal/models"
)

// BranchOther is the branch choice that defers to the free-text override.
const BranchOther = "Other"

// EventSeparator joins multi-selected events into the stored string.
const EventSeparator = ", "

// Aliases are checked in order; the first key present in the payload wins.
// Events skip aliases that carry no event names.
var (
	usnKeys            = []string{"usn", "identifier"}
	collegeKeys        = []string{"college", "institution"}
	courseKeys         = []string{"course", "program"}
	branchKeys         = []string{"branch", "department"}
	branchOverrideKeys = []string{"otherBranch", "other_branch", "branchOther"}
	eventsKeys         = []string{"events", "events[]", "event"}
	referrerKeys       = []string{"referrerCode", "referrer_code", "referralCode"}
)

// Submission is a normalized registration form.
type Submission struct {
	Usn          string
	Name         string
	Email        string
	Phone        string
	College      string
	Course       string
	Branch       string
	Year         string
	Events       string
	Message      string
	ReferrerCode string
}

// SubmissionFromPayload resolves field aliases and normalizes a decoded JSON
// body. Scalar fields are trimmed. Events may be a string or an array; event
// names are kept verbatim and arrays are joined with ", ". A branch of "Other"
// is replaced by the override field.
func SubmissionFromPayload(payload map[string]any) Submission {
	s := Submission{
		Usn:          scalar(payload, usnKeys...),
		Name:         scalar(payload, "name"),
		Email:        scalar(payload, "email"),
		Phone:        scalar(payload, "phone"),
		College:      scalar(payload, collegeKeys...),
		Course:       scalar(payload, courseKeys...),
		Branch:       scalar(payload, branchKeys...),
		Year:         scalar(payload, "year"),
		Events:       strings.Join(eventList(payload), EventSeparator),
		Message:      scalar(payload, "message"),
		ReferrerCode: scalar(payload, referrerKeys...),
	}
	s.Branch = resolveBranch(s.Branch, scalar(payload, branchOverrideKeys...))
	return s
}

// resolveBranch never yields the sentinel itself: with no override the branch
// is left empty so a schema requiring it rejects the submission.
func resolveBranch(branch, override string) string {
	if !strings.EqualFold(branch, BranchOther) {
		return branch
	}
	return override
}

// Value returns the normalized value of a field.
func (s Submission) Value(f Field) string {
	switch f {
	case FieldUsn:
		return s.Usn
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldPhone:
		return s.Phone
	case FieldCollege:
		return s.College
	case FieldCourse:
		return s.Course
	case FieldBranch:
		return s.Branch
	case FieldYear:
		return s.Year
	case FieldEvents:
		return s.Events
	case FieldMessage:
		return s.Message
	case FieldReferrerCode:
		return s.ReferrerCode
	}
	return ""
}

// Missing lists the required fields that are empty, in schema order.
func (s Submission) Missing(required []Field) []Field {
	var missing []Field
	for _, f := range required {
		if strings.TrimSpace(s.Value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Fields returns the mutable columns of the stored record.
func (s Submission) Fields() models.RegistrationFields {
	return models.RegistrationFields{
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		College:      s.College,
		Course:       s.Course,
		Branch:       s.Branch,
		Year:         s.Year,
		Events:       s.Events,
		Message:      s.Message,
		ReferrerCode: s.ReferrerCode,
	}
}

// Registration builds a new record for insertion.
func (s Submission) Registration() *models.Registration {
	return &models.Registration{
		Usn:                s.Usn,
		RegistrationFields: s.Fields(),
	}
}

func lookup(payload map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func scalar(payload map[string]any, keys ...string) string {
	v, ok := lookup(payload, keys...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// eventList returns the events of the first alias that yields at least one
// non-blank name, so an empty "events" does not hide a filled "event".
func eventList(payload map[string]any) []string {
	for _, k := range eventsKeys {
		if events := flattenEvents(payload[k]); len(events) > 0 {
			return events
		}
	}
	return nil
}

func flattenEvents(v any) []string {
	var raw []any
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		raw = t
	case []string:
		for _, e := range t {
			raw = append(raw, e)
		}
	default:
		raw = []any{t}
	}

	events := make([]string, 0, len(raw))
	for _, e := range raw {
		if e == nil {
			continue
		}
		if s := stringify(e); strings.TrimSpace(s) != "" {
			events = append(events, s)
		}
	}
	return events
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
