// Package database provides the provider record model and the tabular
// (sheet/CSV) codec shared by every store backend.
package database

import (
	"strings"

	"github.com/pwc-dv/dvmap/internal/intercept"
)

// Field names a column of the provider sheet, spelled as in its header row.
type Field string

const (
	FieldProvider        Field = "Provider(s)"
	FieldContact         Field = "Primary Contact Person"
	FieldDescription     Field = "Description of Services"
	FieldRecipients      Field = "Recipients"
	FieldCriteria        Field = "Criteria"
	FieldResearchBased   Field = "Research/Best Practice"
	FieldLegallyMandated Field = "Legally Mandated"
	FieldNotes           Field = "Notes"
	FieldIntercept       Field = "Intercept"
	FieldGaps            Field = "Gaps"
)

// standardColumns is the sheet layout, in column order. Intercept is the
// ninth column; stores write to it by position.
var standardColumns = []Field{
	FieldProvider,
	FieldContact,
	FieldDescription,
	FieldRecipients,
	FieldCriteria,
	FieldResearchBased,
	FieldLegallyMandated,
	FieldNotes,
	FieldIntercept,
	FieldGaps,
}

// detailFields are the descriptive fields shown for one provider.
var detailFields = []Field{
	FieldProvider,
	FieldContact,
	FieldDescription,
	FieldRecipients,
	FieldCriteria,
	FieldResearchBased,
	FieldLegallyMandated,
	FieldNotes,
	FieldGaps,
}

// StandardColumns returns the sheet header in column order.
func StandardColumns() []Field {
	return append([]Field(nil), standardColumns...)
}

// DetailFields returns the descriptive fields in display order.
func DetailFields() []Field {
	return append([]Field(nil), detailFields...)
}

// Provider is one row of the provider sheet.
type Provider struct {
	Name            string `json:"provider" yaml:"provider"`
	Contact         string `json:"primary_contact_person" yaml:"primary_contact_person"`
	Description     string `json:"description_of_services" yaml:"description_of_services"`
	Recipients      string `json:"recipients" yaml:"recipients"`
	Criteria        string `json:"criteria" yaml:"criteria"`
	ResearchBased   string `json:"research_best_practice" yaml:"research_best_practice"`
	LegallyMandated string `json:"legally_mandated" yaml:"legally_mandated"`
	Notes           string `json:"notes" yaml:"notes"`
	Gaps            string `json:"gaps" yaml:"gaps"`

	// Intercept is the raw, hand-entered stage field.
	Intercept string `json:"intercept" yaml:"intercept"`

	// Extra holds columns outside the standard layout.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewProvider creates a Provider with the given name.
func NewProvider(name string) *Provider {
	return &Provider{
		Name:  name,
		Extra: make(map[string]string),
	}
}

// Stages parses the raw Intercept field.
func (p *Provider) Stages() intercept.Set {
	return intercept.Parse(p.Intercept)
}

// Value returns the value of a standard field. Unknown fields are looked up
// in Extra.
func (p *Provider) Value(f Field) string {
	switch f {
	case FieldProvider:
		return p.Name
	case FieldContact:
		return p.Contact
	case FieldDescription:
		return p.Description
	case FieldRecipients:
		return p.Recipients
	case FieldCriteria:
		return p.Criteria
	case FieldResearchBased:
		return p.ResearchBased
	case FieldLegallyMandated:
		return p.LegallyMandated
	case FieldNotes:
		return p.Notes
	case FieldIntercept:
		return p.Intercept
	case FieldGaps:
		return p.Gaps
	default:
		return p.Extra[string(f)]
	}
}

// SetValue sets a field by name.
func (p *Provider) SetValue(f Field, value string) {
	switch f {
	case FieldProvider:
		p.Name = value
	case FieldContact:
		p.Contact = value
	case FieldDescription:
		p.Description = value
	case FieldRecipients:
		p.Recipients = value
	case FieldCriteria:
		p.Criteria = value
	case FieldResearchBased:
		p.ResearchBased = value
	case FieldLegallyMandated:
		p.LegallyMandated = value
	case FieldNotes:
		p.Notes = value
	case FieldIntercept:
		p.Intercept = value
	case FieldGaps:
		p.Gaps = value
	default:
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[string(f)] = value
	}
}

// Clone creates a deep copy of the provider.
func (p *Provider) Clone() *Provider {
	clone := *p
	clone.Extra = make(map[string]string, len(p.Extra))
	for k, v := range p.Extra {
		clone.Extra[k] = v
	}
	return &clone
}

// fieldAliases maps normalized header spellings seen in exports to fields.
var fieldAliases = map[string]Field{
	"providers":             FieldProvider,
	"provider":              FieldProvider,
	"primarycontactperson":  FieldContact,
	"primarycontact":        FieldContact,
	"contact":               FieldContact,
	"descriptionofservices": FieldDescription,
	"description":           FieldDescription,
	"recipients":            FieldRecipients,
	"criteria":              FieldCriteria,
	"researchbestpractice":  FieldResearchBased,
	"researchbased":         FieldResearchBased,
	"bestpractice":          FieldResearchBased,
	"legallymandated":       FieldLegallyMandated,
	"mandated":              FieldLegallyMandated,
	"notes":                 FieldNotes,
	"intercept":             FieldIntercept,
	"intercepts":            FieldIntercept,
	"gaps":                  FieldGaps,
}

// ParseField maps a header cell to a Field. Headers that match no standard
// field are returned verbatim (trimmed) with ok=false.
func ParseField(header string) (Field, bool) {
	if f, ok := fieldAliases[normalizeColumnName(header)]; ok {
		return f, true
	}
	return Field(strings.TrimSpace(header)), false
}

// normalizeColumnName lowercases a header and drops everything but letters
// and digits, so "Provider(s)" and "providers" compare equal.
func normalizeColumnName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
