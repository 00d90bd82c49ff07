package database

import "strings"

// NotAvailable replaces blank descriptive fields.
const NotAvailable = "NA"

// DetailField is one labelled value of a provider's detail view.
type DetailField struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Detail is the ordered descriptive record of one provider.
type Detail []DetailField

// Lookup finds the provider by exact name and returns its descriptive
// fields, with blank values replaced by NotAvailable. ok is false when no
// record matches.
func Lookup(name string, records []*Provider) (Detail, bool) {
	p := Find(name, records)
	if p == nil {
		return nil, false
	}
	return NewDetail(p), true
}

// Find returns the first record named name, or nil. When a name repeats,
// the first row wins, matching how stores resolve updates.
func Find(name string, records []*Provider) *Provider {
	for _, p := range records {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// NewDetail builds the detail view of a provider.
func NewDetail(p *Provider) Detail {
	d := make(Detail, 0, len(detailFields))
	for _, f := range detailFields {
		value := strings.TrimSpace(p.Value(f))
		if value == "" {
			value = NotAvailable
		}
		d = append(d, DetailField{Field: f, Value: value})
	}
	return d
}

// Get returns the value of one field, or NotAvailable.
func (d Detail) Get(f Field) string {
	for _, df := range d {
		if df.Field == f {
			return df.Value
		}
	}
	return NotAvailable
}

// Map returns the detail as a field-name keyed map.
func (d Detail) Map() map[string]string {
	m := make(map[string]string, len(d))
	for _, df := range d {
		m[string(df.Field)] = df.Value
	}
	return m
}
