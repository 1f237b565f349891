// Package forms validates submitted form values against declarative
// per-page schemas before any upstream call is made. Validation is
// synchronous; when it fails the action handler never fires and each
// failing field carries its own message.
package forms

import (
	"net/mail"
	"net/url"
)

// Rule checks one value, returning an error message or "". Rules see
// the whole form so cross-field checks (password confirmation) can
// compare against sibling values.
type Rule func(value string, form url.Values) string

type Field struct {
	Name  string
	Rules []Rule
}

type Schema struct {
	Fields []Field
}

// Errors maps field name to the first failing rule's message.
type Errors map[string]string

// Validate runs every field's rules in order, keeping the first
// failure per field. A nil result means the form may be submitted.
func (s Schema) Validate(form url.Values) Errors {
	var errs Errors
	for _, field := range s.Fields {
		value := form.Get(field.Name)
		for _, rule := range field.Rules {
			if msg := rule(value, form); msg != "" {
				if errs == nil {
					errs = make(Errors)
				}
				errs[field.Name] = msg
				break
			}
		}
	}
	return errs
}

func Required(msg string) Rule {
	return func(value string, _ url.Values) string {
		if value == "" {
			return msg
		}
		return ""
	}
}

// Email checks address shape. Empty values pass; Required owns those.
func Email(msg string) Rule {
	return func(value string, _ url.Values) string {
		if value == "" {
			return ""
		}
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return msg
		}
		return ""
	}
}

func MinLen(n int, msg string) Rule {
	return func(value string, _ url.Values) string {
		if value != "" && len(value) < n {
			return msg
		}
		return ""
	}
}

func MaxLen(n int, msg string) Rule {
	return func(value string, _ url.Values) string {
		if len(value) > n {
			return msg
		}
		return ""
	}
}

// EqualTo compares against another field's value. The error attaches
// to the field carrying the rule, so a confirmation mismatch blames
// the confirmation input, not the original.
func EqualTo(other, msg string) Rule {
	return func(value string, form url.Values) string {
		if value != form.Get(other) {
			return msg
		}
		return ""
	}
}
