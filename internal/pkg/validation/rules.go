package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`

	// Academic year, e.g. 2024-2025
	AcademicYearPattern = `^\d{4}-\d{4}$`

	// Grade bounds
	GradeMin = 0.0
	GradeMax = 20.0
)

// User-facing messages shared by the server and the portal client.
const (
	MsgRequiredFields = "Veuillez remplir tous les champs."
	MsgAmount         = "Le montant doit être un nombre positif."
	MsgGrade          = "La valeur doit être un nombre entre 0 et 20."
	MsgCodeApogee     = "Le code Apogée doit être un nombre positif."
	MsgResponse       = "Veuillez saisir une réponse."
	MsgAcademicYear   = "Veuillez saisir l'année universitaire."
	MsgStudent        = "Veuillez sélectionner un étudiant."
	MsgEmail          = "L'adresse e-mail n'est pas valide."
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email        *regexp.Regexp
	AcademicYear *regexp.Regexp
}{
	Email:        regexp.MustCompile(EmailPattern),
	AcademicYear: regexp.MustCompile(AcademicYearPattern),
}

// StringValidation validates a text field
type StringValidation struct {
	Value    string
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation on the trimmed value
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)

	if value == "" {
		return !v.Required
	}

	if v.MaxLen > 0 && len([]rune(value)) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}

	return true
}

// NumericValidation validates a number typed as text
type NumericValidation struct {
	Raw     string
	Min     float64
	Max     float64
	hasMin  bool
	hasMax  bool
	strict  bool
	integer bool
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(raw string) *NumericValidation {
	return &NumericValidation{Raw: raw}
}

// WithMin sets an inclusive minimum value
func (v *NumericValidation) WithMin(min float64) *NumericValidation {
	v.Min, v.hasMin = min, true
	return v
}

// WithMax sets an inclusive maximum value
func (v *NumericValidation) WithMax(max float64) *NumericValidation {
	v.Max, v.hasMax = max, true
	return v
}

// Positive requires a value strictly greater than zero
func (v *NumericValidation) Positive() *NumericValidation {
	v.strict = true
	return v
}

// Integer requires a whole number
func (v *NumericValidation) Integer() *NumericValidation {
	v.integer = true
	return v
}

// Parse returns the parsed value and whether it satisfies every constraint.
// A comma is accepted as decimal separator.
func (v *NumericValidation) Parse() (float64, bool) {
	raw := strings.TrimSpace(v.Raw)
	if raw == "" {
		return 0, false
	}

	if v.integer {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, false
		}
		return v.check(float64(n))
	}

	f, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v.check(f)
}

func (v *NumericValidation) check(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f, false
	}
	if v.strict && f <= 0 {
		return f, false
	}
	if v.hasMin && f < v.Min {
		return f, false
	}
	if v.hasMax && f > v.Max {
		return f, false
	}
	return f, true
}

// ValidAmount reports whether amount is a strictly positive payment amount.
func ValidAmount(amount float64) bool { return amount > 0 }

// ValidGrade reports whether value lies in the closed grade interval.
func ValidGrade(value float64) bool { return value >= GradeMin && value <= GradeMax }

// ValidCodeApogee reports whether code is a usable institutional code.
func ValidCodeApogee(code int64) bool { return code > 0 }

// Blank reports whether any of the values is empty after trimming.
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
