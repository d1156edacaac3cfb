package validation

import "testing"

func TestNumericValidation(t *testing.T) {
	tests := []struct {
		name   string
		rule   *NumericValidation
		want   float64
		wantOK bool
	}{
		{"grade inside", NewNumericValidation("15.5").WithMin(GradeMin).WithMax(GradeMax), 15.5, true},
		{"grade upper bound is closed", NewNumericValidation("20").WithMin(GradeMin).WithMax(GradeMax), 20, true},
		{"grade lower bound is closed", NewNumericValidation("0").WithMin(GradeMin).WithMax(GradeMax), 0, true},
		{"grade above", NewNumericValidation("20.01").WithMin(GradeMin).WithMax(GradeMax), 20.01, false},
		{"comma decimal", NewNumericValidation("12,75").WithMin(GradeMin).WithMax(GradeMax), 12.75, true},
		{"negative amount", NewNumericValidation("-5").Positive(), -5, false},
		{"zero amount", NewNumericValidation("0").Positive(), 0, false},
		{"positive amount", NewNumericValidation("1500.00").Positive(), 1500, true},
		{"not a number", NewNumericValidation("abc").Positive(), 0, false},
		{"empty", NewNumericValidation("  ").Positive(), 0, false},
		{"integer code", NewNumericValidation("19876543").Integer().Positive(), 19876543, true},
		{"decimal code rejected", NewNumericValidation("12.5").Integer().Positive(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.Parse()
			if ok != tt.wantOK {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name string
		rule *StringValidation
		want bool
	}{
		{"required blank", NewStringValidation("   "), false},
		{"optional blank", NewStringValidation("").WithRequired(false), true},
		{"academic year", NewStringValidation("2024-2025").WithPattern(CompiledPatterns.AcademicYear), true},
		{"academic year malformed", NewStringValidation("2024/25").WithPattern(CompiledPatterns.AcademicYear), false},
		{"email", NewStringValidation("marie.dupont@ensab.ma").WithPattern(CompiledPatterns.Email), true},
		{"too long", NewStringValidation("abcdef").WithMaxLength(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlank(t *testing.T) {
	if !Blank("a", " ") {
		t.Error("Blank should report trimmed empty value")
	}
	if Blank("a", "b") {
		t.Error("Blank reported a false positive")
	}
}
