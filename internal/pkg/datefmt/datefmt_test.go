package datefmt

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date", "15-03-2024", "15/03/2024"},
		{"date time keeps seconds", "15-03-2024 10:30:00", "15/03/2024 10:30:00"},
		{"iso timestamp", "2024-03-15T10:30:00", "15/03/2024 10:30:00"},
		{"iso date", "2024-03-15", "15/03/2024"},
		{"surrounding spaces", "  15-03-2024 ", "15/03/2024"},
		{"malformed passes through", "hier", "hier"},
		{"impossible day passes through", "32-01-2024", "32-01-2024"},
		{"empty", "", Missing},
		{"blank", "   ", Missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.in); got != tt.want {
				t.Errorf("Display(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Created   Date     `json:"dateCreation"`
		Processed Date     `json:"dateTraitement"`
		Confirmed DateTime `json:"dateConfirmation"`
	}

	in := payload{
		Created:   NewDate(time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)),
		Confirmed: NewDateTime(time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)),
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"dateCreation":"15-03-2024","dateTraitement":null,"dateConfirmation":"15-03-2024 10:30:00"}`
	if string(data) != want {
		t.Fatalf("marshal = %s, want %s", data, want)
	}

	var out payload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Processed.Valid {
		t.Errorf("null date decoded as valid")
	}
	if got := out.Confirmed.Display(); got != "15/03/2024 10:30:00" {
		t.Errorf("Confirmed.Display() = %q", got)
	}
	if got := out.Processed.Display(); got != Missing {
		t.Errorf("Processed.Display() = %q, want %q", got, Missing)
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestScan(t *testing.T) {
	var d DateTime
	if err := d.Scan(nil); err != nil || d.Valid {
		t.Fatalf("Scan(nil) = %v, valid=%v", err, d.Valid)
	}
	now := time.Now()
	if err := d.Scan(now); err != nil || !d.Valid || !d.Time.Equal(now) {
		t.Fatalf("Scan(time) = %v, %+v", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
