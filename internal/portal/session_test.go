package portal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ensab/scolarite/internal/app/models"
)

func TestSessionPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal", "session.yaml")

	s, err := LoadSession(path)
	if err != nil || s.Active() {
		t.Fatalf("missing file = %+v, %v", s, err)
	}

	s = &Session{Username: "admin", Token: "tok", Role: models.RoleAdmin}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if *loaded != *s || !loaded.IsAdmin() {
		t.Errorf("loaded = %+v", loaded)
	}

	loaded.Clear()
	if err := loaded.Save(path); err != nil {
		t.Fatalf("Save cleared: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cleared session left its file: %v", err)
	}
}

func TestSessionScope(t *testing.T) {
	tests := []struct {
		role    models.RoleType
		token   string
		want    string
		wantErr bool
	}{
		{models.RoleAdmin, "t", "/api/admin", false},
		{models.RoleStudent, "t", "/api/etudiant", false},
		{models.RoleStudent, "", "", true},
		{"", "t", "", true},
	}
	for _, tt := range tests {
		s := &Session{Token: tt.token, Role: tt.role}
		got, err := s.scope()
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("scope(%q, %q) = %q, %v", tt.role, tt.token, got, err)
		}
	}
}
