package filestorage

import (
	"errors"
	"io"
	"os"
	"testing"
)

func TestSaveOpenDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := ls.SaveFile("recus/Recu_Paiement_1.pdf", []byte("%PDF-1.3"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if _, err := ls.SaveFile("recus/Recu_Paiement_1.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	rc, err := ls.Open("recus/Recu_Paiement_1.pdf")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF-1.4" {
		t.Errorf("content = %q", data)
	}

	if err := ls.DeleteFile("recus/Recu_Paiement_1.pdf"); err != nil {
		t.Fatal(err)
	}
	if err := ls.DeleteFile("recus/Recu_Paiement_1.pdf"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestRejectsEscapingNames(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"../secret", "/etc/passwd", "", "a/../../b"} {
		if _, err := ls.SaveFile(name, nil); !errors.Is(err, ErrInvalidName) {
			t.Errorf("SaveFile(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}
