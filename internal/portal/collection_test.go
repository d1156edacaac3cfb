package portal

import (
	"context"
	"errors"
	"testing"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/listing"
)

func TestCollectionReload(t *testing.T) {
	students := []*models.Student{
		{ID: 1, LastName: "Dupont", FirstName: "Jean", CodeApogee: 2001},
		{ID: 2, LastName: "El Amrani", FirstName: "Salma", CodeApogee: 2002},
	}
	fail := false
	c := NewCollection(func(context.Context) ([]*models.Student, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return students, nil
	}, "Erreur lors du chargement des étudiants.")
	ctx := context.Background()

	snap, err := c.Reload(ctx)
	if err != nil || snap.Len() != 2 {
		t.Fatalf("Reload = %d, %v", snap.Len(), err)
	}
	if c.Loading() || c.Error() != "" {
		t.Errorf("loading %v, error %q", c.Loading(), c.Error())
	}

	got := c.Filtered(listing.Criteria{Search: "dup"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("search dup = %v", got)
	}
	if got := c.Filtered(listing.Criteria{Search: "2002"}); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("search by code = %v", got)
	}

	items := snap.Items()
	items[0] = nil
	if c.Snapshot().Items()[0] == nil {
		t.Error("snapshot shares its backing array")
	}

	fail = true
	if _, err := c.Reload(ctx); err == nil {
		t.Fatal("failed fetch returned no error")
	}
	if c.Snapshot().Len() != 0 {
		t.Error("failed fetch kept stale records")
	}
	if c.Error() != "Erreur lors du chargement des étudiants." {
		t.Errorf("Error() = %q", c.Error())
	}

	fail = false
	if err := c.Refetch(ctx); err != nil || c.Error() != "" {
		t.Errorf("Refetch = %v, banner %q", err, c.Error())
	}
}

func TestCollectionStatusAndKindFilters(t *testing.T) {
	records := []*models.Payment{
		{ID: 1, Type: models.PaymentInsurance, Status: models.PaymentPaid},
		{ID: 2, Type: models.PaymentTuition, Status: models.PaymentUnpaid},
		{ID: 3, Type: models.PaymentInsurance, Status: models.PaymentUnpaid},
	}
	c := NewCollection(func(context.Context) ([]*models.Payment, error) { return records, nil }, "")
	if _, err := c.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		criteria listing.Criteria
		want     []int64
	}{
		{"all", listing.Criteria{Status: listing.All, Kind: listing.All}, []int64{1, 2, 3}},
		{"status", listing.Criteria{Status: "NON_PAYE"}, []int64{2, 3}},
		{"status and kind", listing.Criteria{Status: "NON_PAYE", Kind: "ASSURANCE"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Filtered(tt.criteria)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.ID != tt.want[i] {
					t.Errorf("record %d = %d, want %d", i, p.ID, tt.want[i])
				}
			}
		})
	}
}
