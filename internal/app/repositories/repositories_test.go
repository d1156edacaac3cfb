package repositories

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ensab/scolarite/internal/pkg/listing"
)

func TestRecordFilterSQL(t *testing.T) {
	base := newBuilder().Select("p.id").From("payments p")

	tests := []struct {
		name     string
		filter   RecordFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{"no filter", RecordFilter{}, "SELECT p.id FROM payments p", nil},
		{"all is ignored", RecordFilter{Status: listing.All, Kind: "all"}, "SELECT p.id FROM payments p", nil},
		{
			"student and status",
			RecordFilter{StudentID: 4, Status: "paye"},
			"SELECT p.id FROM payments p WHERE p.student_id = $1 AND p.status = $2",
			[]interface{}{int64(4), "PAYE"},
		},
		{
			"kind",
			RecordFilter{Kind: "ASSURANCE"},
			"SELECT p.id FROM payments p WHERE p.type_paiement = $1",
			[]interface{}{"ASSURANCE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.filter.apply(base, "p", "type_paiement").ToSql()
			if err != nil {
				t.Fatal(err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs)) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestRecordFilterWithoutKindColumn(t *testing.T) {
	f := NewRecordFilter(0, listing.Criteria{Kind: "ASSURANCE", Status: "TRAITEE"})
	sql, _, err := f.apply(newBuilder().Select("c.id").From("complaints c"), "c", "").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sql, "ASSURANCE") || !strings.Contains(sql, "c.status = $1") {
		t.Errorf("sql = %q", sql)
	}
}

func TestTransitionLocksOnlyTheRecord(t *testing.T) {
	r := &PaymentRepository{sb: newBuilder()}
	sql, _, err := r.selectPayments().Suffix("FOR UPDATE OF p").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(sql, "FOR UPDATE OF p") || !strings.Contains(sql, "JOIN students s ON s.id = p.student_id") {
		t.Errorf("sql = %q", sql)
	}
}
