package models

// Grade is a module mark on a 0-20 scale.
type Grade struct {
	ID        int64   `json:"id" db:"id"`
	StudentID int64   `json:"etudiantId" db:"student_id"`
	Module    string  `json:"module" db:"module"`
	Value     float64 `json:"valeur" db:"valeur"`
}

// SearchFields implements listing.Record.
func (g *Grade) SearchFields() []string { return []string{g.Module} }

func (g *Grade) StatusValue() string { return "" }
func (g *Grade) KindValue() string   { return "" }

// Average returns the arithmetic mean of grades and false when there are none.
func Average(grades []*Grade) (float64, bool) {
	if len(grades) == 0 {
		return 0, false
	}
	var sum float64
	for _, g := range grades {
		sum += g.Value
	}
	return sum / float64(len(grades)), true
}
