package documents

// GradeMention abbreviates the mention of one module grade.
func GradeMention(v float64) string {
	switch {
	case v >= 16:
		return "TB"
	case v >= 14:
		return "B"
	case v >= 12:
		return "AB"
	case v >= 10:
		return "P"
	default:
		return "AR"
	}
}

// MeanMention is the mention printed next to the overall mean. Means below
// 10 still read "Passable".
func MeanMention(mean float64) string {
	switch {
	case mean >= 16:
		return "Très Bien"
	case mean >= 14:
		return "Bien"
	case mean >= 12:
		return "Assez Bien"
	default:
		return "Passable"
	}
}
