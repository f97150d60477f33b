package domain

// Severity levels derived from the total score.
const (
	SeverityMinimal  = "minimal"
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// SeverityScaleMax is the top of the per-question severity rating scale.
const SeverityScaleMax = 3

// Inclusive scoring bands. The theoretical max is 60 (20 severity questions
// rated 0-3), so everything from 20 up is severe.
const (
	minimalMax  = 4
	mildMax     = 9
	moderateMax = 19
)

// SeverityFor maps a total score onto its severity band.
func SeverityFor(score int) string {
	switch {
	case score <= minimalMax:
		return SeverityMinimal
	case score <= mildMax:
		return SeverityMild
	case score <= moderateMax:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}
