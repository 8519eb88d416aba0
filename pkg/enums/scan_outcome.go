package enums

// ScanOutcome is the result variant of a return-scan submission. A
// duplicate is an expected, frequent case and deliberately not an error.
type ScanOutcome string

const (
	ScanOutcomeInserted  ScanOutcome = "inserted"
	ScanOutcomeDuplicate ScanOutcome = "duplicate"
)

// String implements fmt.Stringer.
func (s ScanOutcome) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScanOutcome.
func (s ScanOutcome) IsValid() bool {
	return s == ScanOutcomeInserted || s == ScanOutcomeDuplicate
}
