package enums

// ReconcileWarning tags non-fatal issues discovered while linking
// collections to orders. Warnings ride along with results instead of
// aborting the batch.
type ReconcileWarning string

const (
	WarningMissingAccountModel ReconcileWarning = "missing_account_model"
	WarningAmbiguousTrackingID ReconcileWarning = "ambiguous_tracking_id"
)

// String implements fmt.Stringer.
func (w ReconcileWarning) String() string {
	return string(w)
}

// IsValid reports whether the value is a known ReconcileWarning.
func (w ReconcileWarning) IsValid() bool {
	return w == WarningMissingAccountModel || w == WarningAmbiguousTrackingID
}
