package pipeline

// Default values for snapshot processing. These can move to
// configuration once more than one user or source feeds the tables.
const (
	// DefaultUserID is the default user identifier for snapshots.
	DefaultUserID = "primary"

	// DefaultSourceSystem tags which site the snapshots come from.
	DefaultSourceSystem = "EMPOWER"
)

// Snapshot extraction statuses stored on the snapshots table.
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)
