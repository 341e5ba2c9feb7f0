package subscription

// Snapshot is point-in-time subscription state fetched from the
// carrier. It is immutable once built and lives only inside a
// serialized workflow context, never server-side.
type Snapshot struct {
	Number    string
	StartDate string
	EndDate   string
	IsActive  bool
	Usage     Usage
}

// Usage carries the counters from the usage lookup. Dates stay in the
// carrier's wire format; formatting is the UI's concern.
type Usage struct {
	VoiceUsed         float64
	VoiceSize         float64
	MessagesUsed      float64
	MessagesSize      float64
	InternetUsed      float64
	InternetSize      float64
	ExternalVoiceUsed float64
	ExternalVoiceSize float64
	PackageUsage      float64
}

// ActionKind is the mutation an operator confirmed.
type ActionKind string

const (
	ActionExtend   ActionKind = "extend"
	ActionActivate ActionKind = "activate"
)

// PendingAction is resolved at dispatch time from the pricing table and
// the captured snapshot. It is derived, never stored.
type PendingAction struct {
	Kind         ActionKind
	Number       string
	DurationDays int
	Cost         float64
}
