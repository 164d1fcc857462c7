package probability

type StatusType string

const (
	StatusBoom  StatusType = "boom"
	StatusBust  StatusType = "bust"
	StatusAbove StatusType = "above"
	StatusBelow StatusType = "below"
)

const (
	boomBustPoints  = 10.0
	boomBustPercent = 30.0
)

// PlayerStatus describes how far a player is from projection.
// Percentage is relative to the projection, in percent.
type PlayerStatus struct {
	Type       StatusType `json:"type"`
	Diff       float64    `json:"diff"`
	Percentage float64    `json:"percentage"`
}

// Classify compares actual points to projected points. It returns nil when
// there is no projection to compare against or the player is exactly on it.
func Classify(actual float64, projected *float64) *PlayerStatus {
	proj := value(projected)
	if proj == 0 {
		return nil
	}

	diff := finite(actual) - proj
	percentage := (diff / proj) * 100

	var status StatusType
	switch {
	case diff > boomBustPoints && percentage > boomBustPercent:
		status = StatusBoom
	case diff < -boomBustPoints && percentage < -boomBustPercent:
		status = StatusBust
	case diff > 0:
		status = StatusAbove
	case diff < 0:
		status = StatusBelow
	default:
		return nil
	}

	return &PlayerStatus{Type: status, Diff: diff, Percentage: percentage}
}
