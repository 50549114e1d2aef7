package enum

// VoteTarget represents the kind of content a vote is attached to.
type VoteTarget int

const (
	VoteTargetQuestion VoteTarget = iota
	VoteTargetAnswer
)

// String returns the lowercase name of the vote target.
func (v VoteTarget) String() string {
	switch v {
	case VoteTargetQuestion:
		return "question"
	case VoteTargetAnswer:
		return "answer"
	default:
		return "unknown"
	}
}
