package enum

// Subject is the explicit type tag carried alongside every instance handed to
// the policy evaluator. Authorization never relies on the runtime type of the
// instance itself.
type Subject int

const (
	SubjectAll Subject = iota
	SubjectUser
	SubjectQuestion
	SubjectAnswer
	SubjectVote
	SubjectTag
)

// String returns the lowercase name of the subject type.
func (s Subject) String() string {
	switch s {
	case SubjectAll:
		return "all"
	case SubjectUser:
		return "user"
	case SubjectQuestion:
		return "question"
	case SubjectAnswer:
		return "answer"
	case SubjectVote:
		return "vote"
	case SubjectTag:
		return "tag"
	default:
		return "unknown"
	}
}
