package auth

import (
	"context"
	"fmt"

	"github.com/askaris/askaris/internal/database/models"
	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
	"go.uber.org/zap"
)

// Requirement is one (action, subject type) pair a guarded operation declares.
type Requirement struct {
	Action  enum.Action
	Subject enum.Subject
}

// Guard evaluates declared requirements against the policy before a workflow
// runs. It reads persisted state only; it never mutates anything.
type Guard struct {
	users     *models.UserModel
	questions *models.QuestionModel
	answers   *models.AnswerModel
	votes     *models.VoteModel
	logger    *zap.Logger
}

// NewGuard creates a new permission guard.
func NewGuard(
	users *models.UserModel,
	questions *models.QuestionModel,
	answers *models.AnswerModel,
	votes *models.VoteModel,
	logger *zap.Logger,
) *Guard {
	return &Guard{
		users:     users,
		questions: questions,
		answers:   answers,
		votes:     votes,
		logger:    logger.Named("guard"),
	}
}

// Require checks type-level requirements for the acting user. The actor's
// role is re-read from storage, never taken from the request.
func (g *Guard) Require(ctx context.Context, actorID int64, reqs ...Requirement) error {
	actor, err := g.users.GetUserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor: %w", err)
	}

	ability := NewAbility(actor)
	for _, req := range reqs {
		if !ability.CanType(req.Action, req.Subject) {
			g.logger.Debug("Requirement denied",
				zap.Int64("actorID", actorID),
				zap.String("action", req.Action.String()),
				zap.String("subject", req.Subject.String()))

			return types.ErrActionForbidden
		}
	}

	return nil
}

// RequireSubject checks an action against a specific existing instance. The
// instance is fetched from storage by ID so ownership predicates always see
// persisted field values, never client-supplied ones.
func (g *Guard) RequireSubject(
	ctx context.Context, actorID int64, action enum.Action, subjectType enum.Subject, subjectID int64,
) error {
	return g.RequireSubjectFields(ctx, actorID, action, subjectType, subjectID, nil)
}

// RequireSubjectFields is RequireSubject with an explicit set of mutated
// field names, for field-scoped update rules.
func (g *Guard) RequireSubjectFields(
	ctx context.Context, actorID int64, action enum.Action,
	subjectType enum.Subject, subjectID int64, fields []string,
) error {
	actor, err := g.users.GetUserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor: %w", err)
	}

	subject, err := g.fetchSubject(ctx, subjectType, subjectID)
	if err != nil {
		return err
	}
	subject.Fields = fields

	if !NewAbility(actor).Can(action, subject) {
		g.logger.Debug("Subject requirement denied",
			zap.Int64("actorID", actorID),
			zap.String("action", action.String()),
			zap.String("subject", subjectType.String()),
			zap.Int64("subjectID", subjectID))

		return types.ErrActionForbidden
	}

	return nil
}

// fetchSubject loads the current persisted instance for a subject reference.
func (g *Guard) fetchSubject(ctx context.Context, subjectType enum.Subject, id int64) (Subject, error) {
	switch subjectType {
	case enum.SubjectUser:
		user, err := g.users.GetUserByID(ctx, id)
		if err != nil {
			return Subject{}, err
		}
		return UserSubject(user), nil

	case enum.SubjectQuestion:
		question, err := g.questions.GetQuestionByID(ctx, id)
		if err != nil {
			return Subject{}, err
		}
		return QuestionSubject(question), nil

	case enum.SubjectAnswer:
		answer, err := g.answers.GetAnswerByID(ctx, id)
		if err != nil {
			return Subject{}, err
		}
		return AnswerSubject(answer), nil

	case enum.SubjectVote:
		vote, err := g.votes.GetVoteByID(ctx, id)
		if err != nil {
			return Subject{}, err
		}
		return VoteSubject(vote, 0), nil

	default:
		return Subject{}, fmt.Errorf("%w: no instance lookup for subject %s",
			types.ErrActionForbidden, subjectType)
	}
}
