// Package rest assembles the HTTP surface: routing, authentication
// middleware, and response compression.
package rest

import (
	"net/http"

	"github.com/askaris/askaris/internal/auth"
	"github.com/askaris/askaris/internal/database"
	"github.com/askaris/askaris/internal/rest/handler"
	authmw "github.com/askaris/askaris/internal/rest/middleware/auth"
	"github.com/askaris/askaris/internal/session"
	"github.com/klauspost/compress/gzhttp"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	userHandler     *handler.UserHandler
	questionHandler *handler.QuestionHandler
	answerHandler   *handler.AnswerHandler
	voteHandler     *handler.VoteHandler
}

// NewServer creates a new REST API server.
func NewServer(db database.Client, sessions *session.Store, logger *zap.Logger) (http.Handler, error) {
	repo := db.Model()
	guard := auth.NewGuard(repo.User(), repo.Question(), repo.Answer(), repo.Vote(), logger)

	server := &Server{
		userHandler:     handler.NewUserHandler(db, guard, logger),
		questionHandler: handler.NewQuestionHandler(db, guard, logger),
		answerHandler:   handler.NewAnswerHandler(db, guard, logger),
		voteHandler:     handler.NewVoteHandler(db, guard, logger),
	}

	sessionMiddleware := authmw.New(sessions, logger)

	router := bunrouter.New()

	router.Use(
		sessionMiddleware.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		g.GET("/users/:id", server.userHandler.GetUser)
		g.PATCH("/users/:id", server.userHandler.UpdateUser)
		g.DELETE("/users/:id", server.userHandler.DeleteUser)

		g.POST("/questions", server.questionHandler.CreateQuestion)
		g.GET("/questions", server.questionHandler.GetQuestions)
		g.GET("/questions/:id", server.questionHandler.GetQuestion)
		g.GET("/questions/:id/answers", server.questionHandler.GetAnswers)
		g.DELETE("/questions/:id", server.questionHandler.DeleteQuestion)

		g.POST("/answers", server.answerHandler.CreateAnswer)
		g.PATCH("/answers/:id/accepted", server.answerHandler.SetAccepted)
		g.DELETE("/answers/:id", server.answerHandler.DeleteAnswer)

		g.POST("/votes", server.voteHandler.CreateVote)
		g.PATCH("/votes/:id", server.voteHandler.UpdateVote)
		g.DELETE("/votes/:id", server.voteHandler.DeleteVote)
	})

	return gzhttp.GzipHandler(router), nil
}
