package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes are under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Quiz participation is public so shared quiz links work without
		// an account.
		r.Get("/quizzes/{quizID}", apiHandler.GetQuizHandler)
		r.Post("/quizzes/{quizID}/attempts", apiHandler.AssessQuizHandler)
		r.Get("/quizzes/{quizID}/leaderboard", apiHandler.QuizLeaderboardHandler)
		r.Get("/quizzes/{quizID}/attempts/{entryID}", apiHandler.QuizAttemptHandler)

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Workspaces
			r.Post("/workspaces", apiHandler.CreateWorkspaceHandler)
			r.Get("/workspaces", apiHandler.ListWorkspacesHandler)
			r.Get("/workspaces/{workspaceID}", apiHandler.GetWorkspaceHandler)
			r.Delete("/workspaces/{workspaceID}", apiHandler.DeleteWorkspaceHandler)
			r.Get("/search", apiHandler.SearchHandler)

			// Workspace sources
			r.Post("/workspaces/{workspaceID}/files", apiHandler.UploadWorkspaceFilesHandler)
			r.Delete("/workspaces/{workspaceID}/files", apiHandler.DeleteWorkspaceFileHandler)
			r.Post("/workspaces/{workspaceID}/videos", apiHandler.AddVideoHandler)
			r.Delete("/workspaces/{workspaceID}/videos/{videoID}", apiHandler.DeleteVideoHandler)
			r.Get("/files/{fileID}", apiHandler.GetFileHandler)

			// Generation
			r.Post("/workspaces/{workspaceID}/ask", apiHandler.AskQuestionHandler)
			r.Get("/workspaces/{workspaceID}/suggested-questions", apiHandler.SuggestQuestionsHandler)
			r.Post("/quizzes", apiHandler.GenerateQuizHandler)
			r.Post("/flashcards", apiHandler.GenerateFlashcardsHandler)
			r.Post("/summary", apiHandler.GenerateSummaryHandler)
			r.Post("/material", apiHandler.GenerateMaterialHandler)
			r.Get("/facts/random", apiHandler.RandomFactsHandler)
			r.Get("/questions/random", apiHandler.RandomQuestionsHandler)

			// Quiz management
			r.Get("/quizzes", apiHandler.ListUserQuizzesHandler)
			r.Get("/workspaces/{workspaceID}/quizzes", apiHandler.ListWorkspaceQuizzesHandler)
			r.Delete("/quizzes/{quizID}", apiHandler.DeleteQuizHandler)
			r.Delete("/quizzes/{quizID}/attempts/{entryID}", apiHandler.DeleteQuizAttemptHandler)

			// Flashcards
			r.Get("/flashcards", apiHandler.ListUserFlashcardSetsHandler)
			r.Get("/flashcards/{setID}", apiHandler.GetFlashcardSetHandler)
			r.Get("/workspaces/{workspaceID}/flashcards", apiHandler.ListWorkspaceFlashcardSetsHandler)
			r.Delete("/flashcards/{setID}", apiHandler.DeleteFlashcardSetHandler)

			// Chats
			r.Post("/chats", apiHandler.CreateChatHandler)
			r.Get("/chats", apiHandler.ListChatsHandler)
			r.Get("/chats/{chatID}/messages", apiHandler.ChatMessagesHandler)
			r.Post("/chats/{chatID}/messages", apiHandler.SendMessageHandler)
			r.Delete("/chats/{chatID}", apiHandler.DeleteChatHandler)
		})
	})

	return r
}
