package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	eventController *controllers.EventController,
	requestController *controllers.RequestController,
	categoryController *controllers.CategoryController,
	userController *controllers.UserController,
	compilationController *controllers.CompilationController,
	commentController *controllers.CommentController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Public API
	mux.HandleFunc("GET /events", eventController.ListPublicEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetPublicEvent)
	mux.HandleFunc("GET /events/{eventID}/comments", commentController.ListComments)
	mux.HandleFunc("GET /categories", categoryController.ListCategories)
	mux.HandleFunc("GET /categories/{catID}", categoryController.GetCategory)
	mux.HandleFunc("GET /compilations", compilationController.ListCompilations)
	mux.HandleFunc("GET /compilations/{compID}", compilationController.GetCompilation)

	// Private API
	mux.HandleFunc("POST /users/{userID}/events", eventController.AddEvent)
	mux.HandleFunc("GET /users/{userID}/events", eventController.ListUserEvents)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}", eventController.GetUserEvent)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}", eventController.UpdateUserEvent)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}/requests", requestController.ListEventRequests)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests", requestController.UpdateRequestStatus)
	mux.HandleFunc("GET /users/{userID}/requests", requestController.ListUserRequests)
	mux.HandleFunc("POST /users/{userID}/requests", requestController.AddRequest)
	mux.HandleFunc("PATCH /users/{userID}/requests/{requestID}/cancel", requestController.CancelRequest)
	mux.HandleFunc("POST /users/{userID}/comments/{eventID}", commentController.AddComment)

	// Admin API
	mux.HandleFunc("GET /admin/events", eventController.ListAdminEvents)
	mux.HandleFunc("PATCH /admin/events/{eventID}", eventController.UpdateAdminEvent)
	mux.HandleFunc("POST /admin/users", userController.AddUser)
	mux.HandleFunc("GET /admin/users", userController.ListUsers)
	mux.HandleFunc("DELETE /admin/users/{userID}", userController.DeleteUser)
	mux.HandleFunc("POST /admin/categories", categoryController.AddCategory)
	mux.HandleFunc("PATCH /admin/categories/{catID}", categoryController.UpdateCategory)
	mux.HandleFunc("DELETE /admin/categories/{catID}", categoryController.DeleteCategory)
	mux.HandleFunc("POST /admin/compilations", compilationController.AddCompilation)
	mux.HandleFunc("PATCH /admin/compilations/{compID}", compilationController.UpdateCompilation)
	mux.HandleFunc("DELETE /admin/compilations/{compID}", compilationController.DeleteCompilation)
	mux.HandleFunc("DELETE /admin/comments/{commentID}", commentController.DeleteComment)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
