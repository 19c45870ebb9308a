package routes

import (
	"log/slog"
	"net/http"

	"todo-ai/app/controllers"
	"todo-ai/app/middleware"
	"todo-ai/app/observability"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all task routes on router.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	router.HandleFunc("/health", controllers.Health).Methods(http.MethodGet)
	router.HandleFunc("/tasks", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/generate", taskController.GenerateTasks).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}", taskController.GetTaskByID).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{taskID}", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{taskID}", taskController.DeleteTask).Methods(http.MethodDelete)
}

// NewHandler builds the full HTTP handler: routes, /metrics and the
// middleware chain. gatherer may be nil to skip /metrics.
func NewHandler(taskController *controllers.TaskController, metrics *observability.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(middleware.Recovery(logger))

	RegisterRoutes(router, taskController)
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return middleware.CORS(router)
}
