package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskflow/internal/apperrors"
	"taskflow/internal/auth"
	"taskflow/internal/handler"
	"taskflow/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	specialistHandler *handler.SpecialistHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/refresh", authHandler.Refresh)

	// Secured routes (require JWT authentication). ParseTokenFunc keeps token
	// validation in one place: the same JWTService that issues tokens. The
	// parsed *auth.Claims lands in the context under "user".
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			appErr := apperrors.Unauthenticated()
			return c.JSON(appErr.Status, handler.Envelope{
				Success: false,
				Message: appErr.Message,
				Errors:  appErr.Fields,
			})
		},
	}), handler.ResolvePrincipal(authService))

	secured.POST("/logout", authHandler.Logout)
	secured.PUT("/profile", authHandler.UpdateProfile)

	// Administrator routes
	admin := secured.Group("/admin")
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	// Manager routes
	manager := secured.Group("/manager")
	manager.GET("/projects", projectHandler.ListProjects)
	manager.POST("/projects", projectHandler.CreateProject)
	manager.GET("/projects/:id", projectHandler.ProjectDetails)
	manager.PUT("/projects/:id", projectHandler.UpdateProject)
	manager.DELETE("/projects/:id", projectHandler.DeleteProject)
	manager.GET("/projects/:id/members", projectHandler.ListMembers)
	manager.POST("/projects/:id/members", projectHandler.AddMembers)
	manager.DELETE("/projects/:id/members/:userId", projectHandler.RemoveMember)
	manager.GET("/projects/:id/metrics", projectHandler.ProjectMetrics)
	manager.POST("/projects/:id/tasks", projectHandler.CreateTask)
	manager.PUT("/projects/:id/tasks/:taskId", projectHandler.UpdateTask)

	// Specialist routes
	my := secured.Group("/my")
	my.GET("/tasks", specialistHandler.MyTasks)
	my.GET("/tasks/:id", specialistHandler.TaskDetails)
	my.PUT("/tasks/:id/status", specialistHandler.UpdateTaskStatus)
	my.POST("/tasks/:taskId/comments", specialistHandler.AddComment)
	my.DELETE("/comments/:id", specialistHandler.DeleteComment)
	my.POST("/tasks/:taskId/attachments", specialistHandler.AddAttachment)
	my.DELETE("/attachments/:id", specialistHandler.DeleteAttachment)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator. Field names in validation
// errors come from the json tag so clients see the wire names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
