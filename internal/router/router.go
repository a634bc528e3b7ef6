package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskvault/internal/auth"
	"taskvault/internal/errors"
	"taskvault/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/signup", authHandler.Signup)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/refresh", authHandler.Refresh)
	api.POST("/users/logout", authHandler.Logout)
	api.GET("/users", userHandler.ListUsers)
	api.GET("/users/:id", userHandler.GetUser)

	// Secured routes (require a bearer token). Token parsing is delegated to
	// the JWT service so handlers see *auth.Claims directly. A request without
	// a bearer token is 401; a token that fails validation is 403.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: gateError,
	}))

	// Task routes
	secured.GET("/tasks", taskHandler.ListTasks)
	secured.GET("/tasks/filtered", taskHandler.ListFilteredTasks)
	secured.GET("/tasks/stats", taskHandler.TaskStats)
	secured.POST("/tasks", taskHandler.CreateTask)
	secured.PUT("/tasks/:id", taskHandler.UpdateTask)
	secured.DELETE("/tasks/:id", taskHandler.DeleteTask)
}

// gateError maps bearer-token failures. No token on the request means the
// caller never authenticated (401); a token that was presented but failed
// validation or expired is refused outright (403).
func gateError(c echo.Context, err error) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if !strings.HasPrefix(header, "Bearer ") || token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing or malformed token",
			Code:  "UNAUTHORIZED",
		})
	}
	return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
		Error: "invalid or expired token",
		Code:  "INVALID_TOKEN",
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
