package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"vlabgallery/internal/auth"
	"vlabgallery/internal/config"
	apperrors "vlabgallery/internal/errors"
	"vlabgallery/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authMW *auth.Middleware,
	authHandler *handler.AuthHandler,
	galleryHandler *handler.GalleryHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = httpErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/gallery", galleryHandler.List)

	// Any authenticated principal may revoke its own token.
	api.POST("/auth/logout", authHandler.Logout, authMW.RequireRoles())

	// Admin-only gallery mutations
	admin := api.Group("/gallery", authMW.RequireRoles(auth.RoleAdmin))
	admin.POST("/upload", galleryHandler.Upload)
	admin.PUT("/:id", galleryHandler.Update)
	admin.DELETE("/:id", galleryHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// httpErrorHandler shapes every error into the service's wire contract:
// {"msg": ...} for 4xx, {"error": ...} for 5xx.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		message = appErr.Message
	case errors.As(err, &echoErr):
		status = echoErr.Code
		message = fmt.Sprintf("%v", echoErr.Message)
	default:
		message = err.Error()
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else if status >= http.StatusInternalServerError {
		respErr = c.JSON(status, apperrors.ErrorResponse{Error: message})
	} else {
		respErr = c.JSON(status, apperrors.MsgResponse{Msg: message})
	}
	if respErr != nil {
		c.Logger().Error(respErr)
	}
}
