package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"homefinder/docs"
	"homefinder/internal/auth"
	"homefinder/internal/config"
	"homefinder/internal/handler"
	"homefinder/internal/model"
)

// UploadsPath is the URL prefix locally stored images are served from.
const UploadsPath = "/uploads"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	guard *auth.Middleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	propertyHandler *handler.PropertyHandler,
	inquiryHandler *handler.InquiryHandler,
	favoriteHandler *handler.FavoriteHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.UploadDriver == config.UploadLocal {
		e.Static(UploadsPath, cfg.UploadDir)
	}

	requireSession := guard.RequireSession()
	adminOnly := auth.RequireRole(model.RoleAdmin)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/properties", propertyHandler.ListProperties)
	api.GET("/properties/featured", propertyHandler.FeaturedProperties)
	api.GET("/properties/:id", propertyHandler.GetProperty)
	api.POST("/inquiries", inquiryHandler.CreateInquiry, guard.OptionalSession())

	// Secured routes
	secured := api.Group("", requireSession)

	secured.POST("/logout", authHandler.Logout)
	secured.GET("/user", userHandler.Me)
	secured.PUT("/user", userHandler.UpdateMe)
	secured.GET("/user/properties", propertyHandler.MyProperties)

	secured.POST("/properties", propertyHandler.CreateProperty, auth.RequireRole(model.RoleSeller, model.RoleAgent, model.RoleAdmin))
	secured.PUT("/properties/:id", propertyHandler.UpdateProperty)
	secured.DELETE("/properties/:id", propertyHandler.DeleteProperty)

	secured.GET("/inquiries", inquiryHandler.ListInquiries, auth.RequireRole(model.RoleAdmin, model.RoleAgent))
	secured.PUT("/inquiries/:id", inquiryHandler.UpdateInquiry, auth.RequireRole(model.RoleAdmin, model.RoleAgent))
	secured.DELETE("/inquiries/:id", inquiryHandler.DeleteInquiry, adminOnly)

	secured.POST("/favorites", favoriteHandler.AddFavorite)
	secured.GET("/favorites", favoriteHandler.ListFavorites)
	secured.DELETE("/favorites/:id", favoriteHandler.RemoveFavorite)

	secured.GET("/users", userHandler.ListUsers, adminOnly)
	secured.GET("/users/:id", userHandler.GetUser, adminOnly)
	secured.DELETE("/users/:id", userHandler.DeleteUser, adminOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
