package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/flight-reservation-api/internal/handler"
    "github.com/iliyamo/flight-reservation-api/internal/middleware"
)

// RegisterRoutes wires every endpoint onto the Echo instance.  Auth
// endpoints are public; everything else sits behind the JWT middleware
// plus the Redis token-bucket rate limiter (a no-op limiter is passed
// when rate limiting is disabled).
func RegisterRoutes(e *echo.Echo, auth *handler.AuthHandler, res *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    e.GET("/healthz", handler.Health)

    v1 := e.Group("/v1")

    a := v1.Group("/auth")
    a.POST("/register", auth.Register)
    a.POST("/login", auth.Login)
    a.POST("/refresh", auth.Refresh)
    a.POST("/logout", auth.Logout)

    protected := v1.Group("", middleware.JWTAuth(jwtSecret), limiter)
    protected.GET("/me", auth.Me)
    protected.POST("/auth/logout_all", auth.LogoutAll)

    r := protected.Group("/reservations")
    r.POST("", res.Create)
    r.GET("", res.List)
    r.GET("/:id", res.Get)
    r.PUT("/:id", res.Update)
    r.DELETE("/:id", res.Delete)
}
