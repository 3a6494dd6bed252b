package rest

import (
	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты API. Все маршруты, кроме корня, входа,
// регистрации, проверки здоровья и восстановления пароля, требуют токен.
// Маршруты с идентификатором пользователя доступны только ему самому.
func NewRouter(h *Handler, verifier TokenVerifier, health *server.HealthCheck, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), server.RequestLogger(logger), server.MetricsMiddleware())

	if health != nil {
		health.RegisterRoutes(r)
	}

	r.GET("/", h.Root)
	r.POST("/login", h.Login)
	r.POST("/users", h.Register)

	email := r.Group("/email")
	email.POST("/request_reset_password", h.RequestReset)
	email.POST("/verify_otp", h.VerifyOTP)
	email.POST("/reset_password", h.ResetPassword)

	protected := r.Group("/")
	protected.Use(AuthRequired(verifier))

	protected.GET("/users/:id", SameUser("id"), h.GetUser)
	protected.PATCH("/users/update_data/:id", SameUser("id"), h.UpdateUser)
	protected.GET("/goals/:user_id", SameUser("user_id"), h.GetGoals)
	protected.PATCH("/goals/:user_id", SameUser("user_id"), h.UpdateGoals)

	protected.POST("/pets", h.CreatePet)
	protected.GET("/pets/:user_id", SameUser("user_id"), h.ListPets)
	protected.POST("/pet_status", h.UpdatePetStatus)
	protected.GET("/pet_status/:pet_id", h.GetPetStatus)
	protected.POST("/pet_action", h.PetAction)

	protected.GET("/fetch_weather", h.FetchWeather)
	protected.POST("/environment_data", h.SaveEnvironment)
	protected.GET("/environment_data/latest", h.LatestEnvironment)

	for _, metric := range models.Metrics {
		protected.GET("/"+metric.Name+"_data/:mode", h.Series(metric.Name))
		protected.POST("/daily_data/"+metric.Name, h.LogMetric(metric.Name))
	}
	protected.POST("/daily_data/sleep", h.LogSleep)
	protected.GET("/daily_data/:user_id", SameUser("user_id"), h.DailySummary)

	return r
}
