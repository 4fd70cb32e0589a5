package rest

import "github.com/gin-gonic/gin"

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestID(), s.requestLogger(), s.recovery())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/forgot-password", s.forgotPassword)
	api.POST("/reset-password", s.resetPassword)

	data := api.Group("/data", s.authenticate())
	data.GET("", s.listRecords)
	data.POST("", s.createRecord)
	data.GET("/aggregate", s.aggregate)
	data.GET("/gpa", s.aggregate)
	data.PUT("/:id", s.updateRecord)
	data.DELETE("/:id", s.deleteRecord)

	return r
}
