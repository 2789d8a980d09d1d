package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SwaggerPath is where the API documentation UI and doc.json are served
const SwaggerPath = "/swagger/*any"

// RegisterSwagger serves the registered API documentation behind guard
func RegisterSwagger(engine *gin.Engine, guard gin.HandlerFunc) {
	engine.GET(SwaggerPath, guard, ginSwagger.WrapHandler(swaggerFiles.Handler))
}
