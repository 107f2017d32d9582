package modules

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/oksasatya/go-user-registration/docs"
)

// DocsModule serves the OpenAPI document and Swagger UI at /swagger/*any.
type DocsModule struct{}

func NewDocsModule() *DocsModule { return &DocsModule{} }

func (m *DocsModule) Register(rg *gin.RouterGroup) {
	docs.SwaggerInfo.BasePath = rg.BasePath()
	rg.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
