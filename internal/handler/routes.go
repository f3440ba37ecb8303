package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"finlens-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/analyze",
				Handler: AnalyzeHandler(serverCtx),
			},
		},
	)
}
