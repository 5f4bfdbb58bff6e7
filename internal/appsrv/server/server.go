package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/appcloud/appcloud-internal/internal/appsrv/apis"
	"github.com/appcloud/appcloud-internal/internal/appsrv/config"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/common/httpx"
	"github.com/appcloud/appcloud-internal/internal/common/logtrace"
	commonmiddleware "github.com/appcloud/appcloud-internal/internal/common/middleware"
)

type AppServer struct {
	Router *chi.Mux
}

func CreateNewServer() (*AppServer, error) {
	s := &AppServer{}
	s.Router = chi.NewRouter()
	return s, nil
}

func (s *AppServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if config.Config().HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins: config.Config().CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", apis.TenantIdHeader},
			MaxAge:         300,
		}))
	}
	s.Router.Get("/version", s.getVersion)
	s.Router.Route("/", s.mountResourceHandlers)
	if logtrace.IsTraceEnabled() {
		// print all routes in the router by traversing the tree
		fmt.Println("Routes in app router")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			fmt.Printf("Logging err: %s\n", err.Error())
		}
	}
}

func (s *AppServer) mountResourceHandlers(r chi.Router) {
	r.Use(db.LoadScopedDBMiddleware) // Load the scoped db connection
	apis.Router(r)
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *AppServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "AppCloud Server: 0.1.0",
		ApiVersion:    "v1",
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}
