package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/handler/chat"
	credentialhandler "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/handler/credential"
	personahandler "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/handler/persona"
	planhandler "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/handler/plan"
	middlewarePkg "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/middleware"
	personaModel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
	chatservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/chat"
	moodservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/mood"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/upload"
)

// NewRouter wires HTTP routes to core services and serves the embedded
// single-page frontend at the root.
func NewRouter(
	personas personaModel.Store,
	chatSvc *chatservice.Service,
	moodSvc *moodservice.Service,
	stager *upload.Stager,
	manager *ai.Manager,
	webAssets fs.FS,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// The squad appears only after a credential is accepted; handlers see
	// nil until then and answer with a visible error instead of invoking.
	squad := func() ai.Source {
		if registry := manager.Current(); registry != nil {
			return registry
		}
		return nil
	}

	personaHandler := personahandler.New(personas)
	credentialHandler := credentialhandler.New(manager)
	chatHandler := chathandler.New(chatSvc, personas, moodSvc, squad)
	planHandler := planhandler.New(personas, stager, squad)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		credentialHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		planHandler.RegisterRoutes(api)
	})

	if webAssets != nil {
		r.Handle("/*", http.FileServer(http.FS(webAssets)))
	}

	return r
}
