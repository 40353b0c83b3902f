package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/portfolio/data                public
//	POST /api/auth                          public
//	POST /api/portfolio/data                admin
//	POST /api/portfolio/sections?section=X  admin
//	POST /api/resumes/upload                admin, multipart
//	GET  /api/resumes/download?name=        admin
//	GET  /api/resumes/list                  admin
//	POST /api/resumes/delete                admin
//	POST /api/upload/certificate            admin, multipart
//	POST /api/upload/certificate/delete     admin
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(WithRequestLogging(h.Log))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio/data", h.GetPortfolioData)
		r.With(chiMiddleware.AllowContentType("application/json")).Post("/auth", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(h.Auth.Verify))

			r.Group(func(r chi.Router) {
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/portfolio/data", h.SavePortfolioData)
				r.Post("/portfolio/sections", h.SaveSection)
				r.Post("/resumes/delete", h.DeleteResume)
				r.Post("/upload/certificate/delete", h.DeleteCertificate)
			})

			r.Post("/resumes/upload", h.UploadResume)
			r.Get("/resumes/download", h.DownloadResume)
			r.Get("/resumes/list", h.ListResumes)
			r.Post("/upload/certificate", h.UploadCertificate)
		})
	})

	return r
}
