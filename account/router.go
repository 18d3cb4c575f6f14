package account

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
)

type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter mounts the account endpoints under /api and wraps them with the
// CORS, logging, recovery and timeout middleware.
func NewRouter(svc Service, logger *slog.Logger, opts RouterOptions) http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/", HomeHandler())
	router.Handler(http.MethodPost, "/api/agrege", CreateAccountHandler(svc))
	router.Handler(http.MethodGet, "/api/liste", ListAccountsHandler(svc))
	router.Handler(http.MethodGet, "/api/liste/:id", GetAccountHandler(svc))
	router.Handler(http.MethodPut, "/api/actualice/:id", UpdateAccountHandler(svc))
	router.Handler(http.MethodDelete, "/api/elimine/:id", DeleteAccountHandler(svc))
	router.Handler(http.MethodPost, "/api/register", RegisterUserHandler(svc))
	router.Handler(http.MethodPost, "/api/login", LoginHandler(svc))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Location", requestIDHeader},
		MaxAge:         300,
	})

	return RequestLogger(logger, c(Recoverer(Timeout(opts.RequestTimeout, router))))
}
