package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecocart/controller/advisor"
	"ecocart/controller/auth"
	"ecocart/controller/cart"
	"ecocart/controller/checkout"
	"ecocart/controller/groupcart"
	"ecocart/controller/product"
	"ecocart/controller/user"
	"ecocart/middleware"
	"ecocart/repository"
	"ecocart/services"
)

// App holds the repository and every service the router needs.
type App struct {
	Repo     repository.Repository
	Catalog  *services.CatalogService
	Carts    *services.CartService
	Groups   *services.GroupCartService
	Checkout *services.CheckoutService
	Users    *services.UserService
	Advisor  *services.AdvisorService
	Sessions *services.SessionService
	Auth     *services.AuthService

	closers []func() error
	log     *zap.Logger
}

// NewApp connects the configured backends and builds the services.
func NewApp(ctx context.Context, cfg *Config, log *zap.Logger) (*App, error) {
	a := &App{log: log}

	var provider services.AuthProvider
	switch cfg.StoreBackend {
	case BackendMemory:
		a.Repo = repository.NewMemory()
		log.Warn("using in-memory store, data is lost on restart")
	default:
		fbApp, err := FBConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client, err := FirestoreClient(ctx, fbApp)
		if err != nil {
			return nil, err
		}
		a.Repo = repository.NewFirestore(client)
		if cfg.AuthProvider == ProviderFirebase {
			authClient, err := AuthClient(ctx, fbApp)
			if err != nil {
				_ = a.Repo.Close()
				return nil, err
			}
			provider = services.NewFirebaseProvider(authClient, cfg.FirebaseWebAPIKey)
		}
		log.Info("Firestore connection successful")
	}
	a.closers = append(a.closers, a.Repo.Close)
	if provider == nil {
		provider = services.NewLocalProvider(a.Repo)
	}

	var captcha services.CaptchaVerifier
	if cfg.RecaptchaSiteKey != "" {
		v, err := services.NewRecaptchaVerifier(ctx, cfg.RecaptchaProjectID, cfg.RecaptchaSiteKey, cfg.RecaptchaCredentials, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, v.Close)
		captcha = v
	}

	var gen services.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			a.Close()
			return nil, err
		}
		gen = g
	} else {
		log.Warn("GEMINI_API_KEY not set, AI advisor disabled")
	}

	a.Catalog = services.NewCatalogService(a.Repo, log)
	a.Carts = services.NewCartService(a.Repo, a.Catalog, log)
	a.Groups = services.NewGroupCartService(a.Repo, a.Catalog, log)
	a.Checkout = services.NewCheckoutService(a.Carts, a.Groups)
	a.Users = services.NewUserService(a.Repo, a.Groups, log)
	a.Advisor = services.NewAdvisorService(gen, cfg.AITimeout, log)
	a.Sessions = services.NewSessionService(a.Repo, cfg.JWTSecret, cfg.JWTRefreshSecret, log)
	a.Auth = services.NewAuthService(provider, a.Repo, a.Sessions, captcha, log)
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

func NewRouter(cfg *Config, app *App, log *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.ZapLogger(log.Named("http")), gin.Recovery())
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	auth.SignUpController(router, app.Auth)
	auth.SignInController(router, app.Auth, app.Sessions)
	product.ProductController(router, app.Catalog)
	cart.CartController(router, app.Carts, app.Sessions)
	groupcart.GroupCartController(router, app.Groups, app.Sessions)
	checkout.CheckoutController(router, app.Checkout, app.Sessions)
	user.UserController(router, app.Users, app.Sessions)
	advisor.AdvisorController(router, app.Advisor)
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// InitSentry returns a flush function; it is a no-op without a DSN.
func InitSentry(cfg *Config, log *zap.Logger) func() {
	if cfg.SentryDSN == "" {
		return func() {}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		Environment:      cfg.AppEnv,
	})
	if err != nil {
		log.Error("sentry init failed", zap.Error(err))
		return func() {}
	}
	return func() { sentry.Flush(2 * time.Second) }
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, cfg *Config, log *zap.Logger) error {
	flush := InitSentry(cfg, log)
	defer flush()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, app, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
