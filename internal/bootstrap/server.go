package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/avdeenkov/homebook-checkout/api"
	"github.com/avdeenkov/homebook-checkout/config"
	"github.com/avdeenkov/homebook-checkout/internal/checkout"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, checkoutSvc checkout.CheckoutUseCase) error {
	router := gin.Default()

	handler := api.NewCheckoutHandler(checkoutSvc)
	handler.Register(router.Group("/checkout"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/checkout.swagger.json"),
		)))
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
