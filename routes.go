package main

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/debyltech/go-kintsugi-checkout/config"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

type checkoutCreator interface {
	CreateCheckoutSession(ctx context.Context) (*CheckoutSession, error)
}

func HandleHome(config *config.Config) gin.HandlerFunc {
	fn := func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"StripePublicKey": config.StripePublishableKey,
		})
	}

	return fn
}

func HandlePage(name string) gin.HandlerFunc {
	fn := func(c *gin.Context) {
		c.HTML(http.StatusOK, name, nil)
	}

	return fn
}

// HandleCreateCheckoutSession answers {"id": ...} or, on any failure, 400 with
// {"detail": ...}.
func HandleCreateCheckoutSession(builder checkoutCreator) gin.HandlerFunc {
	fn := func(c *gin.Context) {
		session, err := builder.CreateCheckoutSession(c.Request.Context())
		if err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, session)
	}

	return fn
}

func NewRouter(config *config.Config, builder checkoutCreator, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.SetLogger(logger.WithLogger(func(_ *gin.Context, _ zerolog.Logger) zerolog.Logger {
		return log.With().Logger()
	})))
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	r.GET("/", HandleHome(config))
	r.POST("/create-checkout-session", HandleCreateCheckoutSession(builder))
	r.GET("/success", HandlePage("success.html"))
	r.GET("/cancel", HandlePage("cancel.html"))

	return r
}
