package main

import (
	"flag"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/debyltech/go-kintsugi-checkout/config"
	"github.com/debyltech/go-kintsugi-checkout/kintsugi"
	"github.com/debyltech/go-kintsugi-checkout/payment"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	bindPort := flag.String("bind", "8000", "port to bind to")
	releaseMode := flag.Bool("release", false, "true if setting gin to release mode")
	configPath := flag.String("config", "", "optional path to config.json")
	lambdaMode := flag.Bool("lambda", false, "true if serving through AWS Lambda")
	flag.Parse()

	config, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error with loading config")
	}
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	if *releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	ginlogger := newLogger(gin.DefaultWriter, config.Debug)

	kintsugiClient := kintsugi.NewClient(config.KintsugiApiKey, config.KintsugiOrgId, kintsugi.WithEndpoint(config.KintsugiEndpoint))
	taxEstimator := NewTaxEstimator(config, kintsugiClient, ginlogger)
	builder := NewCheckoutBuilder(config, taxEstimator, payment.NewStripeProcessor(config.StripeSecretKey), ginlogger)

	r := NewRouter(config, builder, ginlogger)

	if *lambdaMode {
		ginLambda := ginadapter.New(r)
		lambda.Start(ginLambda.ProxyWithContext)
		return
	}

	ginlogger.Info().Str("event", "startup").Str("bind", *bindPort).Msg("serving checkout")
	if err := r.Run(fmt.Sprintf(":%s", *bindPort)); err != nil {
		log.Fatal().Err(err).Msg("error with serving")
	}
}
