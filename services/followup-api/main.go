package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers"
	mw "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers/middlewares"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/services/followup-api/apihandlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	if smtpClients != nil {
		defer smtpClients.Close()
	}

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(metrics.GinMiddleware())

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle(store))
	if len(conf.GinConfig.MetricsAPIKeys) > 0 {
		router.GET("/metrics", mw.HasValidAPIKey(conf.GinConfig.MetricsAPIKeys), gin.WrapH(metrics.Handler()))
	} else {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.StaffJWTConfig.SignKey,
		conf.MessagingConfigs.LinkBaseURL,
		followupGate,
		store,
		dispatcher,
		caseSummarizer,
	)
	v1APIHandlers.AddPatientAPI(v1Root)
	v1APIHandlers.AddDoctorAPI(v1Root)

	if conf.GinConfig.DebugMode {
		apihelpers.WriteRoutesToFile(router, "followup-api-routes.txt")
	}

	// Start the server
	slog.Info("Starting Followup API", slog.String("port", conf.GinConfig.Port))
	if !conf.GinConfig.MTLS.Use {
		err := router.Run(":" + conf.GinConfig.Port)
		if err != nil {
			slog.Error("Exited Followup API", slog.String("error", err.Error()))
			return
		}
	} else {
		// Create tls config for mutual TLS
		tlsConfig, err := apihelpers.LoadTLSConfig(conf.GinConfig.MTLS.CertificatePaths)
		if err != nil {
			slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
			return
		}

		server := &http.Server{
			Addr:      ":" + conf.GinConfig.Port,
			Handler:   router,
			TLSConfig: tlsConfig,
		}

		err = server.ListenAndServeTLS(conf.GinConfig.MTLS.CertificatePaths.ServerCertPath, conf.GinConfig.MTLS.CertificatePaths.ServerKeyPath)
		if err != nil {
			slog.Error("Exited Followup API", slog.String("error", err.Error()))
			return
		}
	}
}
