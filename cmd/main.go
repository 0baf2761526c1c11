package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"verse-scene-api/application/ports/inbound"
	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/application/services"
	"verse-scene-api/config"
	"verse-scene-api/infrastructure/adapters"
	"verse-scene-api/infrastructure/gin_interface/controllers"
	"verse-scene-api/middleware"
	mockcollab "verse-scene-api/mock"
)

func main() {
	// Optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "panic in worker pool")
	}
	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	sceneConfig, err := config.GetSceneConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get scene config")
	}

	var (
		promptGenerator   outbound.ScenePromptGeneratorPort
		imageGenerator    outbound.ImageGeneratorPort
		verseText         outbound.VerseTextPort
		speechSynthesizer outbound.SpeechSynthesizerPort
	)

	if os.Getenv("MOCK_MODE") == "1" {
		zeroLogger.Warn("MOCK_MODE is on, using in-process collaborators")
		promptGenerator = mockcollab.NewMockScenePromptGenerator()
		imageGenerator = mockcollab.NewMockImageGenerator()
		verseText = mockcollab.NewMockVerseText()
		speechSynthesizer = mockcollab.NewMockSpeechSynthesizer()
	} else {
		promptConfig, err := config.GetPromptConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get prompt config")
		}
		imageConfig, err := config.GetImageConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get image config")
		}
		verseConfig, err := config.GetVerseConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get verse config")
		}
		speechConfig, err := config.GetSpeechConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get speech config")
		}

		contentFetcher := adapters.NewContentFetcher(zeroLogger, 2)

		promptGenerator = adapters.NewScenePromptGenerator(promptConfig, zeroLogger)
		imageGenerator = adapters.NewImageGenerator(contentFetcher, imageConfig, zeroLogger)
		verseText = adapters.NewVerseTextFetcher(contentFetcher, verseConfig, zeroLogger)
		speechSynthesizer = adapters.NewSpeechSynthesizer(contentFetcher, speechConfig, zeroLogger)
	}

	sessionTtl := 30 * time.Minute
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 1 {
			log.Fatal().Msg("SESSION_TTL_MINUTES must be a positive integer")
		}
		sessionTtl = time.Duration(minutes) * time.Minute
	}

	registry := services.NewSceneRegistry(zeroLogger, func() inbound.SceneOrchestratorPort {
		resources := services.NewAudioResourceManager(zeroLogger)
		return services.NewSceneOrchestrator(zeroLogger, promptGenerator, imageGenerator,
			verseText, speechSynthesizer, resources, sceneConfig)
	}, sessionTtl)

	sceneController := controllers.NewSceneController(zeroLogger, workerPool, registry,
		middleware.SSEKeepAlive(workerPool, 15*time.Second))

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies")
	}

	if jwksUrl := os.Getenv("JWKS_URL"); jwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(jwksUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler")
		}
		router.Use(authHandler.AuthMiddleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	sceneController.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Sessions own playable audio resources; a clean exit must tear every
	// session down, so the server shuts down on SIGINT/SIGTERM instead of
	// dying mid-flight.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()
	zeroLogger.InfoWithFields("server listening", map[string]interface{}{"port": port})

	<-ctx.Done()
	zeroLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zeroLogger.Error(err, "server shutdown failed")
	}
	registry.Shutdown()
}
