package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"verse-scene-api/application/ports/inbound"
	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/application/services"
	"verse-scene-api/channel_utils"
	"verse-scene-api/config"
	"verse-scene-api/domain"
	"verse-scene-api/infrastructure/gin_interface/dto"
)

// SessionHeader carries the session id issued on the first request.
const SessionHeader = "X-Session-Id"

type SceneController interface {
	RegisterRoutes(g *gin.Engine)
}

type sceneController struct {
	logger       outbound.LoggerPort
	workerPool   outbound.TaskDispatcher
	registry     *services.SceneRegistry
	sseKeepAlive gin.HandlerFunc

	mu           sync.Mutex
	broadcasters map[string]*channel_utils.Broadcaster[domain.StageEvent]
}

func NewSceneController(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	registry *services.SceneRegistry, sseKeepAlive gin.HandlerFunc) SceneController {
	return &sceneController{
		logger:       logger,
		workerPool:   workerPool,
		registry:     registry,
		sseKeepAlive: sseKeepAlive,
		broadcasters: make(map[string]*channel_utils.Broadcaster[domain.StageEvent]),
	}
}

func (s *sceneController) RegisterRoutes(g *gin.Engine) {
	g.POST("/scenes", s.generateScene)
	g.POST("/scenes/next", s.nextVerse)
	g.POST("/scenes/narration", s.generateNarration)
	g.POST("/scenes/reset", s.reset)
	g.GET("/scenes", s.state)
	g.GET("/scenes/image", s.image)
	g.GET("/scenes/audio", s.audio)
	g.GET("/scenes/events", s.sseKeepAlive, s.events)
}

func (s *sceneController) generateScene(c *gin.Context) {
	var request dto.GenerateSceneRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, orchestrator := s.session(c)

	if request.AspectRatio != "" {
		if err := orchestrator.SetAspectRatio(request.AspectRatio); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := orchestrator.GenerateScene(c.Request.Context(), request.Reference); err != nil {
		s.renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSceneStateResponse(sessionID, orchestrator.Snapshot()))
}

func (s *sceneController) nextVerse(c *gin.Context) {
	sessionID, orchestrator := s.session(c)

	if err := orchestrator.NextVerse(c.Request.Context()); err != nil {
		s.renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSceneStateResponse(sessionID, orchestrator.Snapshot()))
}

func (s *sceneController) generateNarration(c *gin.Context) {
	// An empty body is fine; the configured language applies.
	var request dto.GenerateNarrationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sessionID, orchestrator := s.session(c)

	if request.Language != "" {
		if err := orchestrator.SetNarrationLanguage(request.Language); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := orchestrator.GenerateNarration(c.Request.Context()); err != nil {
		s.renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSceneStateResponse(sessionID, orchestrator.Snapshot()))
}

func (s *sceneController) reset(c *gin.Context) {
	sessionID, orchestrator := s.session(c)
	orchestrator.Reset()
	c.JSON(http.StatusOK, dto.NewSceneStateResponse(sessionID, orchestrator.Snapshot()))
}

func (s *sceneController) state(c *gin.Context) {
	sessionID, orchestrator := s.session(c)
	c.JSON(http.StatusOK, dto.NewSceneStateResponse(sessionID, orchestrator.Snapshot()))
}

func (s *sceneController) image(c *gin.Context) {
	_, orchestrator := s.session(c)
	state := orchestrator.Snapshot()

	if len(state.Image) == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no scene image generated yet"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+state.Reference.ImageFilename()+`"`)
	c.Data(http.StatusOK, "image/jpeg", state.Image)
}

func (s *sceneController) audio(c *gin.Context) {
	_, orchestrator := s.session(c)

	container, ok := orchestrator.CurrentAudio()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no narration generated yet"})
		return
	}

	c.Data(http.StatusOK, "audio/wav", container)
}

func (s *sceneController) events(c *gin.Context) {
	sessionID, orchestrator := s.session(c)

	broadcaster, err := s.broadcaster(sessionID, orchestrator)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	subscription := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(subscription)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case event, open := <-subscription:
			if !open {
				// Session torn down; the pump has already dropped the
				// broadcaster entry.
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Error(err, "failed to marshal stage event")
				continue
			}
			if _, err := c.Writer.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// session resolves (or creates) the caller's orchestrator and echoes the
// session id so clients can stick to it.
func (s *sceneController) session(c *gin.Context) (string, inbound.SceneOrchestratorPort) {
	sessionID, orchestrator := s.registry.Get(c.GetHeader(SessionHeader))
	c.Header(SessionHeader, sessionID)
	return sessionID, orchestrator
}

func (s *sceneController) broadcaster(sessionID string, orchestrator inbound.SceneOrchestratorPort) (*channel_utils.Broadcaster[domain.StageEvent], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if broadcaster, ok := s.broadcasters[sessionID]; ok {
		return broadcaster, nil
	}
	// The pump drops the map entry itself once the session's event channel
	// closes, so sessions that expire with no SSE client attached do not
	// leave a dead broadcaster behind.
	broadcaster, err := channel_utils.NewBroadcaster(s.workerPool, orchestrator.Events(), func() {
		s.dropBroadcaster(sessionID)
	})
	if err != nil {
		return nil, err
	}
	s.broadcasters[sessionID] = broadcaster
	return broadcaster, nil
}

func (s *sceneController) dropBroadcaster(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.broadcasters, sessionID)
}

func (s *sceneController) renderCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidReference):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGenerationInFlight):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoImageForNarration):
		c.AbortWithStatusJSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionClosed):
		c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, config.ErrUnsupportedAspectRatio), errors.Is(err, config.ErrUnsupportedLanguage):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": dto.NewSceneErrorResponse(err)})
	}
}
