package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkeye/hlsrelay/internal/adapters/signal"
	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/app/hls"
	"github.com/dkeye/hlsrelay/internal/app/orch"
	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const clientTokenKey = "ct"

// RelayLister reports the transcoders currently running.
type RelayLister interface {
	List() []hls.RelayInfo
}

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware gives every browser a stable token kept in the
// session cookie. It identifies the client in logs only.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(clientTokenKey).(string)
		if token == "" {
			token = genClientToken()
			s.Set(clientTokenKey, token)
			if err := s.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, HEAD")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Range")
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, relays RelayLister) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("HLSRelaySessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	hlsGroup := r.Group("/hls", CORSMiddleware())
	hlsGroup.Static("/", cfg.Relay.OutputDir)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": o.Registry.Len(),
			"relays":   len(relays.List()),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().
		Str("module", "adapters.http").
		Str("static", cfg.StaticPath).
		Str("hls", cfg.Relay.OutputDir).
		Msg("router setup")

	api := r.Group("/api", CORSMiddleware())

	ctrl := signal.NewSignalWSController(o, cfg.Signal)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	api.GET("/streams", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"streams": o.Streams()})
	})
	api.GET("/streams/:id", func(c *gin.Context) {
		info, err := o.Stream(core.SessionID(c.Param("id")))
		if errors.Is(err, app.ErrRelayNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	return r
}
