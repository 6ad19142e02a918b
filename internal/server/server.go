// Package server exposes an orchestrator over HTTP. Runs are streamed to the
// client as server-sent events, one frame per event:
//
//	event: chunk
//	data: {"type":"chunk","run_id":"...","provider_id":"fast","text":"Hel","timestamp":"..."}
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/casualjim/lynx"
	"github.com/casualjim/lynx/events"
	"github.com/casualjim/lynx/pkg/slogx"
	"github.com/casualjim/lynx/provider"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/sjson"
)

const shutdownTimeout = 10 * time.Second

type Controller struct {
	orchestrator *lynx.Orchestrator
}

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsLocal bool   `json:"isLocal"`
}

// DefineRoutes builds the HTTP handler for o.
func DefineRoutes(o *lynx.Orchestrator, allowedOrigins []string) *gin.Engine {
	ctrl := &Controller{orchestrator: o}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), CORSMiddleware(allowedOrigins))

	r.GET("/healthz", ctrl.HealthHandler)
	r.GET("/providers", ctrl.ProvidersHandler)
	r.POST("/chat", ctrl.ChatHandler)
	return r
}

func (ctrl *Controller) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (ctrl *Controller) ProvidersHandler(c *gin.Context) {
	infos := []ProviderInfo{}
	for p := range ctrl.orchestrator.Registry().All() {
		infos = append(infos, ProviderInfo{
			ID:      p.ID(),
			Name:    p.Name(),
			IsLocal: provider.Describe(p).IsLocal,
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": infos})
}

func (ctrl *Controller) ChatHandler(c *gin.Context) {
	var req lynx.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	seq, err := ctrl.orchestrator.Orchestrate(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, lynx.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for event := range seq {
		if err := writeEvent(c.Writer, event); err != nil {
			// the client went away; leaving the loop stops the run
			slog.DebugContext(ctx, "stopped streaming run", slogx.Error(err))
			return
		}
	}
}

// writeEvent writes one SSE frame. Provider events also carry their provider
// under modelId, the key browser clients of the chat API read.
func writeEvent(w gin.ResponseWriter, event events.Event) error {
	data, err := events.ToJSON(event)
	if err != nil {
		return err
	}
	if id, ok := events.ProviderID(event); ok {
		if data, err = sjson.SetBytes(data, "modelId", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind(), data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "request",
			slogx.LoggerName("http"),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "listening", slogx.LoggerName("http"), slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
