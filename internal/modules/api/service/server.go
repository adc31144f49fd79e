package service

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signal_bot/internal/models"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

// Server — HTTP-поверхность бота: ingest от коллектора, управление, состояние, экспорт.
type Server struct {
	bot    *runner.Bot
	health *health.State
}

func NewServer(bot *runner.Bot, state *health.State) *Server {
	return &Server{bot: bot, health: state}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), traced())

	r.GET("/", s.handleIndex)
	r.POST("/ingest", s.handleIngest)
	r.POST("/control", s.handleControl)
	r.GET("/state", s.handleState)
	r.GET("/export_signals", s.handleExport)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// traced — span на каждый запрос.
func traced() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := tracing.StartSpan(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.Finish()
		ext.HTTPMethod.Set(span, c.Request.Method)
		ext.HTTPUrl.Set(span, c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
	}
}

// decodeBody: битый или пустой JSON — пустой объект, ошибки наружу не отдаём.
func decodeBody(c *gin.Context, v any) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		logger.Debug("[API] %s: bad json: %v", c.FullPath(), err)
	}
}

func writeJSON(c *gin.Context, code int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("[API] marshal: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(code, "application/json; charset=utf-8", body)
}

func (s *Server) handleIngest(c *gin.Context) {
	var req runner.IngestRequest
	var raw map[string]any
	decodeBody(c, &raw)
	if h, ok := raw["history"].([]any); ok {
		req.History = h
	}
	req.ClientSentAt = raw["client_sent_at"]

	res := s.bot.Ingest(c.Request.Context(), req)
	s.health.Ingested(res.Added, res.Time)
	writeJSON(c, http.StatusOK, res)
}

func (s *Server) handleControl(c *gin.Context) {
	var raw map[string]any
	decodeBody(c, &raw)
	resp := s.bot.Control(models.ParseControlRequest(raw))
	writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleState(c *gin.Context) {
	writeJSON(c, http.StatusOK, s.bot.State())
}

func (s *Server) handleExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.bot.ExportCSV(&buf); err != nil {
		logger.Error("[API] export: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="signals.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// ReadHeaderTimeout для http.Server.
const ReadHeaderTimeout = 5 * time.Second
