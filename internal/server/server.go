package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mabeldev/invoice-extractor/constants"
	"github.com/mabeldev/invoice-extractor/internal/common"
	"github.com/mabeldev/invoice-extractor/internal/pipeline"
	"github.com/mabeldev/invoice-extractor/internal/product"
)

const Version = "1.0.0"

// Server is the HTTP boundary over the extraction pipeline.
type Server struct {
	proc   *pipeline.Processor
	logger *slog.Logger
}

// ExtractionResponse is the envelope for the extract endpoint.
type ExtractionResponse struct {
	Success  bool             `json:"success"`
	Products []product.Record `json:"products"`
	Metadata map[string]any   `json:"metadata"`
}

// HealthResponse is the health check envelope.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func New(proc *pipeline.Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{proc: proc, logger: logger}
}

// Router builds the gin engine with CORS for the configured frontend origin.
func (s *Server) Router(cfg common.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = constants.MaxUploadBytes

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if cfg.FrontendURL != "" {
		corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, cfg.FrontendURL)
	}
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)
	r.POST("/extract", s.handleExtract)
	return r
}
