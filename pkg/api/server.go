// Package api provides the REST API server for midi2ahap
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/james-see/midi2ahap/pkg/ahap"
	"github.com/james-see/midi2ahap/pkg/config"
	"github.com/james-see/midi2ahap/pkg/converter"
	"github.com/james-see/midi2ahap/pkg/converter/kits"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title midi2ahap API
// @version 1.0
// @description API for authoring Apple Haptic and Audio Pattern (AHAP) documents
// @host localhost:8080
// @BasePath /api/v1

// RequestIDHeader carries the per request ID
const RequestIDHeader = "X-Request-ID"

// maxUploadSize bounds uploaded MIDI and haptrack files
const maxUploadSize = 8 << 20

// maxRequestSize leaves room for multipart framing around the upload
const maxRequestSize = maxUploadSize + 1<<20

// CurveRequest is the body of POST /api/v1/curve
type CurveRequest struct {
	StartTime  float64 `json:"startTime"`
	EndTime    float64 `json:"endTime"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Steps      *int    `json:"steps,omitempty"`
}

// CurveResponse is the generated control point list
type CurveResponse struct {
	Points []ahap.ControlPoint `json:"points"`
}

// SharpnessResponse is the result of a frequency mapping
type SharpnessResponse struct {
	Frequency float64 `json:"frequency"`
	Sharpness float64 `json:"sharpness"`
}

type handler struct {
	cfg    config.Config
	logger *slog.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(cfg config.Config, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{cfg: cfg, logger: logger}

	r := gin.Default()
	r.MaxMultipartMemory = maxUploadSize

	r.Use(requestIDMiddleware())
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/parameters", listParameters)
		v1.GET("/sharpness", handleSharpness)
		v1.POST("/curve", handleCurve)
		v1.POST("/convert/midi2ahap", h.handleMIDIToAHAP)
		v1.POST("/convert/hap2ahap", h.handleHaptrackToAHAP)
		v1.GET("/formats", listFormats)
		v1.GET("/kits", listKits)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on cfg.Port
func StartServer(cfg config.Config, logger *slog.Logger) error {
	return NewRouter(cfg, logger).Run(fmt.Sprintf(":%d", cfg.Port))
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2ahap",
	})
}

// listParameters godoc
// @Summary List parameter IDs
// @Description Returns the event parameter and curve parameter catalogs
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/parameters [get]
func listParameters(c *gin.Context) {
	var params, curves []string
	for _, q := range ahap.Quantities() {
		params = append(params, string(q.Param()))
		curves = append(curves, string(q.Curve()))
	}
	c.JSON(http.StatusOK, gin.H{
		"eventParameters": params,
		"curveParameters": curves,
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []converter.Format{converter.FormatMIDI, converter.FormatHaptrack, converter.FormatAHAP},
		"conversions": converter.GetSupportedConversions(),
	})
}

// listKits godoc
// @Summary List drum kits
// @Description Returns the drum kits available for MIDI conversion
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/kits [get]
func listKits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kits": kits.IDs()})
}

// handleSharpness godoc
// @Summary Map a frequency to sharpness
// @Description Maps a frequency in Hz to a normalized haptic sharpness
// @Tags haptics
// @Produce json
// @Param freq query number true "Frequency in Hz"
// @Param normalize query bool false "Clamp to 80-230 Hz (default: true)"
// @Success 200 {object} SharpnessResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/sharpness [get]
func handleSharpness(c *gin.Context) {
	freq, err := strconv.ParseFloat(c.Query("freq"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "freq must be a number"})
		return
	}
	normalize, err := strconv.ParseBool(c.DefaultQuery("normalize", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "normalize must be a boolean"})
		return
	}

	sharpness, err := ahap.FreqToSharpness(freq, normalize)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, SharpnessResponse{Frequency: freq, Sharpness: sharpness})
}

// handleCurve godoc
// @Summary Generate a linear curve
// @Description Generates control points for a linear parameter ramp
// @Tags haptics
// @Accept json
// @Produce json
// @Param request body CurveRequest true "Curve segment"
// @Success 200 {object} CurveResponse
// @Failure 400 {object} map[string]string "bad body, or steps outside 1..10000"
// @Router /api/v1/curve [post]
func handleCurve(c *gin.Context) {
	var req CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	steps := ahap.DefaultSteps
	if req.Steps != nil {
		steps = *req.Steps
	}

	points, err := ahap.CreateCurve(req.StartTime, req.EndTime, req.StartValue, req.EndValue, steps)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, CurveResponse{Points: points})
}

// handleMIDIToAHAP godoc
// @Summary Convert MIDI to AHAP
// @Description Upload a MIDI file and receive an AHAP document
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file to convert"
// @Param kit query string false "Drum kit (default: gm, none disables drums)"
// @Param velocity query bool false "Scale intensity by note velocity"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /api/v1/convert/midi2ahap [post]
func (h *handler) handleMIDIToAHAP(c *gin.Context) {
	kit, err := kits.Get(c.DefaultQuery("kit", kits.GMKitID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	velocity, err := strconv.ParseBool(c.DefaultQuery("velocity", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "velocity must be a boolean"})
		return
	}

	h.handleConversion(c, converter.Options{Drums: kit, VelocityIntensity: velocity},
		func(conv *converter.Converter, name string, data []byte) (*ahap.AHAP, error) {
			doc, stats, err := conv.MIDIToAHAP(name, data)
			if err != nil {
				return nil, err
			}
			h.logger.Info("converted MIDI",
				slog.String("file", name),
				slog.Int("events", stats.Total()),
				slog.Int("unmatched_note_offs", stats.UnmatchedNoteOffs))
			return doc, nil
		})
}

// handleHaptrackToAHAP godoc
// @Summary Convert haptrack to AHAP
// @Description Upload a haptrack score and receive an AHAP document
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Haptrack score to compile"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /api/v1/convert/hap2ahap [post]
func (h *handler) handleHaptrackToAHAP(c *gin.Context) {
	h.handleConversion(c, converter.Options{},
		func(conv *converter.Converter, _ string, data []byte) (*ahap.AHAP, error) {
			return conv.HaptrackToAHAP(data)
		})
}

// convertFunc turns an uploaded file into a document
type convertFunc func(conv *converter.Converter, name string, data []byte) (*ahap.AHAP, error)

func (h *handler) handleConversion(c *gin.Context, opts converter.Options, convert convertFunc) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

	// Get uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", maxUploadSize)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	if len(data) > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", maxUploadSize)})
		return
	}

	opts.CreatedBy = h.cfg.Author
	opts.Indent = h.cfg.Indent
	opts.Logger = h.logger.With(slog.String("request_id", c.GetString("requestID")))
	conv := converter.New(opts)

	doc, err := convert(conv, header.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := conv.Encode(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := converter.OutputPath(filepath.Base(header.Filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputName))
	c.Data(http.StatusOK, "application/json", result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ahap.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ahap.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
