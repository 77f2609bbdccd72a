package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/target-vision/internal/config"
	"github.com/ironsheep/target-vision/internal/detection"
	"github.com/ironsheep/target-vision/internal/imaging"
)

// multipartOverhead is the allowance for multipart headers and boundaries on
// top of the upload limit when capping the request body.
const multipartOverhead = 64 << 10

// Handler serves the /api/v1 routes.
type Handler struct {
	cfg    config.Config
	logger *zap.Logger
}

// NewHandler creates a Handler bound to cfg.
func NewHandler(cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{cfg: *cfg, logger: logger}
}

// Detect runs the full pipeline on an uploaded frame.
//
// Query parameters hsv_min and hsv_max ("h,s,v") override the configured
// range; overlay=true adds the annotated frame as base64 PNG.
func (h *Handler) Detect(c *gin.Context) {
	cfg := h.cfg.Detection
	threshold, err := h.thresholdFromQuery(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid HSV range", err)
		return
	}
	cfg.Threshold = threshold

	img, ok := h.readFrame(c)
	if !ok {
		return
	}

	det, err := detection.NewDetector(&cfg, h.logger).Detect(c.Request.Context(), img)
	if err != nil {
		h.fail(c, statusFor(err), "detection failed", err)
		return
	}

	data := &DetectData{Detection: det}
	if boolQuery(c, "overlay") {
		data.Overlay, err = imaging.EncodePNGBase64(detection.RenderOverlay(img, det))
		if err != nil {
			h.fail(c, http.StatusInternalServerError, "failed to render overlay", err)
			return
		}
	}

	msg := "no target pair found"
	if det.Pair != nil {
		msg = "target pair found"
	}
	c.JSON(http.StatusOK, DetectResponse{Success: true, Message: msg, Data: data})
}

// Mask returns the binary mask of an uploaded frame as a PNG body, or the
// masked color frame with preview=true. The foreground pixel count is sent
// in the X-Foreground-Pixels header.
func (h *Handler) Mask(c *gin.Context) {
	threshold, err := h.thresholdFromQuery(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid HSV range", err)
		return
	}

	img, ok := h.readFrame(c)
	if !ok {
		return
	}

	mask := detection.PrepareMask(img, threshold)
	var out image.Image = mask
	if boolQuery(c, "preview") {
		out = detection.ApplyMask(img, mask)
	}

	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, out); err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to encode mask", err)
		return
	}

	c.Header("X-Foreground-Pixels", strconv.Itoa(detection.ForegroundCount(mask)))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// ScorePair scores one oriented box pair against a caller supplied mid
// point.
func (h *Handler) ScorePair(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.MidPoint <= 0 {
		h.fail(c, http.StatusBadRequest, "invalid request body",
			fmt.Errorf("mid_point must be positive, got %g", req.MidPoint))
		return
	}

	scorer := detection.NewPairScorer(h.cfg.Detection.Pairing, req.MidPoint)
	c.JSON(http.StatusOK, ScoreResponse{
		Success:  true,
		Score:    scorer.Score(req.Left, req.Right),
		MidPoint: req.MidPoint,
	})
}

// Config reports the detection tuning in effect.
func (h *Handler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.Detection)
}

// readFrame decodes the "image" upload and scales it to the working
// resolution. On failure it has already written the error response.
func (h *Handler) readFrame(c *gin.Context) (image.Image, bool) {
	limit := h.cfg.HTTP.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d byte upload limit", limit), nil)
			return nil, false
		}
		h.fail(c, http.StatusBadRequest, "an image file is required", err)
		return nil, false
	}

	if file.Size > limit {
		h.fail(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", limit), nil)
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to read upload", err)
		return nil, false
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "unsupported image", err)
		return nil, false
	}

	img, err = imaging.Resize(img, h.cfg.Image.ResizeWidth, h.cfg.Image.ResizeHeight)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to resize image", err)
		return nil, false
	}
	return img, true
}

// thresholdFromQuery applies hsv_min and hsv_max overrides to the
// configured threshold stage and validates the result.
func (h *Handler) thresholdFromQuery(c *gin.Context) (detection.ThresholdConfig, error) {
	t := h.cfg.Detection.Threshold
	for _, o := range []struct {
		key string
		dst *detection.HSV
	}{
		{"hsv_min", &t.Min},
		{"hsv_max", &t.Max},
	} {
		raw, ok := c.GetQuery(o.key)
		if !ok {
			continue
		}
		v, err := parseHSV(raw)
		if err != nil {
			return t, fmt.Errorf("%s: %w", o.key, err)
		}
		*o.dst = v
	}

	cfg := h.cfg.Detection
	cfg.Threshold = t
	if err := cfg.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// parseHSV reads "h,s,v".
func parseHSV(s string) (detection.HSV, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return detection.HSV{}, fmt.Errorf("%w: want h,s,v, got %q", detection.ErrInvalidRange, s)
	}

	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return detection.HSV{}, fmt.Errorf("%w: %q is not an integer", detection.ErrInvalidRange, p)
		}
		v[i] = n
	}
	return detection.HSV{H: v[0], S: v[1], V: v[2]}, nil
}

func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

// statusFor maps pipeline errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, detection.ErrNilImage),
		errors.Is(err, detection.ErrEmptyImage),
		errors.Is(err, detection.ErrInvalidRange),
		errors.Is(err, detection.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	resp := ErrorResponse{Success: false, Message: msg}
	if err != nil {
		resp.Error = err.Error()
		_ = c.Error(err)
	}
	h.logger.Warn(msg, zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, resp)
}
