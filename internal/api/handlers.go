package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"thirdcoast.systems/codecfit/pkg/codecs"
	"thirdcoast.systems/codecfit/pkg/mediafmt"
	"thirdcoast.systems/codecfit/pkg/negotiate"
	"thirdcoast.systems/codecfit/pkg/tracks"
)

var validate = validator.New()

// formatDTO mirrors mediafmt.StreamFormat on the wire. Absent fields stay
// absent; zero is a value.
type formatDTO struct {
	MimeType       string `json:"mime_type,omitempty"`
	Width          *int   `json:"width,omitempty"`
	Height         *int   `json:"height,omitempty"`
	FrameRate      *int   `json:"frame_rate,omitempty"`
	Bitrate        *int   `json:"bitrate,omitempty"`
	IFrameInterval *int   `json:"iframe_interval,omitempty"`
	ColorStandard  *int   `json:"color_standard,omitempty"`
	ColorTransfer  *int   `json:"color_transfer,omitempty"`
	ColorRange     *int   `json:"color_range,omitempty"`
}

func (d formatDTO) toFormat() mediafmt.StreamFormat {
	return mediafmt.StreamFormat{
		MimeType:       d.MimeType,
		Width:          d.Width,
		Height:         d.Height,
		FrameRate:      d.FrameRate,
		Bitrate:        d.Bitrate,
		IFrameInterval: d.IFrameInterval,
		ColorStandard:  d.ColorStandard,
		ColorTransfer:  d.ColorTransfer,
		ColorRange:     d.ColorRange,
	}
}

type rangeDTO struct {
	Lower     int `json:"lower" validate:"gte=0"`
	Upper     int `json:"upper" validate:"gtefield=Lower"`
	Alignment int `json:"alignment" validate:"gte=0"`
}

type capsDTO struct {
	Width        rangeDTO `json:"width"`
	Height       rangeDTO `json:"height"`
	FrameRateMin float64  `json:"frame_rate_min" validate:"gte=0"`
	FrameRateMax float64  `json:"frame_rate_max" validate:"gtefield=FrameRateMin"`
	Bitrate      rangeDTO `json:"bitrate"`
}

func (d capsDTO) toCaps() negotiate.Caps {
	return negotiate.Caps{
		Width:     negotiate.Range{Lower: d.Width.Lower, Upper: d.Width.Upper, Alignment: d.Width.Alignment},
		Height:    negotiate.Range{Lower: d.Height.Lower, Upper: d.Height.Upper, Alignment: d.Height.Alignment},
		FrameRate: negotiate.FrameRateRange{Lower: d.FrameRateMin, Upper: d.FrameRateMax},
		Bitrate:   negotiate.Range{Lower: d.Bitrate.Lower, Upper: d.Bitrate.Upper, Alignment: d.Bitrate.Alignment},
	}
}

type negotiateRequest struct {
	Source          formatDTO `json:"source"`
	Requested       formatDTO `json:"requested"`
	Caps            *capsDTO  `json:"caps,omitempty"`
	BitrateOverride *int      `json:"bitrate_override,omitempty"`
}

type negotiateResponse struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	FrameRate      int    `json:"frame_rate"`
	Bitrate        int    `json:"bitrate"`
	IFrameInterval int    `json:"iframe_interval"`
	ColorFormat    int    `json:"color_format"`
	ColorStandard  *int   `json:"color_standard,omitempty"`
	ColorTransfer  *int   `json:"color_transfer,omitempty"`
	ColorRange     *int   `json:"color_range,omitempty"`
}

func (s *Server) handleNegotiate(c echo.Context) error {
	var req negotiateRequest
	if err := c.Bind(&req); err != nil {
		return c.String(400, "invalid json")
	}

	if s.conf.GateCodec != "" && !codecs.HasEncoder(s.codecs, s.conf.GateCodec) {
		return c.String(503, fmt.Sprintf("gate codec %q not available on this platform", s.conf.GateCodec))
	}

	caps := s.conf.Caps()
	if req.Caps != nil {
		if err := validate.Struct(req.Caps); err != nil {
			return c.String(400, "invalid caps: "+err.Error())
		}
		caps = req.Caps.toCaps()
	}

	res, err := negotiate.Negotiate(req.Source.toFormat(), req.Requested.toFormat(), caps, req.BitrateOverride)
	if err != nil {
		if errors.Is(err, negotiate.ErrZeroDimension) {
			return c.String(400, err.Error())
		}
		slog.Error("negotiation failed", "error", err)
		return c.String(500, "negotiation failed")
	}

	id := uuid.NewString()
	slog.Info("negotiated format",
		"id", id,
		"output", fmt.Sprintf("%dx%d@%d", res.Width, res.Height, res.FrameRate),
		"bitrate", humanize.SI(float64(res.Bitrate), "bps"))

	return c.JSON(200, negotiateResponse{
		ID:             id,
		Width:          res.Width,
		Height:         res.Height,
		FrameRate:      res.FrameRate,
		Bitrate:        res.Bitrate,
		IFrameInterval: res.IFrameInterval,
		ColorFormat:    res.ColorFormat,
		ColorStandard:  res.ColorStandard,
		ColorTransfer:  res.ColorTransfer,
		ColorRange:     res.ColorRange,
	})
}

func (s *Server) handleFindTrack(c echo.Context) error {
	var req struct {
		MimeTypes []string `json:"mime_types"`
		WantVideo bool     `json:"want_video"`
	}
	if err := c.Bind(&req); err != nil {
		return c.String(400, "invalid json")
	}

	idx := tracks.Find(req.MimeTypes, req.WantVideo)
	return c.JSON(200, map[string]any{
		"index": idx,
		"found": idx != tracks.NotFound,
	})
}

func (s *Server) handleCodecProbe(c echo.Context) error {
	name := c.Param("name")
	return c.JSON(200, map[string]any{
		"name":      name,
		"available": codecs.Has(s.codecs, name),
	})
}
