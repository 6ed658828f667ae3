// Package api exposes format negotiation over HTTP for pipeline components
// that sit outside this process.
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"thirdcoast.systems/codecfit/internal/config"
	"thirdcoast.systems/codecfit/pkg/codecs"
)

type Server struct {
	*echo.Echo
	conf   *config.Config
	codecs []codecs.Codec
}

// NewServer wires routes and middleware over the given configuration.
// codecList is the platform codec inventory used by the existence probe; nil
// selects the built-in default list.
func NewServer(conf *config.Config, codecList []codecs.Codec) *Server {
	if codecList == nil {
		codecList = codecs.Platform()
	}

	s := &Server{
		Echo:   echo.New(),
		conf:   conf,
		codecs: codecList,
	}

	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("1M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())

	s.POST("/api/negotiate", s.handleNegotiate)
	s.POST("/api/tracks/find", s.handleFindTrack)
	s.GET("/api/codecs/:name", s.handleCodecProbe)

	return s
}
