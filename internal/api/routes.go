// routes.go - router construction and route registration
package api

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coenradina/splitbill/internal/extract"
	mw "github.com/coenradina/splitbill/internal/middleware"
	"github.com/coenradina/splitbill/internal/token"
)

// Dependencies holds the collaborators the workflow handlers need.
type Dependencies struct {
	Extractor extract.Extractor
	Codec     *token.Codec

	// BodyLimit caps the request body (and with it the uploaded
	// image) in echo's size syntax, e.g. "8M". Empty means 8M.
	BodyLimit string
}

// NewRouter builds the echo instance with all routes and middleware
// registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = ErrorHandler

	bodyLimit := deps.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "8M"
	}
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(mw.RequestLogger())
	e.Use(mw.Metrics())

	h := NewHandler(deps.Extractor, deps.Codec)
	e.GET("/", h.HandleIndex)
	e.POST("/parse", h.HandleParse)
	e.POST("/result", h.HandleResult)
	e.GET("/healthz", h.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}
