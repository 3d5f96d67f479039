package gateway

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpapi "shareit-backend/internal/api/http"
	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Gateway validates requests and relays the valid ones to the backend.
type Gateway struct {
	client *Client
	v      *validator.Validate
}

func New(client *Client) *Gateway {
	return &Gateway{client: client, v: newValidator()}
}

// NewServer returns an echo instance serving every backend route through g.
func NewServer(g *Gateway) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLog())

	g.RegisterRoutes(e)
	return e
}

func (g *Gateway) RegisterRoutes(e *echo.Echo) {
	e.POST("/users", g.body(func() any { return &userCreateInput{} }))
	e.GET("/users", g.relay)
	e.GET("/users/:id", g.withID(g.relay))
	e.PATCH("/users/:id", g.withID(g.body(func() any { return &userPatchInput{} })))
	e.DELETE("/users/:id", g.withID(g.relay))

	e.POST("/items", g.withUser(g.body(func() any { return &itemCreateInput{} })))
	e.GET("/items", g.withUser(g.relay))
	e.GET("/items/search", g.withUser(g.relay))
	e.GET("/items/:id", g.withUser(g.withID(g.relay)))
	e.PATCH("/items/:id", g.withUser(g.withID(g.body(func() any { return &itemPatchInput{} }))))
	e.POST("/items/:id/comment", g.withUser(g.withID(g.body(func() any { return &commentInput{} }))))

	e.POST("/bookings", g.withUser(g.body(func() any { return &bookingInput{} })))
	e.GET("/bookings", g.withUser(g.withState(g.relay)))
	e.GET("/bookings/owner", g.withUser(g.withState(g.relay)))
	e.GET("/bookings/:id", g.withUser(g.withID(g.relay)))
	e.PATCH("/bookings/:id", g.withUser(g.withID(g.approve)))

	e.POST("/requests", g.withUser(g.body(func() any { return &itemRequestInput{} })))
	e.GET("/requests", g.withUser(g.relay))
	e.GET("/requests/all", g.withUser(g.paged))
	e.GET("/requests/:id", g.withUser(g.withID(g.relay)))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// withUser requires a positive identity header.
func (g *Gateway) withUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Request().Header.Get(httpapi.UserIDHeader), 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "missing or invalid "+httpapi.UserIDHeader+" header")
		}
		return next(c)
	}
}

func (g *Gateway) withID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "id must be a positive integer")
		}
		return next(c)
	}
}

func (g *Gateway) withState(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := domain.ParseBookingState(c.QueryParam("state")); err != nil {
			return badRequest(c, domain.MessageOf(err))
		}
		return next(c)
	}
}

func (g *Gateway) approve(c echo.Context) error {
	if _, err := strconv.ParseBool(c.QueryParam("approved")); err != nil {
		return badRequest(c, "approved must be true or false")
	}
	return g.relay(c)
}

func (g *Gateway) paged(c echo.Context) error {
	var in pageInput
	var err error
	if in.From, err = intParam(c, "from", 0); err != nil {
		return badRequest(c, "from must be an integer")
	}
	if in.Size, err = intParam(c, "size", 10); err != nil {
		return badRequest(c, "size must be an integer")
	}
	if err := g.v.Struct(in); err != nil {
		return badRequest(c, describe(err))
	}
	return g.relay(c)
}

// body decodes the JSON body into a fresh input, validates it and forwards the original bytes.
func (g *Gateway) body(newInput func() any) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return badRequest(c, "failed to read request body")
		}
		in := newInput()
		if err := json.Unmarshal(raw, in); err != nil {
			return badRequest(c, "malformed request body")
		}
		if err := g.v.Struct(in); err != nil {
			return badRequest(c, describe(err))
		}
		return g.forward(c, raw)
	}
}

func (g *Gateway) relay(c echo.Context) error {
	return g.forward(c, nil)
}

func (g *Gateway) forward(c echo.Context, body []byte) error {
	req := c.Request()
	header := req.Header.Clone()
	header.Set(echo.HeaderXRequestID, c.Response().Header().Get(echo.HeaderXRequestID))

	resp, err := g.client.Forward(req.Context(), req.Method, req.URL.Path, req.URL.RawQuery, header, body)
	if err != nil {
		logger.Warn("Backend call failed", "path", req.URL.Path, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
	}
	if len(resp.Body) == 0 {
		return c.NoContent(resp.Status)
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(resp.Status, contentType, resp.Body)
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func requestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("Gateway request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return err
		}
	}
}

// jsonSerializer is echo's JSON codec backed by jsoniter.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	return nil
}
