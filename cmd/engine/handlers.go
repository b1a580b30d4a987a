package main

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type lineRequest struct {
	Name               string  `json:"name"`
	ItemCode           string  `json:"itemCode" validate:"required"`
	ItemName           string  `json:"itemName"`
	ItemGroup          string  `json:"itemGroup"`
	UOM                string  `json:"uom"`
	ConversionFactor   float64 `json:"conversionFactor" validate:"gte=0"`
	Qty                float64 `json:"qty" validate:"gte=0"`
	WeightPerUnit      float64 `json:"weightPerUnit" validate:"gte=0"`
	PriceListRate      float64 `json:"priceListRate" validate:"gte=0"`
	Rate               float64 `json:"rate" validate:"gte=0"`
	DiscountPercentage float64 `json:"discountPercentage" validate:"gte=0,lte=100"`
	DiscountAmount     float64 `json:"discountAmount"`
}

type orderRequest struct {
	Customer      string        `json:"customer"`
	CustomerGroup string        `json:"customerGroup"`
	Territory     string        `json:"territory"`
	Currency      string        `json:"currency"`
	Lines         []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r orderRequest) toDomain(id string) domain.Order {
	order := domain.Order{
		ID:            id,
		Customer:      r.Customer,
		CustomerGroup: r.CustomerGroup,
		Territory:     r.Territory,
		Currency:      r.Currency,
		Lines:         make([]domain.OrderLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			Name:               l.Name,
			ItemCode:           l.ItemCode,
			ItemName:           l.ItemName,
			ItemGroup:          l.ItemGroup,
			UOM:                l.UOM,
			ConversionFactor:   l.ConversionFactor,
			Qty:                l.Qty,
			WeightPerUnit:      l.WeightPerUnit,
			PriceListRate:      l.PriceListRate,
			Rate:               l.Rate,
			DiscountPercentage: l.DiscountPercentage,
			DiscountAmount:     l.DiscountAmount,
		})
	}
	return order
}

type freeItemRequest struct {
	ItemCode string  `json:"itemCode" validate:"required"`
	Qty      float64 `json:"qty" validate:"gte=0"`
}

type applyRequest struct {
	SchemeID   string            `json:"schemeId" validate:"required"`
	SchemeRows []string          `json:"schemeRows"`
	FreeItems  []freeItemRequest `json:"freeItems" validate:"dive"`
}

func (r applyRequest) toDomain() domain.Selection {
	sel := domain.Selection{SchemeID: r.SchemeID, SchemeRows: r.SchemeRows}
	for _, fi := range r.FreeItems {
		sel.FreeItems = append(sel.FreeItems, domain.FreeItemSelection{ItemCode: fi.ItemCode, Qty: fi.Qty})
	}
	return sel
}

type submitRequest struct {
	BypassSchemes bool `json:"bypassSchemes"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Data    any       `json:"data,omitempty"`
	Warning string    `json:"warning,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type server struct {
	svc      interfaces.SchemeFacade
	logg     *logger.Logger
	validate *validator.Validate
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func registerRoutes(e *echo.Echo, svc interfaces.SchemeFacade, logg *logger.Logger, gatherer prometheus.Gatherer) {
	s := &server{svc: svc, logg: logg, validate: newValidator()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(s.requestContext)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	orders := e.Group("/orders/:id")
	orders.PUT("", s.handleSaveOrder)
	orders.GET("", s.handleGetOrder)
	orders.PATCH("", s.handlePatchOrder)
	orders.GET("/schemes", s.handleAvailableSchemes)
	orders.POST("/schemes/apply", s.handleApplyScheme)
	orders.POST("/schemes/auto-apply", s.handleAutoApply)
	orders.DELETE("/schemes/:scheme", s.handleRemoveScheme)
	orders.GET("/schemes/pending", s.handlePending)
	orders.POST("/submit", s.handleSubmit)
}

// requestContext carries the request id on the logging context.
func (s *server) requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		c.SetRequest(req.WithContext(s.logg.WithRequestID(req.Context(), id)))
		return next(c)
	}
}

func (s *server) bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if err := s.validate.Struct(dest); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			details := map[string]string{}
			for _, fe := range errs {
				details[fe.Namespace()] = validationMessage(fe)
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}

func (s *server) handleSaveOrder(c echo.Context) error {
	var req orderRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}
	order, err := s.svc.SaveOrder(c.Request().Context(), req.toDomain(c.Param("id")))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: order})
}

func (s *server) handleGetOrder(c echo.Context) error {
	order, err := s.svc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: order})
}

func (s *server) handlePatchOrder(c echo.Context) error {
	patch, err := io.ReadAll(c.Request().Body)
	if err != nil || len(strings.TrimSpace(string(patch))) == 0 {
		return s.writeError(c, pkgerrors.New(pkgerrors.CodeValidation, "a JSON patch body is required"))
	}
	order, err := s.svc.PatchOrder(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: order})
}

func (s *server) handleAvailableSchemes(c echo.Context) error {
	catalog, err := s.svc.AvailableSchemes(c.Request().Context(), c.Param("id"))
	var warning string
	if err != nil {
		// An unavailable catalog is reported, not fatal: the order stays editable.
		if !pkgerrors.Is(err, pkgerrors.CodeCatalogUnavailable) || catalog == nil {
			return s.writeError(c, err)
		}
		warning = pkgerrors.MetadataFor(pkgerrors.CodeCatalogUnavailable).PublicMessage
	}
	return c.JSON(http.StatusOK, envelope{
		Data: map[string]any{
			"catalog": catalog,
			"ordered": catalog.Ordered(),
		},
		Warning: warning,
	})
}

func (s *server) handleApplyScheme(c echo.Context) error {
	var req applyRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}
	res, err := s.svc.ApplyScheme(c.Request().Context(), c.Param("id"), req.toDomain())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: res})
}

func (s *server) handleAutoApply(c echo.Context) error {
	order, err := s.svc.AutoApply(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: order})
}

func (s *server) handleRemoveScheme(c echo.Context) error {
	order, err := s.svc.RemoveScheme(c.Request().Context(), c.Param("id"), c.Param("scheme"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: order})
}

func (s *server) handlePending(c echo.Context) error {
	pending, err := s.svc.HasEligibleUnappliedSchemes(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: map[string]bool{"hasEligibleUnappliedSchemes": pending}})
}

func (s *server) handleSubmit(c echo.Context) error {
	var req submitRequest
	if c.Request().ContentLength != 0 {
		if err := s.bind(c, &req); err != nil {
			return s.writeError(c, err)
		}
	}
	order, err := s.svc.Submit(c.Request().Context(), c.Param("id"), req.BypassSchemes)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Data: order})
}

func (s *server) writeError(c echo.Context, err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeInternal, pkgerrors.CodeDependency:
	default:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	body := &apiError{Code: string(typed.Code()), Message: msg}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	ctx := s.logg.WithFields(c.Request().Context(), map[string]any{
		"error_code": typed.Code(),
		"path":       c.Path(),
	})
	if meta.HTTPStatus >= http.StatusInternalServerError {
		s.logg.Error(ctx, "request.error", err)
	} else {
		s.logg.Warn(ctx, "request.rejected: "+typed.Error())
	}
	return c.JSON(meta.HTTPStatus, envelope{Error: body})
}
