package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kfcybersecurity/msp-portal/internal/api/metrics"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// ServiceHandler serves the catalog.
type ServiceHandler struct {
	registry ports.RegistryService
	metrics  *metrics.Metrics
}

func NewServiceHandler(registry ports.RegistryService, m *metrics.Metrics) *ServiceHandler {
	return &ServiceHandler{registry: registry, metrics: m}
}

// List handles GET /api/services.
//
// @Summary      List the service catalog
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   serviceResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	services, err := h.registry.ListServices(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		resp = append(resp, toServiceResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/services.
//
// @Summary      Add a service to the catalog
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  serviceResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req createServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	svc, err := h.registry.CreateService(c.Request().Context(), caller, ports.CreateServiceInput{
		Name:        req.Name,
		Vertical:    req.Vertical,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	h.metrics.ServicesCreated.WithLabelValues(string(svc.Vertical)).Inc()
	return c.JSON(http.StatusCreated, toServiceResponse(*svc))
}
