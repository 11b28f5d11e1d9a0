package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kfcybersecurity/msp-portal/internal/api/metrics"
	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// DeploymentHandler serves the client/service relation. Tenant scope is
// enforced by the service, not by route middleware.
type DeploymentHandler struct {
	service ports.DeploymentService
	metrics *metrics.Metrics
}

func NewDeploymentHandler(service ports.DeploymentService, m *metrics.Metrics) *DeploymentHandler {
	return &DeploymentHandler{service: service, metrics: m}
}

// List handles GET /api/deployments.
//
// @Summary      List deployments, newest first
// @Description  Admins see every tenant and may filter by clientId. Client users always see their own tenant.
// @Tags         deployments
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Filter by client (admins only)"
// @Success      200       {array}   deploymentResponse
// @Failure      400       {object}  map[string]string
// @Failure      401       {object}  map[string]string
// @Router       /api/deployments [get]
func (h *DeploymentHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	deployments, err := h.service.ListDeployments(c.Request().Context(), caller, c.QueryParam("clientId"))
	if err != nil {
		return err
	}

	resp := make([]deploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		resp = append(resp, toDeploymentResponse(d))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/deployments.
//
// @Summary      Deploy a service to a client
// @Tags         deployments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deployRequest  true  "Client and service"
// @Success      201   {object}  deploymentResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/deployments [post]
func (h *DeploymentHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req deployRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.Deploy(c.Request().Context(), caller, req.ClientID, int64(req.ServiceID))
	if err != nil {
		if errors.Is(err, domain.ErrDeploymentExists) {
			h.metrics.DeploymentConflicts.Inc()
		}
		return err
	}
	h.metrics.DeploymentsCreated.Inc()
	return c.JSON(http.StatusCreated, toDeploymentResponse(*d))
}

// Delete handles DELETE /api/deployments?clientId=&serviceId=.
//
// @Summary      Remove a deployment
// @Description  Succeeds whether or not the pair was deployed.
// @Tags         deployments
// @Produce      json
// @Security     BearerAuth
// @Param        clientId   query     string   true  "Client ID"
// @Param        serviceId  query     integer  true  "Service ID"
// @Success      200        {object}  successResponse
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Router       /api/deployments [delete]
func (h *DeploymentHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	clientID := c.QueryParam("clientId")
	serviceID := parseServiceID(c.QueryParam("serviceId"))
	if err := h.service.Remove(c.Request().Context(), caller, clientID, serviceID); err != nil {
		return err
	}
	h.metrics.DeploymentsRemoved.Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
