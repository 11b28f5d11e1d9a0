package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kfcybersecurity/msp-portal/internal/api/metrics"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// ClientHandler serves tenant administration. Every route is admin-only.
type ClientHandler struct {
	registry ports.RegistryService
	metrics  *metrics.Metrics
}

func NewClientHandler(registry ports.RegistryService, m *metrics.Metrics) *ClientHandler {
	return &ClientHandler{registry: registry, metrics: m}
}

// List handles GET /api/clients.
//
// @Summary      List clients with deployment and user counts
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   clientSummaryResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	summaries, err := h.registry.ListClients(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]clientSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, toClientSummaryResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.registry.CreateClient(c.Request().Context(), caller, req.Name, req.Description)
	if err != nil {
		return err
	}
	h.metrics.ClientsCreated.Inc()
	return c.JSON(http.StatusCreated, toClientResponse(*client))
}

// Delete handles DELETE /api/clients/:id.
//
// @Summary      Delete a client with its users and deployments
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  successResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.registry.DeleteClient(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
