package v1

import (
	"net/http"
	"strconv"

	"go-collab-backend/config"
	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DiscoveryHandler struct {
	discoveryUC domain.DiscoveryUsecase
	cfg         *config.Config
}

func NewDiscoveryHandler(protected *gin.RouterGroup, discoveryUC domain.DiscoveryUsecase, cfg *config.Config) {
	handler := &DiscoveryHandler{discoveryUC: discoveryUC, cfg: cfg}

	discover := protected.Group("/discovery")
	{
		discover.GET("/recommended", handler.Recommended)
		discover.GET("/latest", handler.Latest)
	}
}

func (h *DiscoveryHandler) pageLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit <= 0 || limit > h.cfg.DiscoveryPageSize {
		return h.cfg.DiscoveryPageSize
	}
	return limit
}

// Recommended godoc
// @Summary      Recommended collabs
// @Description  Open collab postings ranked for the authenticated creator, best match first. Each entry carries the match score and its per-factor breakdown.
// @Tags         discovery
// @Produce      json
// @Param        limit  query     int  false  "Max results"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /discovery/recommended [get]
// @Security     BearerAuth
func (h *DiscoveryHandler) Recommended(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	ranked, err := h.discoveryUC.Recommended(c.Request.Context(), userID, h.pageLimit(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Recommended collabs", gin.H{
		"collabs": ranked,
		"total":   len(ranked),
	})
}

// Latest godoc
// @Summary      Latest collabs
// @Description  Open collab postings newest first, without personalization
// @Tags         discovery
// @Produce      json
// @Param        limit  query     int  false  "Max results"
// @Success      200    {object}  response.Response
// @Router       /discovery/latest [get]
// @Security     BearerAuth
func (h *DiscoveryHandler) Latest(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	collabs, err := h.discoveryUC.Latest(c.Request.Context(), userID, h.pageLimit(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Latest collabs", gin.H{
		"collabs": collabs,
		"total":   len(collabs),
	})
}
