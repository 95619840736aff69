package v1

import (
	"net/http"

	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CollabHandler struct {
	collabUC domain.CollabUsecase
}

func NewCollabHandler(protected *gin.RouterGroup, collabUC domain.CollabUsecase) {
	handler := &CollabHandler{collabUC: collabUC}

	collabs := protected.Group("/collabs")
	{
		collabs.POST("", handler.Create)
		collabs.GET("", handler.ListMine)
		collabs.GET("/:id", handler.Get)
		collabs.POST("/:id/join", handler.Join)
		collabs.PATCH("/:id/status", handler.UpdateStatus)
		collabs.POST("/:id/proof", handler.AttachProof)
	}
}

type CreateCollabRequest struct {
	CardData domain.CardData `json:"card_data" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed cancelled"`
}

type AttachProofRequest struct {
	ProofLink string `json:"proof_link" binding:"required,url"`
}

// Create godoc
// @Summary      Post a collab
// @Description  Create a new collab posting owned by the authenticated creator
// @Tags         collabs
// @Accept       json
// @Produce      json
// @Param        collab  body      CreateCollabRequest  true  "Collab JSON"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /collabs [post]
// @Security     BearerAuth
func (h *CollabHandler) Create(c *gin.Context) {
	var req CreateCollabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	collab := &domain.Collab{CardData: req.CardData}
	if err := h.collabUC.CreateCollab(c, collab); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Collab created", collab)
}

// ListMine godoc
// @Summary      List own collabs
// @Description  List every collab the authenticated creator participates in
// @Tags         collabs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /collabs [get]
// @Security     BearerAuth
func (h *CollabHandler) ListMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	collabs, err := h.collabUC.ListMyCollabs(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "My collabs", gin.H{
		"collabs": collabs,
		"total":   len(collabs),
	})
}

// Get godoc
// @Summary      Get collab details
// @Tags         collabs
// @Produce      json
// @Param        id   path      string  true  "Collab ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /collabs/{id} [get]
// @Security     BearerAuth
func (h *CollabHandler) Get(c *gin.Context) {
	collab, err := h.collabUC.GetCollab(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Collab details", collab)
}

// Join godoc
// @Summary      Join a collab
// @Description  Join an open collab posting as the second creator
// @Tags         collabs
// @Produce      json
// @Param        id   path      string  true  "Collab ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /collabs/{id}/join [post]
// @Security     BearerAuth
func (h *CollabHandler) Join(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	collab, err := h.collabUC.JoinCollab(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Joined collab", collab)
}

// UpdateStatus godoc
// @Summary      Update collab status
// @Description  Move a collab through its lifecycle (cancel while pending, complete or cancel while in progress)
// @Tags         collabs
// @Accept       json
// @Produce      json
// @Param        id      path      string               true  "Collab ID"
// @Param        status  body      UpdateStatusRequest  true  "Target status"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /collabs/{id}/status [patch]
// @Security     BearerAuth
func (h *CollabHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))

	collab, err := h.collabUC.UpdateStatus(c.Request.Context(), c.Param("id"), userID, domain.CollabStatus(req.Status))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Status updated", collab)
}

// AttachProof godoc
// @Summary      Attach proof of work
// @Description  Attach a link to the published collab content
// @Tags         collabs
// @Accept       json
// @Produce      json
// @Param        id     path      string              true  "Collab ID"
// @Param        proof  body      AttachProofRequest  true  "Proof link"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /collabs/{id}/proof [post]
// @Security     BearerAuth
func (h *CollabHandler) AttachProof(c *gin.Context) {
	var req AttachProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))

	collab, err := h.collabUC.AttachProof(c.Request.Context(), c.Param("id"), userID, req.ProofLink)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Proof attached", collab)
}
