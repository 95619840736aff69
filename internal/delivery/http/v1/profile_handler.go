package v1

import (
	"net/http"

	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userUC        domain.UserUsecase
	reliabilityUC domain.ReliabilityUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, userUC domain.UserUsecase, reliabilityUC domain.ReliabilityUsecase) {
	handler := &ProfileHandler{userUC: userUC, reliabilityUC: reliabilityUC}

	profiles := protected.Group("/profiles")
	{
		profiles.GET("/me", handler.GetMe)
		profiles.GET("/:id", handler.Get)
		profiles.POST("", handler.Create)
		profiles.PUT("/me", handler.Update)
		profiles.GET("/:id/reliability", handler.Reliability)
	}
}

type ProfileRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=80"`
	NicheTags      []string `json:"niche_tags" binding:"max=10,dive,min=1,max=40"`
	StyleTags      []string `json:"style_tags" binding:"max=10,dive,min=1,max=40"`
	FollowerBucket string   `json:"follower_bucket" binding:"omitempty,oneof=0-1k 1k-10k 10k-50k 50k-100k 100k+"`
}

func (r *ProfileRequest) toDomain() *domain.UserProfile {
	profile := &domain.UserProfile{
		Name:      r.Name,
		NicheTags: r.NicheTags,
		StyleTags: r.StyleTags,
	}
	if r.FollowerBucket != "" {
		profile.FollowerBucket = &r.FollowerBucket
	}
	return profile
}

// GetMe godoc
// @Summary      Get own profile
// @Description  Get the authenticated creator's profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profile, err := h.userUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

// Get godoc
// @Summary      Get a creator profile
// @Description  Get any creator's public profile by ID
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.userUC.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

// Create godoc
// @Summary      Create own profile
// @Description  Create the authenticated creator's profile (onboarding)
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      ProfileRequest  true  "Profile JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /profiles [post]
// @Security     BearerAuth
func (h *ProfileHandler) Create(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := req.toDomain()
	if err := h.userUC.CreateProfile(c, profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created", profile)
}

// Update godoc
// @Summary      Update own profile
// @Description  Update the authenticated creator's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      ProfileRequest  true  "Profile JSON"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /profiles/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := req.toDomain()
	if err := h.userUC.UpdateProfile(c, profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// Reliability godoc
// @Summary      Get a creator's reliability metrics
// @Description  Compute the reliability breakdown for a creator from their message and collab history
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Router       /profiles/{id}/reliability [get]
// @Security     BearerAuth
func (h *ProfileHandler) Reliability(c *gin.Context) {
	metrics := h.reliabilityUC.Compute(c.Request.Context(), c.Param("id"))
	response.Success(c, http.StatusOK, "Reliability metrics", metrics)
}
