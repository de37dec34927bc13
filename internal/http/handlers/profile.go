package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cecredit-backend/internal/http/response"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := ph.profileService.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

func (ph *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FullName          string `json:"full_name"`
		ProfessionalTitle string `json:"professional_title"`
		LicenseNumber     string `json:"license_number"`
		LicenseState      string `json:"license_state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := ph.profileService.Update(c.Request.Context(), services.ProfileInput{
		FullName:          req.FullName,
		ProfessionalTitle: req.ProfessionalTitle,
		LicenseNumber:     req.LicenseNumber,
		LicenseState:      req.LicenseState,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}
