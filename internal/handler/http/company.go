package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

// maxLogoUpload leaves room for multipart overhead around the 2MB image limit.
const maxLogoUpload = 3 << 20

type CompanyHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	profileService company.ProfileService
}

func NewCompanyHandler(profileService company.ProfileService) CompanyHandler {
	return &companyHandlerImpl{
		profileService: profileService,
	}
}

// GetProfile implements CompanyHandler.
func (c *companyHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	result, err := c.profileService.GetProfile(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateProfile implements CompanyHandler.
func (c *companyHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := c.profileService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company profile updated successfully", result)
}

// UploadLogo implements CompanyHandler.
func (c *companyHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoUpload)
	if err := r.ParseMultipartForm(maxLogoUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, company.ErrLogoTooLarge)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, fileHeader, err := r.FormFile("logo")
	if err != nil {
		response.BadRequest(w, "Field 'logo' is required", nil)
		return
	}
	defer file.Close()

	result, err := c.profileService.UploadLogo(r.Context(), file, fileHeader.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company logo uploaded successfully", result)
}
