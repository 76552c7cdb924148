package v1

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"careers-portal-backend/internal/delivery/http/response"
	"careers-portal-backend/internal/domain"
	"careers-portal-backend/pkg/apperror"
	"careers-portal-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type CareersHandler struct {
	careersUC domain.CareersUsecase
}

// NewCareersHandler registers the careers routes
func NewCareersHandler(r *gin.RouterGroup, careersUC domain.CareersUsecase) {
	handler := &CareersHandler{careersUC: careersUC}

	careers := r.Group("/careers")
	{
		careers.POST("", handler.Register)
		careers.GET("", handler.List)
		careers.GET("/:id", handler.GetByID)
		careers.PUT("/:id", handler.Update)
		careers.DELETE("/:id", handler.SoftDelete)
	}
}

// PaginatedCareerUsers is the list payload shape
type PaginatedCareerUsers struct {
	TotalUsers int64               `json:"total_users"`
	Users      []domain.CareerUser `json:"users"`
}

// Register godoc
// @Summary      Create new User Registration
// @Description  Register a candidate with a resume file
// @Tags         careers
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true  "User's full name"
// @Param        email        formData  string  true  "User's email address"
// @Param        mobile       formData  string  true  "User's mobile number"
// @Param        resume_file  formData  file    true  "Resume file upload"
// @Success      200  {object}  response.Response{data=domain.CareerUser}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /careers [post]
func (h *CareersHandler) Register(c *gin.Context) {
	in := domain.RegisterInput{
		Name:   c.PostForm("name"),
		Email:  c.PostForm("email"),
		Mobile: c.PostForm("mobile"),
	}

	fileHeader, err := c.FormFile("resume_file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Resume file is required", nil)
		return
	}
	resume, appErr := readResume(fileHeader)
	if appErr != nil {
		c.Error(appErr)
		return
	}

	user, err := h.careersUC.Register(c.Request.Context(), in, *resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User registered successfully.", user)
}

// List godoc
// @Summary      Get all active User Detail
// @Description  Paginated listing of active candidates, newest first
// @Tags         careers
// @Produce      json
// @Param        skip   query  int  false  "Offset"   default(0)
// @Param        limit  query  int  false  "Page size" default(10)
// @Success      200  {object}  response.Response{data=PaginatedCareerUsers}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /careers [get]
func (h *CareersHandler) List(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.Error(c, http.StatusBadRequest, "skip must be a non-negative integer", nil)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		response.Error(c, http.StatusBadRequest, "limit must be between 1 and 100", nil)
		return
	}

	users, total, err := h.careersUC.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.Error(err)
		return
	}
	if users == nil {
		users = []domain.CareerUser{}
	}

	response.Success(c, http.StatusOK, "Users retrieved successfully", PaginatedCareerUsers{
		TotalUsers: total,
		Users:      users,
	})
}

// GetByID godoc
// @Summary      Get user by ID
// @Tags         careers
// @Produce      json
// @Param        id   path  int  true  "Record ID"
// @Success      200  {object}  response.Response{data=domain.CareerUser}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /careers/{id} [get]
func (h *CareersHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid id", nil)
		return
	}

	user, err := h.careersUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User retrieved successfully", user)
}

// Update godoc
// @Summary      Update user fields and/or resume
// @Tags         careers
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      int     true   "Record ID"
// @Param        name         formData  string  false  "User's full name"
// @Param        email        formData  string  false  "User's email address"
// @Param        mobile       formData  string  false  "User's mobile number"
// @Param        resume_file  formData  file    false  "Replacement resume"
// @Success      200  {object}  response.Response{data=domain.CareerUser}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /careers/{id} [put]
func (h *CareersHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid id", nil)
		return
	}

	// Only fields actually present in the form are staged.
	var in domain.UpdateInput
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		in.Email = &v
	}
	if v, ok := c.GetPostForm("mobile"); ok {
		in.Mobile = &v
	}

	var resume *domain.ResumeFile
	fileHeader, err := c.FormFile("resume_file")
	switch {
	case err == nil:
		var appErr *apperror.AppError
		resume, appErr = readResume(fileHeader)
		if appErr != nil {
			c.Error(appErr)
			return
		}
	case errors.Is(err, http.ErrMissingFile):
		// No replacement resume supplied.
	default:
		response.Error(c, http.StatusBadRequest, "Invalid resume file", nil)
		return
	}

	user, err := h.careersUC.Update(c.Request.Context(), id, in, resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User updated successfully", user)
}

// SoftDelete godoc
// @Summary      Soft delete user
// @Description  Marks the record inactive; the row is retained
// @Tags         careers
// @Produce      json
// @Param        id   path  int  true  "Record ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /careers/{id} [delete]
func (h *CareersHandler) SoftDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid id", nil)
		return
	}

	if err := h.careersUC.SoftDelete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User deactivated successfully", gin.H{"id": id})
}

// readResume loads the multipart file into memory, sniffs its real
// content type and runs it through the document whitelist.
func readResume(fileHeader *multipart.FileHeader) (*domain.ResumeFile, *apperror.AppError) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.BadRequest("Failed to open resume file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, apperror.BadRequest("Failed to read resume file")
	}

	contentType := http.DetectContentType(data)
	result := security.ValidateResume(fileHeader.Filename, data, contentType)
	if !result.Valid {
		return nil, apperror.BadRequest("Invalid resume file: " + result.Error)
	}

	return &domain.ResumeFile{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}, nil
}
