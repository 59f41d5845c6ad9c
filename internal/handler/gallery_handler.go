package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"vlabgallery/internal/auth"
	apperrors "vlabgallery/internal/errors"
	"vlabgallery/internal/model"
	"vlabgallery/internal/service"
)

// GalleryHandler handles gallery endpoints.
type GalleryHandler struct {
	gallerySvc service.GalleryService
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(gallerySvc service.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallerySvc: gallerySvc}
}

// UpdateRequest represents a partial gallery item edit.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// UploaderInfo is the joined-in uploader identity.
type UploaderInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ItemResponse is the wire shape of a gallery item. UploadedBy is the
// uploader's user id; Uploader is the joined-in identity when the listing
// resolved it.
type ItemResponse struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	ImageURL    string        `json:"imageUrl"`
	UploadedBy  *uint         `json:"uploadedBy,omitempty"`
	Uploader    *UploaderInfo `json:"uploader,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ItemEnvelope wraps mutating responses.
type ItemEnvelope struct {
	Msg  string       `json:"msg"`
	Item ItemResponse `json:"item"`
}

func toItemResponse(item *model.GalleryItem) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		UploadedBy:  item.UploadedBy,
		CreatedAt:   item.CreatedAt,
	}
	if item.Uploader != nil {
		resp.Uploader = &UploaderInfo{Name: item.Uploader.Name, Email: item.Uploader.Email}
	}
	return resp
}

// List godoc
// @Summary List gallery items
// @Tags gallery
// @Produce json
// @Success 200 {array} ItemResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /gallery [get]
func (h *GalleryHandler) List(c echo.Context) error {
	items, err := h.gallerySvc.List(c.Request().Context())
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	resp := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Upload godoc
// @Summary Upload a new gallery image
// @Tags gallery
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param category formData string false "Category"
// @Param image formData file true "Image file"
// @Success 200 {object} ItemEnvelope
// @Failure 400 {object} errors.MsgResponse
// @Failure 401 {object} errors.MsgResponse
// @Failure 403 {object} errors.MsgResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /gallery/upload [post]
func (h *GalleryHandler) Upload(c echo.Context) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
	}

	in := service.UploadInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrNoImage.Error())
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}
	defer file.Close()

	in.Filename = fileHeader.Filename
	in.ContentType = fileHeader.Header.Get("Content-Type")
	in.Image = file

	item, err := h.gallerySvc.Upload(c.Request().Context(), principal, in)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, ItemEnvelope{
		Msg:  "Image uploaded successfully",
		Item: toItemResponse(item),
	})
}

// Update godoc
// @Summary Edit a gallery item
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body UpdateRequest true "Fields to change"
// @Success 200 {object} ItemEnvelope
// @Failure 400 {object} errors.MsgResponse
// @Failure 401 {object} errors.MsgResponse
// @Failure 403 {object} errors.MsgResponse
// @Failure 404 {object} errors.MsgResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /gallery/{id} [put]
func (h *GalleryHandler) Update(c echo.Context) error {
	id, err := parseItemID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrItemNotFound.Error())
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	item, err := h.gallerySvc.Update(c.Request().Context(), id, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, ItemEnvelope{
		Msg:  "Updated successfully",
		Item: toItemResponse(item),
	})
}

// Delete godoc
// @Summary Delete a gallery item
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} errors.MsgResponse
// @Failure 401 {object} errors.MsgResponse
// @Failure 403 {object} errors.MsgResponse
// @Failure 404 {object} errors.MsgResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /gallery/{id} [delete]
func (h *GalleryHandler) Delete(c echo.Context) error {
	id, err := parseItemID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrItemNotFound.Error())
	}

	if err := h.gallerySvc.Delete(c.Request().Context(), id); err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, apperrors.MsgResponse{Msg: "Deleted successfully"})
}

// parseItemID treats a malformed id the same as an unknown one.
func parseItemID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
