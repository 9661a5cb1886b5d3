package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	accdomain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/dto"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/httpresp"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/middleware"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	ucAccommodation "github.com/BruksfildServices01/stay-booking/internal/usecase/accommodation"
)

type AccommodationHandler struct {
	*Resource[models.Accommodation]

	repo        accdomain.Repository
	create      *ucAccommodation.CreateAccommodation
	upload      *ucAccommodation.UploadImages
	removeImage *ucAccommodation.RemoveImage
	remove      *ucAccommodation.DeleteAccommodation
}

func NewAccommodationHandler(
	repo accdomain.Repository,
	rec audit.Recorder,
	create *ucAccommodation.CreateAccommodation,
	upload *ucAccommodation.UploadImages,
	removeImage *ucAccommodation.RemoveImage,
	remove *ucAccommodation.DeleteAccommodation,
) *AccommodationHandler {
	return &AccommodationHandler{
		Resource:    NewResource[models.Accommodation](repo, rec, "accommodation", "Accommodation"),
		repo:        repo,
		create:      create,
		upload:      upload,
		removeImage: removeImage,
		remove:      remove,
	}
}

// Create reads the listing and its images from one multipart form.
func (h *AccommodationHandler) Create(c *gin.Context) {
	host, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	var req dto.CreateAccommodationRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}
	if len(req.Amenities) == 0 {
		req.Amenities = c.PostFormArray("amenities[]")
	}

	files, err := formImages(c)
	if err != nil {
		fail(c, err)
		return
	}

	acc, err := h.create.Execute(c.Request.Context(), ucAccommodation.CreateInput{
		HostID:  host.ID,
		Listing: req.Listing(),
		Files:   files,
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.Created(c, acc)
}

// Update never touches images, location or host_id.
func (h *AccommodationHandler) Update(c *gin.Context) {
	h.Resource.Update(func(c *gin.Context) (resource.Changes, error) {
		var req dto.UpdateAccommodationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return resource.Changes{}, bindError(err)
		}
		return req.Changes(), nil
	})(c)
}

// Delete removes the listing and then its stored images.
func (h *AccommodationHandler) Delete(c *gin.Context) {
	host, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	if _, err := h.remove.Execute(c.Request.Context(), host.ID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	httpresp.Message(c, "Accommodation deleted successfully")
}

// UploadImages stores a batch of images. The form's mode field selects replace
// (default) or append.
func (h *AccommodationHandler) UploadImages(c *gin.Context) {
	host, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	files, err := formImages(c)
	if err != nil {
		fail(c, err)
		return
	}
	mode, err := resource.ParseMode(c.PostForm("mode"))
	if err != nil {
		fail(c, err)
		return
	}

	acc, err := h.upload.Execute(c.Request.Context(), ucAccommodation.UploadImagesInput{
		HostID:          host.ID,
		AccommodationID: c.Param("id"),
		Mode:            mode,
		Files:           files,
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, acc)
}

func (h *AccommodationHandler) RemoveImage(c *gin.Context) {
	host, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	var req dto.ImagePathRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	acc, err := h.removeImage.Execute(c.Request.Context(), ucAccommodation.RemoveImageInput{
		HostID:          host.ID,
		AccommodationID: c.Param("id"),
		Path:            req.ImagePath,
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, acc)
}

func (h *AccommodationHandler) LocationsSummary(c *gin.Context) {
	summary, err := h.repo.SummarizeLocations(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, summary)
}

func formImages(c *gin.Context) ([]media.Source, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, bodyError(err, "Please send the images as multipart/form-data")
	}
	return media.FromFileHeaders(form.File["images"]), nil
}
