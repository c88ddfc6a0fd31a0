package controllers

import (
	"net/http"

	"campusnest/dto"
	"campusnest/errors"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 << 20

type ReviewController struct {
	reviews *services.ReviewService
	media   *services.MediaService
	reports *services.ReportService
}

func NewReviewController(reviews *services.ReviewService, media *services.MediaService, reports *services.ReportService) ReviewController {
	return ReviewController{reviews: reviews, media: media, reports: reports}
}

// ListByHousing godoc
// @Summary      Reviews of a housing, newest first
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Housing id"
// @Success      200  {object}  response.Response{data=[]dto.ReviewResponse}
// @Failure      404  {object}  response.Response
// @Router       /housings/{id}/reviews [get]
func (r ReviewController) ListByHousing(c *gin.Context) {
	housingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviews, err := r.reviews.ListByHousing(c.Request.Context(), housingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToReviewResponses(reviews))
}

// Create godoc
// @Summary      Review a housing
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Housing id"
// @Param        body  body      dto.ReviewRequest  true  "Ratings, tags and comment"
// @Success      201   {object}  response.Response{data=dto.ReviewResponse}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /housings/{id}/reviews [post]
func (r ReviewController) Create(c *gin.Context) {
	housingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := r.reviews.Create(c.Request.Context(), middleware.ActorFrom(c), housingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToReviewResponse(review))
}

func (r ReviewController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	review, err := r.reviews.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToReviewResponse(review))
}

// Update serves PUT, which needs every rating and tag, and PATCH, which
// changes only what is present.
func (r ReviewController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut {
		if missing := req.Missing(); len(missing) > 0 {
			response.FromError(c, errors.NewValidationError(missing))
			return
		}
	}
	review, err := r.reviews.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToReviewResponse(review))
}

func (r ReviewController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := r.reviews.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (r ReviewController) ListMedia(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}
	media, err := r.media.ListByReview(c.Request.Context(), reviewID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.MediaResponse, len(media))
	for i := range media {
		out[i] = dto.ToMediaResponse(&media[i])
	}
	response.Success(c, out)
}

// UploadMedia godoc
// @Summary      Attach an image to the caller's review
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Review id"
// @Param        image  formData  file  true  "Image"
// @Success      201    {object}  response.Response{data=dto.MediaResponse}
// @Failure      403    {object}  response.Response
// @Router       /reviews/{id}/media [post]
func (r ReviewController) UploadMedia(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		response.FromError(c, errors.FieldError("image", "No file was submitted."))
		return
	}
	if file.Size > maxImageSize {
		response.FromError(c, errors.FieldError("image", "Image must be 10MB or smaller."))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.FromError(c, errors.FieldError("image", "Could not read the uploaded file."))
		return
	}
	defer src.Close()

	media, err := r.media.Upload(c.Request.Context(), middleware.ActorFrom(c), reviewID, src, file.Filename)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToMediaResponse(media))
}

func (r ReviewController) DeleteMedia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := r.media.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (r ReviewController) Report(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReportRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := r.reports.Create(c.Request.Context(), middleware.ActorFrom(c), reviewID, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToReportResponse(report))
}
