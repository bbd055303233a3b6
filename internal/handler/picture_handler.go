package handler

import (
	"net/http"

	"cookbook/internal/middleware"
	"cookbook/internal/service"
	"cookbook/pkg/response"

	"github.com/gin-gonic/gin"
)

type PictureHandler struct {
	pictureService service.PictureService
}

// NewPictureHandler sets up the routing dependencies for picture endpoints
func NewPictureHandler(pictureService service.PictureService) *PictureHandler {
	return &PictureHandler{pictureService: pictureService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PictureHandler) RegisterRoutes(router *gin.RouterGroup) {
	pictures := router.Group("/pictures", middleware.RequireAuth())
	{
		pictures.POST("", h.UploadPicture)
		pictures.GET("/:id", h.GetPicture)
	}
}

// UploadPicture handles POST /pictures as a multipart upload
// @Summary      Upload picture
// @Description  Uploads a png, jpeg, svg or webp picture of at most 5 MiB
// @Tags         pictures
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file    true   "Picture file"
// @Param        alt   formData  string  false  "Alternative text"
// @Success      201   {object}  response.Response{data=model.Picture}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Router       /pictures [post]
func (h *PictureHandler) UploadPicture(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "missing file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "unreadable file"))
		return
	}
	defer file.Close()

	picture, err := h.pictureService.Upload(c.Request.Context(), middleware.CurrentUserID(c), service.PictureUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Alt:         c.PostForm("alt"),
		Reader:      file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, picture))
}

// GetPicture handles GET /pictures/:id streaming the stored file
// @Summary      Download picture
// @Description  Returns the picture bytes. Only the owner may fetch a picture.
// @Tags         pictures
// @Produce      image/png
// @Produce      image/jpeg
// @Security     BearerAuth
// @Param        id   path  string  true  "Picture ID"
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /pictures/{id} [get]
func (h *PictureHandler) GetPicture(c *gin.Context) {
	picture, err := h.pictureService.Find(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.File(picture.Path)
}
