package events

import (
	"io"
	"net/http"

	"nexusems/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAssetSize caps uploaded event attachments at 10 MB
const maxAssetSize = 10 << 20

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateEvent(ctx *gin.Context) {
	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	organizerIDStr, exists := ctx.Get("account_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	organizerID, err := uuid.Parse(organizerIDStr.(string))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid account ID", nil)
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), organizerID, &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Event created", event)
}

func (c *Controller) GetEvent(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Event not found", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Event retrieved", event)
}

func (c *Controller) ListEvents(ctx *gin.Context) {
	var query EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	events, err := c.service.ListEvents(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Events retrieved", events)
}

func (c *Controller) DeleteEvent(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	if err := c.service.DeleteEvent(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Event deleted", nil)
}

func (c *Controller) UploadAsset(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "File is required", nil)
		return
	}
	if fileHeader.Size > maxAssetSize {
		response.Error(ctx, http.StatusRequestEntityTooLarge, "File exceeds 10 MB limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Could not read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Could not read file", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	asset, err := c.service.AttachAsset(ctx.Request.Context(), eventID, fileHeader.Filename, contentType, data)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Asset uploaded", gin.H{
		"id":           asset.ID,
		"filename":     asset.Filename,
		"content_type": asset.ContentType,
	})
}

func (c *Controller) DownloadAsset(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}
	assetID, err := uuid.Parse(ctx.Param("asset_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid asset ID", nil)
		return
	}

	asset, err := c.service.GetAsset(ctx.Request.Context(), eventID, assetID)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Asset not found", nil)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+asset.Filename+`"`)
	ctx.Data(http.StatusOK, asset.ContentType, asset.Data)
}
