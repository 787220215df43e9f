// internal/handlers/common.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapedeck/tapedeck-backend/internal/i18n"
	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

// Multipart file fields mapped to image slots.
var imageSlotFields = map[string]int{
	"cover_image":      models.ImageSlotCover,
	"back_image":       models.ImageSlotBack,
	"spine_image":      models.ImageSlotSpine,
	"tape_label_image": models.ImageSlotTapeLabel,
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// requireConfirmation gates destructive endpoints: the request must carry
// confirm=true (query or body) or nothing is touched.
func requireConfirmation(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}

	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.Confirm {
		return true
	}

	lang := utils.GetLangFromContext(c)
	utils.ErrorResponse(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", i18n.T(lang, i18n.KeyConfirmRequired), nil)
	return false
}

// collectImageUploads reads any slot image files present on a multipart
// request. Requests without a multipart form yield no uploads.
func collectImageUploads(c *gin.Context) ([]services.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	var uploads []services.ImageUpload
	for field, slot := range imageSlotFields {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}

		file, err := files[0].Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, services.ImageUpload{
			Slot:        slot,
			Data:        data,
			Filename:    files[0].Filename,
			ContentType: files[0].Header.Get("Content-Type"),
		})
	}

	return uploads, nil
}

func parseVariantFields(c *gin.Context) services.VariantFields {
	releaseYear, _ := strconv.Atoi(c.PostForm("release_year"))

	return services.VariantFields{
		Format:         models.VariantFormat(c.PostForm("format")),
		Region:         c.PostForm("region"),
		ReleaseYear:    releaseYear,
		CaseType:       models.CaseType(c.PostForm("case_type")),
		Notes:          c.PostForm("notes"),
		Barcode:        c.PostForm("barcode"),
		EditionType:    c.PostForm("edition_type"),
		AudioLanguage:  c.PostForm("audio_language"),
		Subtitles:      models.Subtitles(c.PostForm("subtitles")),
		OriginalRating: c.PostForm("original_rating"),
		AspectRatio:    c.PostForm("aspect_ratio"),
		ShellColor:     c.PostForm("shell_color"),
	}
}

// respondServiceError maps service failures onto the response envelope:
// field errors and validation failures are the caller's fault, missing rows
// are 404, everything else is a server error.
func respondServiceError(c *gin.Context, err error, resource string) {
	var fieldErr *services.FieldValidationError
	switch {
	case errors.As(err, &fieldErr):
		utils.BadRequestResponse(c, fieldErr.Error(), gin.H{"field": fieldErr.Field})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFoundResponse(c, resource)
	case strings.Contains(err.Error(), "validation failed"):
		if validationErrors := utils.GetValidationErrors(errors.Unwrap(err)); len(validationErrors) > 0 {
			utils.ValidationErrorResponse(c, validationErrors)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
