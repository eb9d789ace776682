package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/logger"
)

// HandleAPIError maps service-layer error kinds onto HTTP responses. Every
// controller funnels its errors through here.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &customErr) {
		message = customErr.Message
	}

	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrClubNotFound,
		apperrors.ErrRoleNotFound,
		apperrors.ErrMemberNotFound,
		apperrors.ErrApplicationNotFound,
		apperrors.ErrInvitationNotFound,
		apperrors.ErrTripNotFound,
		apperrors.ErrAnnouncementNotFound,
		apperrors.ErrCommentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodePermissionDenied, message)

	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceConflict, message)

	case errors.Is(err, apperrors.ErrExpired):
		respond(c, http.StatusGone, dto.ErrorCodeResourceExpired, message)

	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)

	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, message)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error in request")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
