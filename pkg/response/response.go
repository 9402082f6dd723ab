package response

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/pkg/errors"
	"github.com/d60-Lab/mingle/pkg/logger"
)

// Success writes the {success:true, data:...} envelope.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created is Success with a 201.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Error writes the {msg:...} failure envelope. AppErrors carry their own
// status; anything else is a 500 with a generic message, logged with cause.
func Error(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.Code.HTTPStatus(), gin.H{"msg": appErr.Message})
		return
	}
	logger.Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
}

// BadRequest is used for binding failures at the handler boundary.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
}

// Unauthorized aborts the request with a 401 envelope.
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msg})
}
