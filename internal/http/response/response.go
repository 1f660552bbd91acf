package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
)

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error   errorBody         `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Error writes the typed error envelope. Untyped errors surface as
// upstream failures so callers never see a bare 200 or a stack trace.
func Error(c *gin.Context, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		ae = apierr.Upstream(err)
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, errorEnvelope{
		Error:   errorBody{Message: ae.Error(), Code: ae.Code},
		Details: ae.Details,
	})
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
