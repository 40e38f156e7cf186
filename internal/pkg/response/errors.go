package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: typed errors are checked before the generic sentinels.
var domainErrors = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{domain.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID"},
	{domain.ErrNoPayment, http.StatusNotFound, "NO_PAYMENT"},
	{domain.ErrDuplicateFeedback, http.StatusConflict, "DUPLICATE_FEEDBACK"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrPaymentDeclined, http.StatusPaymentRequired, "PAYMENT_DECLINED"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
}

// DomainError writes the envelope for a service error. Unknown errors are
// attached to the context for the error logger and reported as 500.
func DomainError(c *gin.Context, err error) {
	DomainErrorWithDetails(c, err, nil)
}

// DomainErrorWithDetails is DomainError with extra entries merged into the
// error details. extra is dropped for unknown errors.
func DomainErrorWithDetails(c *gin.Context, err error, extra gin.H) {
	for _, m := range domainErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		details := gin.H{}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			if ve.Field != "" {
				details["field"] = ve.Field
			}
			if len(ve.Fields) > 1 {
				details["fields"] = ve.Fields
			}
		}
		var te *domain.InvalidTransitionError
		if errors.As(err, &te) {
			details["from"] = te.From
			details["to"] = te.To
		}
		for k, v := range extra {
			details[k] = v
		}
		if len(details) == 0 {
			Error(c, m.status, m.code, err.Error())
			return
		}
		ErrorWithDetails(c, m.status, m.code, err.Error(), details)
		return
	}

	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again later")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
