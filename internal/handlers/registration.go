package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/scriptink/writofest-api/internal/models"
	"github.com/scriptink/writofest-api/internal/registration"
)

const (
	msgCreated  = "Registration successful!"
	msgUpdated  = "Registration updated successfully!"
	msgClosed   = "Registrations are closed."
	msgConflict = "You have already registered for this event."
	msgInternal = "Internal server error. Please try again."
)

var fieldLabels = map[registration.Field]string{
	registration.FieldUsn:          "USN",
	registration.FieldName:         "Name",
	registration.FieldEmail:        "Email",
	registration.FieldPhone:        "Phone",
	registration.FieldCollege:      "College",
	registration.FieldCourse:       "Course",
	registration.FieldBranch:       "Branch",
	registration.FieldYear:         "Year",
	registration.FieldEvents:       "Event",
	registration.FieldMessage:      "Message",
	registration.FieldReferrerCode: "Referrer code",
}

type RegistrationHandler struct {
	service *registration.Service
}

func NewRegistrationHandler(service *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// RegistrationRequest accepts any JSON body. Anything other than an object is
// treated as an empty form so the service decides the response.
type RegistrationRequest struct {
	Body any `doc:"Registration form object. Events may be sent as event, events or events[], either a string or an array of strings."`
}

type RegistrationResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    *models.Registration `json:"data,omitempty"`
}

type RegistrationResponse struct {
	Status int
	Body   RegistrationResult
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	payload, _ := input.Body.(map[string]any)
	sub := registration.SubmissionFromPayload(payload)

	res, err := h.service.Register(ctx, sub)
	if err != nil {
		return nil, registrationError(err)
	}

	out := &RegistrationResponse{
		Status: http.StatusCreated,
		Body: RegistrationResult{
			Success: true,
			Message: msgCreated,
			Data:    res.Registration,
		},
	}
	if res.Outcome == registration.OutcomeUpdated {
		out.Status = http.StatusOK
		out.Body.Message = msgUpdated
	}
	return out, nil
}

// RejectWhenClosed answers every submission with 403 while registrations are
// closed, before the body is read or decoded.
func (h *RegistrationHandler) RejectWhenClosed(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if err := h.service.CheckOpen(ctx.Context()); err != nil {
			huma.WriteErr(api, ctx, http.StatusForbidden, msgClosed)
			return
		}
		next(ctx)
	}
}

// registrationError maps service errors to responses. Storage details are
// logged by the service and never returned.
func registrationError(err error) error {
	var verr *registration.ValidationError
	switch {
	case errors.As(err, &verr):
		return huma.Error400BadRequest(missingFieldsMessage(verr.Missing))
	case errors.Is(err, registration.ErrClosed):
		return huma.Error403Forbidden(msgClosed)
	case errors.Is(err, registration.ErrDuplicate):
		return huma.Error409Conflict(msgConflict)
	}
	return huma.Error500InternalServerError(msgInternal)
}

func missingFieldsMessage(missing []registration.Field) string {
	labels := make([]string, len(missing))
	for i, f := range missing {
		labels[i] = fieldLabels[f]
	}
	verb := "is"
	if len(labels) > 1 {
		verb = "are"
	}
	return strings.Join(labels, ", ") + " " + verb + " required."
}
