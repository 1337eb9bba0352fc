package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/scriptink/writofest-api/internal/auth"
	"github.com/scriptink/writofest-api/internal/logging"
	"github.com/scriptink/writofest-api/internal/models"
	"github.com/scriptink/writofest-api/internal/registration"
	"github.com/scriptink/writofest-api/internal/storage"
)

// RegistrationReader is the read side used by organizers.
type RegistrationReader interface {
	List(ctx context.Context, filter storage.ListFilter) ([]models.Registration, error)
	FindByIdentifier(ctx context.Context, usn string) (*models.Registration, error)
}

// AdminHandler serves the organizer-only views of the registrations table.
type AdminHandler struct {
	store       RegistrationReader
	authHandler *auth.AuthHandler
}

func NewAdminHandler(store RegistrationReader, authHandler *auth.AuthHandler) *AdminHandler {
	return &AdminHandler{store: store, authHandler: authHandler}
}

type ListRegistrationsRequest struct {
	auth.AuthInput
	Event string `query:"event" doc:"Only registrations whose events contain this text"`
}

type ListRegistrationsResponse struct {
	Body struct {
		Count         int                   `json:"count"`
		Registrations []models.Registration `json:"registrations"`
	}
}

func (h *AdminHandler) HandleList(ctx context.Context, input *ListRegistrationsRequest) (*ListRegistrationsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	regs, err := h.store.List(ctx, storage.ListFilter{Event: input.Event})
	if err != nil {
		logging.FromContext(ctx).Error("list registrations failed", "error", err)
		return nil, huma.Error500InternalServerError(msgInternal)
	}

	res := &ListRegistrationsResponse{}
	res.Body.Count = len(regs)
	res.Body.Registrations = regs
	if res.Body.Registrations == nil {
		res.Body.Registrations = []models.Registration{}
	}
	return res, nil
}

type GetRegistrationRequest struct {
	auth.AuthInput
	Usn string `path:"usn" doc:"Registrant USN"`
}

type GetRegistrationResponse struct {
	Body RegistrationResult
}

func (h *AdminHandler) HandleGet(ctx context.Context, input *GetRegistrationRequest) (*GetRegistrationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	reg, err := h.store.FindByIdentifier(ctx, input.Usn)
	if errors.Is(err, registration.ErrNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		logging.FromContext(ctx).Error("get registration failed", "usn", input.Usn, "error", err)
		return nil, huma.Error500InternalServerError(msgInternal)
	}

	return &GetRegistrationResponse{Body: RegistrationResult{Success: true, Data: reg}}, nil
}

var csvHeader = []string{
	"id", "usn", "name", "email", "phone", "college", "course", "branch",
	"year", "events", "message", "referrer_code", "created_at", "updated_at",
}

// HandleExportCSV streams every registration as CSV. It runs behind
// AuthMiddleware rather than as a huma operation.
func (h *AdminHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	regs, err := h.store.List(r.Context(), storage.ListFilter{Event: r.URL.Query().Get("event")})
	if err != nil {
		logging.FromContext(r.Context()).Error("export registrations failed", "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)

	cw := csv.NewWriter(w)
	cw.Write(csvHeader)
	for _, reg := range regs {
		cw.Write([]string{
			strconv.FormatUint(uint64(reg.ID), 10),
			reg.Usn,
			reg.Name,
			reg.Email,
			reg.Phone,
			reg.College,
			reg.Course,
			reg.Branch,
			reg.Year,
			reg.Events,
			reg.Message,
			reg.ReferrerCode,
			reg.CreatedAt.Format(time.RFC3339),
			reg.UpdatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()

	logger := logging.FromContext(r.Context())
	if err := cw.Error(); err != nil {
		logger.Warn("csv export interrupted", "error", err)
		return
	}
	organizer, _ := auth.OrganizerID(r.Context())
	logger.Info("registrations exported", "organizer_id", organizer, "count", len(regs))
}
