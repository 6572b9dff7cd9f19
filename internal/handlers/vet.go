package handlers

import (
	"errors"

	"github.com/aniwoo/aniwoo-api/internal/middleware"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/services"
	"github.com/aniwoo/aniwoo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type VetHandler struct {
	vets VetServiceInterface
}

func NewVetHandler(vets VetServiceInterface) *VetHandler {
	return &VetHandler{vets: vets}
}

// List is the public directory.
func (h *VetHandler) List(c *drift.Context) {
	listings, err := h.vets.List(c.Request.Context())
	if err != nil {
		c.InternalServerError("could not list vets")
		return
	}

	out := make([]dto.VetResponse, 0, len(listings))
	for _, l := range listings {
		resp := vetResponse(&l.Vet)
		resp.Name = l.Name
		out = append(out, resp)
	}
	_ = c.JSON(200, out)
}

func (h *VetHandler) GetMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	vet, err := h.vets.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrVetNotFound) {
			c.NotFound("vet profile not found")
			return
		}
		c.InternalServerError("could not fetch vet profile")
		return
	}

	_ = c.JSON(200, vetResponse(vet))
}

func (h *VetHandler) UpsertMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpsertVetRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.ClinicName == "" {
		c.BadRequest("clinic_name is required")
		return
	}

	vet, err := h.vets.Upsert(c.Request.Context(), &models.Vet{
		UserID:          userID,
		ClinicName:      req.ClinicName,
		Specialization:  req.Specialization,
		Location:        req.Location,
		City:            req.City,
		State:           req.State,
		Phone:           req.Phone,
		ExperienceYears: req.ExperienceYears,
		Qualifications:  req.Qualifications,
		Bio:             req.Bio,
	})
	if err != nil {
		c.InternalServerError("could not save vet profile")
		return
	}

	_ = c.JSON(200, vetResponse(vet))
}

func vetResponse(vet *models.Vet) dto.VetResponse {
	return dto.VetResponse{
		ID:              vet.ID.String(),
		UserID:          vet.UserID.String(),
		ClinicName:      vet.ClinicName,
		Specialization:  vet.Specialization,
		Location:        vet.Location,
		City:            vet.City,
		State:           vet.State,
		Phone:           vet.Phone,
		ExperienceYears: vet.ExperienceYears,
		Qualifications:  vet.Qualifications,
		Bio:             vet.Bio,
	}
}
