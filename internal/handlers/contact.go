package handlers

import (
	"log"
	"strings"

	"github.com/aniwoo/aniwoo-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ContactHandler struct {
	email EmailServiceInterface
}

func NewContactHandler(email EmailServiceInterface) *ContactHandler {
	return &ContactHandler{email: email}
}

func (h *ContactHandler) Submit(c *drift.Context) {
	var req dto.ContactRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		c.BadRequest("name, email and message are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		c.BadRequest("invalid email address")
		return
	}
	if req.Subject == "" {
		req.Subject = "General enquiry"
	}

	if !h.email.IsConfigured() {
		// Accept anyway so the form does not break in environments
		// without SMTP credentials.
		log.Printf("contact: message from %s dropped, smtp not configured", req.Email)
		_ = c.JSON(202, map[string]string{"message": "received"})
		return
	}

	if err := h.email.SendContactMessage(req.Name, req.Email, req.Subject, req.Message); err != nil {
		c.InternalServerError("could not deliver message")
		return
	}

	_ = c.JSON(202, map[string]string{"message": "received"})
}
