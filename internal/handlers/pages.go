package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
)

type PageSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type Page struct {
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Tagline  string        `json:"tagline"`
	Sections []PageSection `json:"sections"`
}

// PagesHandler serves the marketing content the site renders around the
// authenticated surfaces.
type PagesHandler struct {
	pages map[string]Page
}

func NewPagesHandler() *PagesHandler {
	h := &PagesHandler{pages: make(map[string]Page)}
	for _, p := range sitePages {
		h.pages[p.Slug] = p
	}
	return h
}

func (h *PagesHandler) Get(c *drift.Context) {
	page, ok := h.pages[c.Param("slug")]
	if !ok {
		c.NotFound("page not found")
		return
	}
	_ = c.JSON(200, page)
}

func (h *PagesHandler) List(c *drift.Context) {
	out := make([]Page, 0, len(sitePages))
	out = append(out, sitePages...)
	_ = c.JSON(200, out)
}

var sitePages = []Page{
	{
		Slug:    "home",
		Title:   "Aniwoo",
		Tagline: "Everything your pet needs, in one place",
		Sections: []PageSection{
			{Heading: "Find trusted vets", Body: "Browse verified veterinarians near you and see their clinics, specializations and experience before you book."},
			{Heading: "AI health check", Body: "Upload a photo of your pet and get an instant preliminary wellness read with findings and next steps."},
			{Heading: "Shop essentials", Body: "Food, toys, grooming and care products for dogs, cats and smaller companions."},
		},
	},
	{
		Slug:    "about",
		Title:   "About Aniwoo",
		Tagline: "Built by pet people, for pet people",
		Sections: []PageSection{
			{Heading: "Our mission", Body: "Make quality pet care accessible by connecting owners with veterinarians and giving them simple tools to watch over their pets' health."},
			{Heading: "For veterinarians", Body: "A public clinic profile, a dashboard for your practice details, and a growing community of owners looking for care."},
		},
	},
	{
		Slug:    "shop",
		Title:   "Shop",
		Tagline: "Curated products for every companion",
		Sections: []PageSection{
			{Heading: "Food and nutrition", Body: "Breed and age appropriate food lines with ingredient transparency."},
			{Heading: "Toys and enrichment", Body: "Durable toys and puzzles to keep pets engaged."},
			{Heading: "Grooming and care", Body: "Shampoos, brushes and day-to-day care supplies."},
		},
	},
	{
		Slug:    "mating-connect",
		Title:   "Mating Connect",
		Tagline: "Find a responsible match for your pet",
		Sections: []PageSection{
			{Heading: "How it works", Body: "Create a profile for your pet, browse compatible matches by breed and location, and connect with other verified owners."},
			{Heading: "Responsible breeding", Body: "Listings highlight health records and vet verification so matches start from trust."},
		},
	},
	{
		Slug:    "ai-health-check",
		Title:   "AI Health Check",
		Tagline: "A quick wellness read from a single photo",
		Sections: []PageSection{
			{Heading: "What you get", Body: "A status, a confidence score, visible findings and recommended next steps. It is guidance, not a diagnosis; always consult a vet for anything concerning."},
		},
	},
}
