package dto

type UpsertVetRequest struct {
	ClinicName      string  `json:"clinic_name"`
	Specialization  string  `json:"specialization"`
	Location        string  `json:"location"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Phone           string  `json:"phone"`
	ExperienceYears int     `json:"experience_years"`
	Qualifications  string  `json:"qualifications"`
	Bio             *string `json:"bio"`
}

type VetResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Name            string  `json:"name,omitempty"`
	ClinicName      string  `json:"clinic_name"`
	Specialization  string  `json:"specialization"`
	Location        string  `json:"location"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Phone           string  `json:"phone"`
	ExperienceYears int     `json:"experience_years"`
	Qualifications  string  `json:"qualifications"`
	Bio             *string `json:"bio,omitempty"`
}
