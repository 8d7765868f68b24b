package dto

import "time"

// CreatePersonRequest payload for POST /person. Unlike registration the
// role is mandatory.
type CreatePersonRequest struct {
	Name      string `json:"name" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Document  string `json:"document" validate:"required,notblank"`
	Phone     string `json:"phone" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	BirthDate string `json:"birthDate"`
	Role      string `json:"role" validate:"required,oneof=doctor patient admin"`
}

func (r *CreatePersonRequest) Validate() (*time.Time, error) {
	r.Email = normalizeEmail(r.Email)
	problems := fieldProblems(r)
	birth, err := ParseBirthDate(r.BirthDate)
	if err != nil {
		problems["birthDate"] = birthDateFormat
	}
	if err := invalid(problems); err != nil {
		return nil, err
	}
	return birth, nil
}

// UpdatePersonRequest payload for PATCH /person/:id. Absent fields are
// left untouched; present ones must be valid.
type UpdatePersonRequest struct {
	Name      *string `json:"name" validate:"omitnil,notblank"`
	LastName  *string `json:"lastName" validate:"omitnil,notblank"`
	Document  *string `json:"document" validate:"omitnil,notblank"`
	Phone     *string `json:"phone" validate:"omitnil,notblank"`
	Email     *string `json:"email" validate:"omitnil,email"`
	Password  *string `json:"password" validate:"omitnil,min=6"`
	BirthDate *string `json:"birthDate"`
	Role      *string `json:"role" validate:"omitnil,oneof=doctor patient admin"`
}

func (r *UpdatePersonRequest) Validate() (*time.Time, error) {
	if r.Email != nil {
		normalized := normalizeEmail(*r.Email)
		r.Email = &normalized
	}
	problems := fieldProblems(r)

	var birth *time.Time
	if r.BirthDate != nil {
		parsed, err := ParseBirthDate(*r.BirthDate)
		if err != nil || parsed == nil {
			problems["birthDate"] = birthDateFormat
		}
		birth = parsed
	}
	if err := invalid(problems); err != nil {
		return nil, err
	}
	return birth, nil
}

// PersonListQuery captures pagination for list endpoints.
type PersonListQuery struct {
	Limit  int
	Offset int
}

// PersonResponse wraps every person endpoint's payload.
type PersonResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
}

// NewPersonResponse builds the envelope around one or many accounts.
func NewPersonResponse(message string, status int, data any) PersonResponse {
	return PersonResponse{Message: message, StatusCode: status, Data: data}
}
