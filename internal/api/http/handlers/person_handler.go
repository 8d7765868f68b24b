package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-service/internal/api/dto"
	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/service"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

const maxPageSize = 100

// PersonHandler manages person endpoints.
type PersonHandler struct {
	service *service.PersonService
}

// NewPersonHandler constructs handler.
func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{service: personService}
}

// Create POST /person.
func (h *PersonHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	birth, err := req.Validate()
	if err != nil {
		return err
	}

	person, err := h.service.Create(c.UserContext(), actorID(c), service.CreatePersonInput{
		Name:      req.Name,
		LastName:  req.LastName,
		Document:  req.Document,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: birth,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPersonResponse("person created successfully", http.StatusCreated, person))
}

// List GET /person.
func (h *PersonHandler) List(c *fiber.Ctx) error {
	query := parseListQuery(c)
	people, err := h.service.List(c.UserContext(), service.PersonListFilters{Limit: query.Limit, Offset: query.Offset})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPersonResponse("persons retrieved successfully", http.StatusOK, people))
}

// ListByRole GET /person/role/:role.
func (h *PersonHandler) ListByRole(c *fiber.Ctx) error {
	query := parseListQuery(c)
	people, err := h.service.ListByRole(c.UserContext(), domain.Role(c.Params("role")),
		service.PersonListFilters{Limit: query.Limit, Offset: query.Offset})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPersonResponse("persons found successfully", http.StatusOK, people))
}

// Get GET /person/:id.
func (h *PersonHandler) Get(c *fiber.Ctx) error {
	person, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPersonResponse("person found successfully", http.StatusOK, person))
}

// Update PATCH /person/:id.
func (h *PersonHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	birth, err := req.Validate()
	if err != nil {
		return err
	}

	in := service.UpdatePersonInput{
		Name:      req.Name,
		LastName:  req.LastName,
		Document:  req.Document,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: birth,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	person, err := h.service.Update(c.UserContext(), actorID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPersonResponse("person updated successfully", http.StatusOK, person))
}

// Delete DELETE /person/:id.
func (h *PersonHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), actorID(c), id); err != nil {
		return err
	}
	return c.JSON(dto.NewPersonResponse("person deleted successfully", http.StatusOK, fiber.Map{"id": id}))
}

func actorID(c *fiber.Ctx) string {
	if claims, ok := auth.ClaimsFromContext(c); ok {
		return claims.AccountID()
	}
	return ""
}

func parseListQuery(c *fiber.Ctx) dto.PersonListQuery {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return dto.PersonListQuery{Limit: limit, Offset: offset}
}
