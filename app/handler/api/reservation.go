package handler

import (
	"log/slog"

	"catalog-service/app/domain"
	"catalog-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ReservationHandler struct {
	usecase   domain.ReservationUsecase
	validator *validator.Validate
}

func NewReservationHandler(usecase domain.ReservationUsecase, validator *validator.Validate) *ReservationHandler {
	return &ReservationHandler{
		usecase:   usecase,
		validator: validator,
	}
}

func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req domain.ReservationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] Create", "validator", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	reservation, err := h.usecase.Reserve(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(reservation))
}

func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		slog.ErrorContext(c.Context(), "[reservationHandler] Get", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	reservation, err := h.usecase.GetReservation(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] Get", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(reservation))
}

func (h *ReservationHandler) Checkout(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		slog.ErrorContext(c.Context(), "[reservationHandler] Checkout", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	reservation, err := h.usecase.Checkout(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] Checkout", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(reservation))
}

func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		slog.ErrorContext(c.Context(), "[reservationHandler] Cancel", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	reservation, err := h.usecase.Cancel(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] Cancel", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(reservation))
}

func (h *ReservationHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		slog.ErrorContext(c.Context(), "[reservationHandler] History", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	records, err := h.usecase.GetReservationHistory(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] History", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(records))
}
