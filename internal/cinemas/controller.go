package cinemas

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinetix/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateCinema(ctx *gin.Context) {
	var req CreateCinemaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cinema, err := c.service.CreateCinema(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create cinema", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Cinema created successfully", cinema, nil)
}

func (c *Controller) GetCinema(ctx *gin.Context) {
	cinema, err := c.service.GetCinema(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch err {
		case ErrCinemaNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Cinema not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch cinema", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cinema retrieved successfully", cinema, nil)
}

func (c *Controller) ListCinemas(ctx *gin.Context) {
	var query CinemaListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	cinemas, err := c.service.ListCinemas(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list cinemas", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cinemas retrieved successfully", cinemas, nil)
}

func (c *Controller) UpdateCinema(ctx *gin.Context) {
	var req UpdateCinemaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cinema, err := c.service.UpdateCinema(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		switch err {
		case ErrCinemaNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Cinema not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update cinema", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cinema updated successfully", cinema, nil)
}

func (c *Controller) DeleteCinema(ctx *gin.Context) {
	if err := c.service.DeleteCinema(ctx.Request.Context(), ctx.Param("id")); err != nil {
		switch err {
		case ErrCinemaNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Cinema not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete cinema", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cinema deleted successfully", nil, nil)
}

func (c *Controller) CreateRoom(ctx *gin.Context) {
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	room, err := c.service.CreateRoom(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		switch err {
		case ErrCinemaNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Cinema not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create room", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Room created successfully", room, nil)
}

func (c *Controller) GetRoomSeats(ctx *gin.Context) {
	seats, err := c.service.GetRoomSeats(ctx.Request.Context(), ctx.Param("roomId"))
	if err != nil {
		switch err {
		case ErrRoomNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Room not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch seats", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (c *Controller) DeleteRoom(ctx *gin.Context) {
	if err := c.service.DeleteRoom(ctx.Request.Context(), ctx.Param("roomId")); err != nil {
		switch err {
		case ErrRoomNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Room not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete room", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Room deleted successfully", nil, nil)
}
