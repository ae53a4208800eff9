package movies

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"cinetix/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, _ := ctx.Get("user_id")

	resp, err := c.service.Create(ctx.Request.Context(), &req, userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create movie", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Movie created successfully", resp, nil)
}

func (c *Controller) GetMovie(ctx *gin.Context) {
	id := ctx.Param("id")

	resp, err := c.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrMovieNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch movie", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie retrieved successfully", resp, nil)
}

func (c *Controller) ListMovies(ctx *gin.Context) {
	var query MovieListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	resp, err := c.service.List(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list movies", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movies retrieved successfully", resp, nil)
}

func (c *Controller) NowShowing(ctx *gin.Context) {
	resp, err := c.service.NowShowing(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch movies", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Now showing movies retrieved", resp, nil)
}

func (c *Controller) UpdateMovie(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, _ := ctx.Get("user_id")

	resp, err := c.service.Update(ctx.Request.Context(), id, &req, userID.(string))
	if err != nil {
		switch err {
		case ErrMovieNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update movie", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie updated successfully", resp, nil)
}

func (c *Controller) DeleteMovie(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		switch err {
		case ErrMovieNotFound, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete movie", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie deleted successfully", nil, nil)
}
