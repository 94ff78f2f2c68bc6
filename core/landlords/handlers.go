package landlords

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pm-backoffice/core"
)

type Handlers interface {
	List(gctx *gin.Context)
	Get(gctx *gin.Context)
	Post(gctx *gin.Context)
	Put(gctx *gin.Context)
	Delete(gctx *gin.Context)
}

type handlers struct {
	repo  RepositoryInterface
	newID func() string
}

func NewHandlers(repo RepositoryInterface) Handlers {
	return &handlers{repo: repo, newID: uuid.NewString}
}

func Register(group gin.IRoutes, h Handlers) {
	group.GET("/landlords", h.List)
	group.GET("/landlords/:id", h.Get)
	group.POST("/landlords", h.Post)
	group.PUT("/landlords/:id", h.Put)
	group.DELETE("/landlords/:id", h.Delete)
}

func (h *handlers) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var query ListQuery

	// Unknown values fall back to the defaults rather than failing the request.
	_ = gctx.ShouldBindQuery(&query)

	landlords, err := h.repo.List(ctx, query)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("listing landlords failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.NewError("listing landlords failed", err))

		return
	}

	gctx.JSON(http.StatusOK, landlords)
}

func (h *handlers) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	landlord, err := h.repo.Get(ctx, gctx.Param("id"))
	if errors.Is(err, ErrLandlordNotFound) {
		log.Ctx(ctx).Info().Err(err).Msg("landlord not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, core.NewError("landlord not found", err))

		return
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("getting landlord failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.NewError("getting landlord failed", err))

		return
	}

	gctx.JSON(http.StatusOK, landlord)
}

func (h *handlers) bind(gctx *gin.Context) (*Landlord, bool) {
	ctx := gctx.Request.Context()

	var landlord Landlord

	err := gctx.ShouldBindJSON(&landlord)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))

		return nil, false
	}

	err = ValidateLandlord(landlord)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("validation failed", err))

		return nil, false
	}

	return &landlord, true
}

func (h *handlers) Post(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	landlord, ok := h.bind(gctx)
	if !ok {
		return
	}

	landlord.ID = h.newID()

	saved, err := h.repo.Create(ctx, landlord)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to save landlord")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.Fail("failed to save landlord", err))

		return
	}

	gctx.JSON(http.StatusCreated, core.Ok("landlord created", saved))
}

func (h *handlers) Put(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	landlord, ok := h.bind(gctx)
	if !ok {
		return
	}

	landlord.ID = gctx.Param("id")

	saved, err := h.repo.Update(ctx, landlord)
	if errors.Is(err, ErrLandlordNotFound) {
		gctx.AbortWithStatusJSON(http.StatusNotFound, core.NewError("landlord not found", err))
		return
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to update landlord")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.Fail("failed to update landlord", err))

		return
	}

	gctx.JSON(http.StatusOK, core.Ok("landlord updated", saved))
}

func (h *handlers) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	err := h.repo.Delete(ctx, gctx.Param("id"))
	if errors.Is(err, ErrLandlordNotFound) {
		gctx.AbortWithStatusJSON(http.StatusNotFound, core.NewError("landlord not found", err))
		return
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to delete landlord")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.Fail("failed to delete landlord", err))

		return
	}

	gctx.JSON(http.StatusOK, core.Ok("landlord deleted", nil))
}
