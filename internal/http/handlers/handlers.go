// Handler wiring.
//
// Handlers groups the HTTP endpoints of the API and binds them to the
// business services. Handlers are transport-thin: they validate input, call
// the service layer, and translate results (including sentinel errors) into
// HTTP responses.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/repo"
	"github.com/lapinos/go-rabbitry-backend/internal/services"
)

// Handlers groups the HTTP endpoints for the farm resources.
type Handlers struct {
	clapets  *services.ClapetService
	femelles *services.FemelleService
	vaccins  *services.VaccinService
	aliments *services.AlimentService
	cycles   *services.CycleService
	alerts   *services.AlertService
	settings *services.SettingService
}

// New constructs a Handlers instance bound to the given services.
func New(
	clapets *services.ClapetService,
	femelles *services.FemelleService,
	vaccins *services.VaccinService,
	aliments *services.AlimentService,
	cycles *services.CycleService,
	alerts *services.AlertService,
	settings *services.SettingService,
) *Handlers {
	return &Handlers{
		clapets:  clapets,
		femelles: femelles,
		vaccins:  vaccins,
		aliments: aliments,
		cycles:   cycles,
		alerts:   alerts,
		settings: settings,
	}
}

// svcFail translates a service-layer error into the HTTP error envelope.
// Unrecognized errors become a 500 without leaking internals.
func svcFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrClapetNotFound),
		errors.Is(err, services.ErrFemelleNotFound),
		errors.Is(err, services.ErrVaccinNotFound),
		errors.Is(err, services.ErrVaccinationNotFound),
		errors.Is(err, services.ErrAlimentNotFound),
		errors.Is(err, services.ErrCycleNotFound),
		errors.Is(err, repo.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrClapetExists),
		errors.Is(err, services.ErrCycleActive),
		errors.Is(err, services.ErrInvalidTransition):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
