package service

import (
	"math/rand"

	"school-bus/internal/general/logger"
	"school-bus/internal/ports"
)

// engineService encapsulates the route and trip automation logic and its
// dependencies.
type engineService struct {
	logger *logger.Logger
	uow    ports.UnitOfWork

	schoolRepo   ports.SchoolRepository
	childRepo    ports.ChildRepository
	busRepo      ports.BusRepository
	routeRepo    ports.RouteRepository
	scheduleRepo ports.ScheduledRouteRepository
	tripRepo     ports.TripRepository
	historyRepo  ports.TripHistoryRepository
	attRepo      ports.AttendanceRepository
	exemptRepo   ports.ExemptionRepository

	pub  ports.EventPublisher // nil disables publishing
	lock ports.GenerationLock // nil disables the daily advisory lock
	rng  *rand.Rand           // clustering randomness, injected for determinism

	geofenceThreshold float64 // degrees, per axis
}

// NewEngineService creates a new instance of the EngineService with the
// provided dependencies.
func NewEngineService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	schoolRepo ports.SchoolRepository,
	childRepo ports.ChildRepository,
	busRepo ports.BusRepository,
	routeRepo ports.RouteRepository,
	scheduleRepo ports.ScheduledRouteRepository,
	tripRepo ports.TripRepository,
	historyRepo ports.TripHistoryRepository,
	attRepo ports.AttendanceRepository,
	exemptRepo ports.ExemptionRepository,
	pub ports.EventPublisher,
	lock ports.GenerationLock,
	rng *rand.Rand,
	geofenceThreshold float64,
) ports.EngineService {
	return &engineService{
		logger:            logger,
		uow:               uow,
		schoolRepo:        schoolRepo,
		childRepo:         childRepo,
		busRepo:           busRepo,
		routeRepo:         routeRepo,
		scheduleRepo:      scheduleRepo,
		tripRepo:          tripRepo,
		historyRepo:       historyRepo,
		attRepo:           attRepo,
		exemptRepo:        exemptRepo,
		pub:               pub,
		lock:              lock,
		rng:               rng,
		geofenceThreshold: geofenceThreshold,
	}
}
