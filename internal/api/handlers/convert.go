package handlers

import (
	"route-dispatch-service/internal/api/dto"
	"route-dispatch-service/internal/domain"
)

func stopFromDTO(s dto.StopDTO) domain.Stop {
	return domain.Stop{
		Address:       s.Address,
		Lat:           s.Lat,
		Lon:           s.Lng,
		Note:          s.Note,
		ArrivalTime:   s.ArrivalTime,
		DepartureTime: s.DepartureTime,
		DriverID:      s.DriverID,
		Order:         s.Order,
	}
}

func stopToDTO(s domain.Stop) dto.StopDTO {
	return dto.StopDTO{
		Address:       s.Address,
		Lat:           s.Lat,
		Lng:           s.Lon,
		Note:          s.Note,
		ArrivalTime:   s.ArrivalTime,
		DepartureTime: s.DepartureTime,
		DriverID:      s.DriverID,
		Order:         s.Order,
	}
}

func stopsToDTO(stops []domain.Stop) []dto.StopDTO {
	out := make([]dto.StopDTO, 0, len(stops))
	for _, s := range stops {
		out = append(out, stopToDTO(s))
	}
	return out
}

func configFromDTO(c dto.ConfigDTO) domain.RouteConfiguration {
	return domain.RouteConfiguration{
		MaxSpeedKPH:   c.MaxSpeed,
		WeightTonnes:  c.Weight,
		LengthMeters:  c.Length,
		HeightMeters:  c.Height,
		AvoidHighways: c.AvoidHighways,
		AvoidTolls:    c.AvoidTolls,
		AvoidFerries:  c.AvoidFerries,
		AvoidTunnels:  c.AvoidTunnels,
		AvoidUTurns:   c.AvoidUTurns,
		ReturnToStart: c.ReturnToStart,
		NumberDrivers: c.NumberDrivers,
	}
}

func configToDTO(c domain.RouteConfiguration) dto.ConfigDTO {
	return dto.ConfigDTO{
		MaxSpeed:      c.MaxSpeedKPH,
		Weight:        c.WeightTonnes,
		Length:        c.LengthMeters,
		Height:        c.HeightMeters,
		AvoidHighways: c.AvoidHighways,
		AvoidTolls:    c.AvoidTolls,
		AvoidFerries:  c.AvoidFerries,
		AvoidTunnels:  c.AvoidTunnels,
		AvoidUTurns:   c.AvoidUTurns,
		ReturnToStart: c.ReturnToStart,
		NumberDrivers: c.NumberDrivers,
	}
}

func routeToDTO(r domain.DriverRoute) dto.DriverRouteDTO {
	path := make([][]float64, 0, len(r.RoadPath))
	for _, c := range r.RoadPath {
		path = append(path, c.CoordsToList())
	}

	segments := make([]dto.SegmentDTO, 0, len(r.StraightLinePaths))
	for _, s := range r.StraightLinePaths {
		segments = append(segments, dto.SegmentDTO{
			Origin:      s.Origin.CoordsToList(),
			Destination: s.Destination.CoordsToList(),
		})
	}

	steps := make([]dto.RouteStepDTO, 0, len(r.Directions))
	for _, st := range r.Directions {
		steps = append(steps, dto.RouteStepDTO(st))
	}

	return dto.DriverRouteDTO{
		DriverID:          r.DriverID,
		Stops:             stopsToDTO(r.Stops),
		RoadPath:          path,
		StraightLinePaths: segments,
		Directions:        steps,
		TotalDistance:     r.TotalDistanceMeters,
		TotalDuration:     r.TotalDurationSeconds,
		DistanceText:      r.DistanceText,
		DurationText:      r.DurationText,
		Color:             r.Color,
	}
}

func routesToDTO(routes []domain.DriverRoute) []dto.DriverRouteDTO {
	out := make([]dto.DriverRouteDTO, 0, len(routes))
	for _, r := range routes {
		out = append(out, routeToDTO(r))
	}
	return out
}
