package feeds

import (
	"fmt"
	"strconv"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// BusRecordsFromVehicles decodes a GTFS-RT VehiclePositions payload and
// joins each vehicle with the permanent BusRoute table to produce Bus
// RawRecords, mirroring what the upstream feed builder does. Vehicles whose
// route is missing from the table still produce a record with blank route
// names; the classifier excludes those later as a data-quality measure.
func BusRecordsFromVehicles(data []byte, routes []RawRecord, now time.Time) ([]RawRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parsing vehicle positions: %w", err)
	}

	routesByID := map[string]RawRecord{}
	for _, r := range routes {
		if r.ObjectType == TypeBusRoute && r.BusRouteID != "" {
			routesByID[r.BusRouteID] = r
		}
	}

	ts := strconv.FormatInt(now.Unix(), 10)
	buses := make([]RawRecord, 0, len(fm.Entity))
	for _, e := range fm.Entity {
		v := e.GetVehicle()
		if v == nil || v.GetTrip() == nil || v.GetPosition() == nil || e.Id == nil {
			continue
		}
		trip := v.GetTrip()
		pos := v.GetPosition()
		routeID := trip.GetRouteId()
		route := routesByID[routeID]

		buses = append(buses, RawRecord{
			ObjectID:                "Bus-" + e.GetId(),
			ObjectType:              TypeBus,
			Timestamp:               ts,
			Latitude:                formatCoord(float64(pos.GetLatitude())),
			Longitude:               formatCoord(float64(pos.GetLongitude())),
			BusID:                   e.GetId(),
			BusTripID:               trip.GetTripId(),
			BusStartTime:            trip.GetStartTime(),
			BusStartDate:            trip.GetStartDate(),
			BusScheduleRelationship: trip.GetScheduleRelationship().String(),
			BusRoute:                routeID,
			BusRouteAgencyName:      route.BusRouteAgencyName,
			BusRouteShortName:       route.BusRouteShortName,
			BusRouteLongName:        route.BusRouteLongName,
			BusDirection:            strconv.FormatUint(uint64(trip.GetDirectionId()), 10),
		})
	}
	return buses, nil
}

// formatCoord renders a coordinate the way the feeds do: a plain decimal
// string, with an absent position becoming the NoLocation sentinel.
func formatCoord(v float64) string {
	if v == 0 {
		return NoLocation
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
