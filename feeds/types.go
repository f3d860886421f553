package feeds

// Object types carried in the objectType field of every record.
const (
	TypeIrishRailTrain   = "IrishRailTrain"
	TypeIrishRailStation = "IrishRailStation"
	TypeBus              = "Bus"
	TypeBusStop          = "BusStop"
	TypeBusRoute         = "BusRoute"
	TypeLuasStop         = "LuasStop"
)

// NoLocation is the documented "no location" sentinel. It is compared as a
// raw string, never parsed: a legitimately parsed 0.0 elsewhere must not be
// confused with it.
const NoLocation = "0"

// RawRecord is a transit object as received from a feed: a tagged union
// keyed by ObjectType where every variant contributes its own string fields
// and the rest stay empty. Coordinates and flags are transmitted as strings
// and are kept that way until classification.
type RawRecord struct {
	ObjectID   string `json:"objectID"`
	ObjectType string `json:"objectType"`
	Timestamp  string `json:"timestamp"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`

	// IrishRailTrain
	TrainCode          string `json:"trainCode,omitempty"`
	TrainType          string `json:"trainType,omitempty"`
	TrainTypeFull      string `json:"trainTypeFull,omitempty"`
	TrainStatus        string `json:"trainStatus,omitempty"`
	TrainStatusFull    string `json:"trainStatusFull,omitempty"`
	TrainDate          string `json:"trainDate,omitempty"`
	TrainPublicMessage string `json:"trainPublicMessage,omitempty"`
	TrainDirection     string `json:"trainDirection,omitempty"`
	TrainDetails       string `json:"trainDetails,omitempty"`
	TrainUpdate        string `json:"trainUpdate,omitempty"`
	AveragePunctuality string `json:"averagePunctuality,omitempty"`

	// IrishRailStation
	TrainStationID    string `json:"trainStationID,omitempty"`
	TrainStationCode  string `json:"trainStationCode,omitempty"`
	TrainStationAlias string `json:"trainStationAlias,omitempty"`
	TrainStationDesc  string `json:"trainStationDesc,omitempty"`
	TrainStationType  string `json:"trainStationType,omitempty"`

	// Bus
	BusID                   string `json:"busID,omitempty"`
	BusTripID               string `json:"busTripID,omitempty"`
	BusStartTime            string `json:"busStartTime,omitempty"`
	BusStartDate            string `json:"busStartDate,omitempty"`
	BusScheduleRelationship string `json:"busScheduleRelationship,omitempty"`
	BusRoute                string `json:"busRoute,omitempty"`
	BusRouteAgencyName      string `json:"busRouteAgencyName,omitempty"`
	BusRouteShortName       string `json:"busRouteShortName,omitempty"`
	BusRouteLongName        string `json:"busRouteLongName,omitempty"`
	BusDirection            string `json:"busDirection,omitempty"`

	// BusRoute (permanent lookup table joined onto Bus records)
	BusRouteID       string `json:"busRouteID,omitempty"`
	BusRouteAgencyID string `json:"busRouteAgencyID,omitempty"`

	// BusStop
	BusStopID   string `json:"busStopID,omitempty"`
	BusStopCode string `json:"busStopCode,omitempty"`
	BusStopName string `json:"busStopName,omitempty"`

	// LuasStop
	LuasStopName           string `json:"luasStopName,omitempty"`
	LuasStopIrishName      string `json:"luasStopIrishName,omitempty"`
	LuasStopID             string `json:"luasStopID,omitempty"`
	LuasStopCode           string `json:"luasStopCode,omitempty"`
	LuasStopLineID         string `json:"luasStopLineID,omitempty"`
	LuasStopSortOrder      string `json:"luasStopSortOrder,omitempty"`
	LuasStopIsEnabled      string `json:"luasStopIsEnabled,omitempty"`
	LuasStopIsParkAndRide  string `json:"luasStopIsParkAndRide,omitempty"`
	LuasStopIsCycleAndRide string `json:"luasStopIsCycleAndRide,omitempty"`
	LuasStopZoneCountA     string `json:"luasStopZoneCountA,omitempty"`
	LuasStopZoneCountB     string `json:"luasStopZoneCountB,omitempty"`
}

// HasLocation reports whether both coordinate strings differ from the
// NoLocation sentinel.
func (r *RawRecord) HasLocation() bool {
	return r.Latitude != NoLocation && r.Longitude != NoLocation
}
