package marker

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/iompar/iompar/feeds"
	"github.com/iompar/iompar/geo"
)

// punctualityPattern extracts lateness minutes from the free-text public
// message; a negative value means early.
var punctualityPattern = regexp.MustCompile(`(-?\d+)\s+mins\s+late`)

var trainKinds = map[string]TrainKind{
	"M": TrainKindMainline,
	"S": TrainKindSuburban,
	"D": TrainKindDART,
}

var trainStatuses = map[string]TrainStatus{
	"R": TrainStatusRunning,
	"T": TrainStatusTerminated,
	"N": TrainStatusNotYetRunning,
}

var luasLines = map[string]LuasLine{
	"1": LuasLineGreen,
	"2": LuasLineRed,
}

// Classify derives a Marker from one RawRecord. It never fails: malformed
// punctuality falls back to the unknown/"N/A" bucket and unusable records
// come back flagged non-displayable. Classification is pure; the same
// record always yields the same marker.
func Classify(rec feeds.RawRecord) Marker {
	m := Marker{
		Coordinates: geo.Point{
			Lat: parseCoord(rec.Latitude),
			Lon: parseCoord(rec.Longitude),
		},
		Displayable: true,
		Raw:         rec,
		Visible:     false,
	}

	switch rec.ObjectType {
	case feeds.TypeIrishRailTrain:
		classifyTrain(&m, rec)
	case feeds.TypeIrishRailStation:
		classifyStation(&m, rec)
	case feeds.TypeBus:
		classifyBus(&m, rec)
	case feeds.TypeBusStop:
		classifyBusStop(&m, rec)
	case feeds.TypeLuasStop:
		classifyLuasStop(&m, rec)
	default:
		m.Category = CategoryUnknown
		m.Displayable = false
		m.Title = "Unknown object"
		m.SearchText = NormalizeText("unknown object type")
	}

	m.Icon = m.Category.String()
	return m
}

// ClassifyAll classifies a whole fetch cycle's records in order.
func ClassifyAll(records []feeds.RawRecord) []Marker {
	markers := make([]Marker, len(records))
	for i, rec := range records {
		markers[i] = Classify(rec)
	}
	return markers
}

func classifyTrain(m *Marker, rec feeds.RawRecord) {
	details := TrainDetails{
		Kind:   trainKinds[rec.TrainType],
		Status: trainStatuses[rec.TrainStatus],
	}

	if match := punctualityPattern.FindStringSubmatch(rec.TrainPublicMessage); match != nil {
		minutes, _ := strconv.Atoi(match[1])
		details.Punctuality = minutes
		details.PunctualityKnown = true
		switch {
		case minutes < 0:
			details.PunctualityStatus = PunctualityEarly
			details.LatenessMessage = fmt.Sprintf("%d %s early", -minutes, pluralMinute(-minutes))
		case minutes == 0:
			details.PunctualityStatus = PunctualityOnTime
			details.LatenessMessage = "On time"
		default:
			details.PunctualityStatus = PunctualityLate
			details.LatenessMessage = fmt.Sprintf("%d %s late", minutes, pluralMinute(minutes))
		}
	} else {
		details.PunctualityStatus = PunctualityUnknown
		details.LatenessMessage = "N/A"
	}

	// Running status dominates the bucket: late-but-terminated is
	// NotRunning, and an unparseable message never buckets as on time.
	switch {
	case details.Status != TrainStatusRunning:
		details.Bucket = BucketNotRunning
	case !details.PunctualityKnown:
		details.Bucket = BucketNotRunning
	case details.Punctuality > 0:
		details.Bucket = BucketLate
	default:
		details.Bucket = BucketOnTime
	}

	m.Train = &details
	m.Category = trainCategory(details.Kind, details.Bucket)
	m.Title = "Irish Rail Train " + rec.TrainCode
	m.SearchText = NormalizeText(rec.TrainPublicMessage + rec.TrainDirection)
	m.FavouriteKey = FavouriteKey{ObjectType: feeds.TypeIrishRailTrain, ID: rec.TrainCode}
	m.DetailFields = []Field{
		{Key: "Train Details", Value: rec.TrainDetails},
		{Key: "Train Type", Value: details.Kind.String()},
		{Key: "Status", Value: details.Status.String()},
		{Key: "Direction", Value: rec.TrainDirection},
		{Key: "Update", Value: rec.TrainUpdate},
		{Key: "Punctuality", Value: details.LatenessMessage},
	}
	if rec.AveragePunctuality != "" {
		m.DetailFields = append(m.DetailFields, Field{Key: "Average Punctuality", Value: averagePunctualityMessage(rec.AveragePunctuality)})
	}
}

func classifyStation(m *Marker, rec feeds.RawRecord) {
	m.Category = CategoryIrishRailStation
	m.Title = "Irish Rail Station " + rec.TrainStationDesc
	m.SearchText = NormalizeText(rec.TrainStationCode + rec.TrainStationDesc)
	m.FavouriteKey = FavouriteKey{ObjectType: feeds.TypeIrishRailStation, ID: rec.TrainStationCode}
	m.DetailFields = []Field{
		{Key: "Train Station Name", Value: rec.TrainStationDesc},
		{Key: "Train Station ID", Value: rec.TrainStationID},
		{Key: "Train Station Code", Value: rec.TrainStationCode},
	}
}

func classifyBus(m *Marker, rec feeds.RawRecord) {
	// Blank route identity is a data-quality exclusion, distinct from a
	// filter rejection.
	if rec.BusRouteAgencyName == "" || rec.BusRouteShortName == "" || rec.BusRouteLongName == "" {
		m.Displayable = false
	}
	m.Category = CategoryBus
	m.Title = "Bus " + rec.BusRouteShortName
	m.SearchText = NormalizeText(rec.BusRouteAgencyName + rec.BusRouteShortName + rec.BusRouteLongName)
	m.FavouriteKey = FavouriteKey{ObjectType: feeds.TypeBus, ID: rec.BusRoute}
	m.DetailFields = []Field{
		{Key: "Bus ID", Value: rec.BusID},
		{Key: "Route", Value: rec.BusRoute},
		{Key: "Short Name", Value: rec.BusRouteShortName},
		{Key: "Long Name", Value: rec.BusRouteLongName},
		{Key: "Agency", Value: rec.BusRouteAgencyName},
	}
}

func classifyBusStop(m *Marker, rec feeds.RawRecord) {
	m.Category = CategoryBusStop
	m.Title = "Bus Stop " + rec.BusStopName
	m.SearchText = NormalizeText(rec.BusStopName)
	m.FavouriteKey = FavouriteKey{ObjectType: feeds.TypeBusStop, ID: rec.BusStopID}
	stopCode := rec.BusStopCode
	if stopCode == "" {
		stopCode = "N/A"
	}
	m.DetailFields = []Field{
		{Key: "Bus Stop ID", Value: rec.BusStopID},
		{Key: "Bus Stop Name", Value: rec.BusStopName},
		{Key: "Bus Stop Code", Value: stopCode},
	}
}

func classifyLuasStop(m *Marker, rec feeds.RawRecord) {
	details := LuasDetails{
		Line:         luasLines[rec.LuasStopLineID],
		Enabled:      rec.LuasStopIsEnabled == "1",
		ParkAndRide:  rec.LuasStopIsParkAndRide == "1",
		CycleAndRide: rec.LuasStopIsCycleAndRide == "1",
	}
	m.Luas = &details
	m.Category = luasCategory(details.Line)
	m.Title = "Luas Stop " + rec.LuasStopName
	m.SearchText = NormalizeText(rec.LuasStopIrishName + rec.LuasStopName + details.Line.String())
	m.FavouriteKey = FavouriteKey{ObjectType: feeds.TypeLuasStop, ID: rec.LuasStopID}
	m.DetailFields = []Field{
		{Key: "Luas Stop Name", Value: rec.LuasStopName + " / " + rec.LuasStopIrishName},
		{Key: "Line", Value: details.Line.String()},
		{Key: "Stop ID", Value: rec.LuasStopID},
		{Key: "Park & ride?", Value: yesNo(details.ParkAndRide)},
		{Key: "Cycle & ride?", Value: yesNo(details.CycleAndRide)},
		{Key: "Operational?", Value: yesNo(details.Enabled)},
	}
}

// averagePunctualityMessage renders the long-run average lateness a train
// record carries, in the same phrasing as the live punctuality.
func averagePunctualityMessage(raw string) string {
	avg, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "N/A"
	}
	minutes := int(avg)
	switch {
	case minutes > 0:
		return fmt.Sprintf("%d %s late", minutes, pluralMinute(minutes))
	case minutes < 0:
		return fmt.Sprintf("%d %s early", -minutes, pluralMinute(-minutes))
	default:
		return "On time"
	}
}

func pluralMinute(n int) string {
	if n == 1 {
		return "minute"
	}
	return "minutes"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
