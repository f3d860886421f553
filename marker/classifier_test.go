package marker

import (
	"reflect"
	"testing"

	"github.com/iompar/iompar/feeds"
)

func trainRecord(trainType, trainStatus, message string) feeds.RawRecord {
	return feeds.RawRecord{
		ObjectID:           "IrishRailTrain-A152",
		ObjectType:         feeds.TypeIrishRailTrain,
		Latitude:           "53.3498",
		Longitude:          "-6.2603",
		TrainCode:          "A152",
		TrainType:          trainType,
		TrainStatus:        trainStatus,
		TrainPublicMessage: message,
		TrainDirection:     "Northbound",
	}
}

func TestClassifyTrainPunctuality(t *testing.T) {
	tests := []struct {
		name       string
		trainType  string
		status     string
		message    string
		wantIcon   string
		wantBucket PunctualityBucket
		wantStatus PunctualityStatus
	}{
		{
			name:      "running DART two minutes early",
			trainType: "D", status: "R",
			message:    `A152\nDublin Connolly to Howth(-2 mins late)\nArrived Sutton`,
			wantIcon:   "dartOnTime",
			wantBucket: BucketOnTime,
			wantStatus: PunctualityEarly,
		},
		{
			name:      "running mainline on time",
			trainType: "M", status: "R",
			message:    `B401\nCork to Heuston(0 mins late)\nDeparted Mallow`,
			wantIcon:   "mainlineOnTime",
			wantBucket: BucketOnTime,
			wantStatus: PunctualityOnTime,
		},
		{
			name:      "running suburban late",
			trainType: "S", status: "R",
			message:    `P612\nMaynooth to Pearse(7 mins late)\nDeparted Ashtown`,
			wantIcon:   "suburbanLate",
			wantBucket: BucketLate,
			wantStatus: PunctualityLate,
		},
		{
			name:      "terminated DART ignores lateness sign",
			trainType: "D", status: "T",
			message:    `A152\nHowth to Bray(5 mins late)\nTerminated Bray`,
			wantIcon:   "dartNotRunning",
			wantBucket: BucketNotRunning,
			wantStatus: PunctualityLate,
		},
		{
			name:      "not yet running",
			trainType: "D", status: "N",
			message:    `A200\nBray to Howth(0 mins late)\nExpected to depart 14:10`,
			wantIcon:   "dartNotRunning",
			wantBucket: BucketNotRunning,
			wantStatus: PunctualityOnTime,
		},
		{
			name:      "unparseable message buckets as not running",
			trainType: "D", status: "R",
			message:    "no punctuality information here",
			wantIcon:   "dartNotRunning",
			wantBucket: BucketNotRunning,
			wantStatus: PunctualityUnknown,
		},
		{
			name:      "unknown type code",
			trainType: "X", status: "R",
			message:    `C99\nSomewhere(3 mins late)\nDeparted`,
			wantIcon:   "trainLate",
			wantBucket: BucketLate,
			wantStatus: PunctualityLate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Classify(trainRecord(tt.trainType, tt.status, tt.message))
			if m.Train == nil {
				t.Fatal("expected train details")
			}
			if m.Icon != tt.wantIcon {
				t.Errorf("icon = %s, want %s", m.Icon, tt.wantIcon)
			}
			if m.Train.Bucket != tt.wantBucket {
				t.Errorf("bucket = %v, want %v", m.Train.Bucket, tt.wantBucket)
			}
			if m.Train.PunctualityStatus != tt.wantStatus {
				t.Errorf("punctuality status = %v, want %v", m.Train.PunctualityStatus, tt.wantStatus)
			}
			if !m.Displayable {
				t.Error("trains are always classifiable")
			}
		})
	}
}

func TestClassifyTrainLatenessMessages(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{`X\nY(-2 mins late)\nZ`, "2 minutes early"},
		{`X\nY(-1 mins late)\nZ`, "1 minute early"},
		{`X\nY(0 mins late)\nZ`, "On time"},
		{`X\nY(1 mins late)\nZ`, "1 minute late"},
		{`X\nY(12 mins late)\nZ`, "12 minutes late"},
		{`no match`, "N/A"},
	}
	for _, tt := range tests {
		m := Classify(trainRecord("D", "R", tt.message))
		if m.Train.LatenessMessage != tt.want {
			t.Errorf("message %q: lateness = %q, want %q", tt.message, m.Train.LatenessMessage, tt.want)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	rec := trainRecord("D", "R", `A152\nConnolly to Howth(-2 mins late)\nArrived Sutton`)
	first := Classify(rec)
	second := Classify(rec)
	if first.SearchText != second.SearchText {
		t.Errorf("searchText not deterministic: %q vs %q", first.SearchText, second.SearchText)
	}
	if !reflect.DeepEqual(first.DetailFields, second.DetailFields) {
		t.Error("detail fields not deterministic")
	}
}

func TestClassifyBusBlankNamesExcluded(t *testing.T) {
	tests := []struct {
		name        string
		agency      string
		shortName   string
		longName    string
		displayable bool
	}{
		{"complete", "Dublin Bus", "145", "Ballywaltrim - Heuston", true},
		{"blank agency", "", "145", "Ballywaltrim - Heuston", false},
		{"blank short name", "Dublin Bus", "", "Ballywaltrim - Heuston", false},
		{"blank long name", "Dublin Bus", "145", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Classify(feeds.RawRecord{
				ObjectType:         feeds.TypeBus,
				Latitude:           "53.3",
				Longitude:          "-6.2",
				BusRoute:           "60-145",
				BusRouteAgencyName: tt.agency,
				BusRouteShortName:  tt.shortName,
				BusRouteLongName:   tt.longName,
			})
			if m.Displayable != tt.displayable {
				t.Errorf("displayable = %v, want %v", m.Displayable, tt.displayable)
			}
			if m.Icon != "bus" {
				t.Errorf("icon = %s", m.Icon)
			}
		})
	}
}

func TestClassifyLuasStop(t *testing.T) {
	m := Classify(feeds.RawRecord{
		ObjectType:             feeds.TypeLuasStop,
		Latitude:               "53.32",
		Longitude:              "-6.26",
		LuasStopName:           "Ranelagh",
		LuasStopIrishName:      "Raghnallach",
		LuasStopID:             "24",
		LuasStopLineID:         "1",
		LuasStopIsEnabled:      "1",
		LuasStopIsParkAndRide:  "0",
		LuasStopIsCycleAndRide: "1",
	})
	if m.Luas == nil {
		t.Fatal("expected luas details")
	}
	if m.Luas.Line != LuasLineGreen {
		t.Errorf("line = %v", m.Luas.Line)
	}
	if m.Icon != "luasStopGreen" {
		t.Errorf("icon = %s", m.Icon)
	}
	if !m.Luas.Enabled || m.Luas.ParkAndRide || !m.Luas.CycleAndRide {
		t.Errorf("flags wrong: %+v", m.Luas)
	}
	if m.FavouriteKey != (FavouriteKey{ObjectType: feeds.TypeLuasStop, ID: "24"}) {
		t.Errorf("favourite key = %+v", m.FavouriteKey)
	}
	if m.SearchText != NormalizeText("RaghnallachRanelaghGreen Line") {
		t.Errorf("searchText = %q", m.SearchText)
	}
}

func TestClassifyLuasUnknownLine(t *testing.T) {
	m := Classify(feeds.RawRecord{
		ObjectType:     feeds.TypeLuasStop,
		Latitude:       "53.3",
		Longitude:      "-6.2",
		LuasStopLineID: "9",
	})
	if m.Luas.Line != LuasLineUnknown {
		t.Errorf("line = %v", m.Luas.Line)
	}
	if m.Luas.Line.String() != "N/A" {
		t.Errorf("line string = %q", m.Luas.Line.String())
	}
	if m.Icon != "luasStop" {
		t.Errorf("icon = %s", m.Icon)
	}
}

func TestClassifyUnknownObjectType(t *testing.T) {
	m := Classify(feeds.RawRecord{ObjectType: "Ferry", Latitude: "53.3", Longitude: "-6.2"})
	if m.Displayable {
		t.Error("unknown object types are never displayable")
	}
	if m.SearchText != "unknownobjecttype" {
		t.Errorf("searchText = %q", m.SearchText)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"47A", "47a"},
		{"Dublin Bus - Route 145!", "dublinbusroute145"},
		{"Sráid Westmoreland", "sridwestmoreland"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyStationSearchText(t *testing.T) {
	m := Classify(feeds.RawRecord{
		ObjectType:       feeds.TypeIrishRailStation,
		Latitude:         "53.35",
		Longitude:        "-6.25",
		TrainStationCode: "CNLLY",
		TrainStationDesc: "Dublin Connolly",
		TrainStationID:   "2",
	})
	if m.SearchText != "cnllydublinconnolly" {
		t.Errorf("searchText = %q", m.SearchText)
	}
	if m.Icon != "irishRailStation" {
		t.Errorf("icon = %s", m.Icon)
	}
	want := []Field{
		{Key: "Train Station Name", Value: "Dublin Connolly"},
		{Key: "Train Station ID", Value: "2"},
		{Key: "Train Station Code", Value: "CNLLY"},
	}
	if !reflect.DeepEqual(m.DetailFields, want) {
		t.Errorf("detail fields = %+v", m.DetailFields)
	}
}
