package marker

// TrainKind is the refined Irish Rail train type derived from the raw
// trainType code.
type TrainKind int

const (
	TrainKindUnknown TrainKind = iota
	TrainKindMainline
	TrainKindSuburban
	TrainKindDART
)

func (k TrainKind) String() string {
	switch k {
	case TrainKindMainline:
		return "Mainline"
	case TrainKindSuburban:
		return "Suburban"
	case TrainKindDART:
		return "DART"
	default:
		return "Unknown"
	}
}

// TrainStatus is the running state derived from the raw trainStatus code.
type TrainStatus int

const (
	TrainStatusUnknown TrainStatus = iota
	TrainStatusRunning
	TrainStatusTerminated
	TrainStatusNotYetRunning
)

func (s TrainStatus) String() string {
	switch s {
	case TrainStatusRunning:
		return "Running"
	case TrainStatusTerminated:
		return "Terminated"
	case TrainStatusNotYetRunning:
		return "Not yet running"
	default:
		return "Unknown"
	}
}

// PunctualityStatus classifies a parsed punctuality value. Unknown marks an
// unparseable message and is excluded from numeric comparisons.
type PunctualityStatus int

const (
	PunctualityUnknown PunctualityStatus = iota
	PunctualityEarly
	PunctualityOnTime
	PunctualityLate
)

func (p PunctualityStatus) String() string {
	switch p {
	case PunctualityEarly:
		return "early"
	case PunctualityOnTime:
		return "on-time"
	case PunctualityLate:
		return "late"
	default:
		return "N/A"
	}
}

// PunctualityBucket drives train icon choice. Running status dominates raw
// lateness: a late train that is terminated or not yet running lands in
// BucketNotRunning, and OnTime covers early arrivals too.
type PunctualityBucket int

const (
	BucketNotRunning PunctualityBucket = iota
	BucketOnTime
	BucketLate
)

func (b PunctualityBucket) String() string {
	switch b {
	case BucketOnTime:
		return "OnTime"
	case BucketLate:
		return "Late"
	default:
		return "NotRunning"
	}
}

// LuasLine is derived from the raw lineID field.
type LuasLine int

const (
	LuasLineUnknown LuasLine = iota
	LuasLineGreen
	LuasLineRed
)

func (l LuasLine) String() string {
	switch l {
	case LuasLineGreen:
		return "Green Line"
	case LuasLineRed:
		return "Red Line"
	default:
		return "N/A"
	}
}

// Category is the closed icon category: object type refined, for trains, by
// kind and punctuality bucket and, for Luas stops, by line. Its String form
// is the icon tag the renderer keys on.
type Category int

const (
	CategoryUnknown Category = iota

	CategoryMainlineOnTime
	CategoryMainlineLate
	CategoryMainlineNotRunning
	CategorySuburbanOnTime
	CategorySuburbanLate
	CategorySuburbanNotRunning
	CategoryDARTOnTime
	CategoryDARTLate
	CategoryDARTNotRunning
	CategoryTrainOnTime
	CategoryTrainLate
	CategoryTrainNotRunning

	CategoryIrishRailStation
	CategoryBus
	CategoryBusStop

	CategoryLuasGreen
	CategoryLuasRed
	CategoryLuasNoLine
)

var categoryTags = map[Category]string{
	CategoryUnknown:            "unknown",
	CategoryMainlineOnTime:     "mainlineOnTime",
	CategoryMainlineLate:       "mainlineLate",
	CategoryMainlineNotRunning: "mainlineNotRunning",
	CategorySuburbanOnTime:     "suburbanOnTime",
	CategorySuburbanLate:       "suburbanLate",
	CategorySuburbanNotRunning: "suburbanNotRunning",
	CategoryDARTOnTime:         "dartOnTime",
	CategoryDARTLate:           "dartLate",
	CategoryDARTNotRunning:     "dartNotRunning",
	CategoryTrainOnTime:        "trainOnTime",
	CategoryTrainLate:          "trainLate",
	CategoryTrainNotRunning:    "trainNotRunning",
	CategoryIrishRailStation:   "irishRailStation",
	CategoryBus:                "bus",
	CategoryBusStop:            "busStop",
	CategoryLuasGreen:          "luasStopGreen",
	CategoryLuasRed:            "luasStopRed",
	CategoryLuasNoLine:         "luasStop",
}

func (c Category) String() string {
	if tag, ok := categoryTags[c]; ok {
		return tag
	}
	return "unknown"
}

// trainCategory combines kind and bucket into the closed category set.
func trainCategory(kind TrainKind, bucket PunctualityBucket) Category {
	switch kind {
	case TrainKindMainline:
		switch bucket {
		case BucketOnTime:
			return CategoryMainlineOnTime
		case BucketLate:
			return CategoryMainlineLate
		default:
			return CategoryMainlineNotRunning
		}
	case TrainKindSuburban:
		switch bucket {
		case BucketOnTime:
			return CategorySuburbanOnTime
		case BucketLate:
			return CategorySuburbanLate
		default:
			return CategorySuburbanNotRunning
		}
	case TrainKindDART:
		switch bucket {
		case BucketOnTime:
			return CategoryDARTOnTime
		case BucketLate:
			return CategoryDARTLate
		default:
			return CategoryDARTNotRunning
		}
	default:
		switch bucket {
		case BucketOnTime:
			return CategoryTrainOnTime
		case BucketLate:
			return CategoryTrainLate
		default:
			return CategoryTrainNotRunning
		}
	}
}

// luasCategory picks the line-colored stop category.
func luasCategory(line LuasLine) Category {
	switch line {
	case LuasLineGreen:
		return CategoryLuasGreen
	case LuasLineRed:
		return CategoryLuasRed
	default:
		return CategoryLuasNoLine
	}
}
