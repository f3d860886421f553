package filters

// Node ids for the Iompar filter catalog. The display predicate keys its
// per-type rules off these.
const (
	IrishRailTrains   = "irish-rail-trains"
	Mainline          = "mainline"
	Suburban          = "suburban"
	DART              = "dart"
	Running           = "running"
	NotYetRunning     = "not-yet-running"
	Terminated        = "terminated"
	Early             = "early"
	OnTime            = "on-time"
	Late              = "late"
	IrishRailStations = "irish-rail-stations"
	Buses             = "buses"
	BusStops          = "bus-stops"
	LuasStops         = "luas-stops"
	LuasRedLine       = "luas-red-line"
	LuasGreenLine     = "luas-green-line"
	LuasEnabled       = "luas-enabled"
	LuasDisabled      = "luas-disabled"
	LuasParkAndRide   = "luas-park-and-ride"
	LuasCycleAndRide  = "luas-cycle-and-ride"
)

// Section group names.
const (
	sectionTrainKind        = "train-kind"
	sectionTrainStatus      = "train-status"
	sectionTrainPunctuality = "train-punctuality"
	sectionLuasLine         = "luas-line"
	sectionLuasStatus       = "luas-status"
)

// NewDefaultTree builds the standard Iompar criteria tree. Everything starts
// selected except the two optional Luas narrowing modifiers, which narrow
// the result set when switched on and are exempt from the section rule.
func NewDefaultTree() *Tree {
	roots := []*Node{
		{ID: IrishRailTrains, DisplayName: "Irish Rail Trains", Children: []*Node{
			{ID: Mainline, DisplayName: "Mainline", Section: sectionTrainKind},
			{ID: Suburban, DisplayName: "Suburban", Section: sectionTrainKind},
			{ID: DART, DisplayName: "DART", Section: sectionTrainKind},
			{ID: Running, DisplayName: "Running", Section: sectionTrainStatus},
			{ID: NotYetRunning, DisplayName: "Not yet running", Section: sectionTrainStatus},
			{ID: Terminated, DisplayName: "Terminated", Section: sectionTrainStatus},
			{ID: Early, DisplayName: "Early", Section: sectionTrainPunctuality},
			{ID: OnTime, DisplayName: "On time", Section: sectionTrainPunctuality},
			{ID: Late, DisplayName: "Late", Section: sectionTrainPunctuality},
		}},
		{ID: IrishRailStations, DisplayName: "Irish Rail Stations"},
		{ID: Buses, DisplayName: "Buses"},
		{ID: BusStops, DisplayName: "Bus Stops"},
		{ID: LuasStops, DisplayName: "Luas Stops", Children: []*Node{
			{ID: LuasRedLine, DisplayName: "Red Line", Section: sectionLuasLine},
			{ID: LuasGreenLine, DisplayName: "Green Line", Section: sectionLuasLine},
			{ID: LuasEnabled, DisplayName: "Operational", Section: sectionLuasStatus},
			{ID: LuasDisabled, DisplayName: "Out of service", Section: sectionLuasStatus},
			{ID: LuasParkAndRide, DisplayName: "Must be park-and-ride"},
			{ID: LuasCycleAndRide, DisplayName: "Must be cycle-and-ride"},
		}},
	}
	t, err := NewTree(roots, LuasParkAndRide, LuasCycleAndRide)
	if err != nil {
		// The catalog is static; a construction error is a programming bug.
		panic(err)
	}
	return t
}
