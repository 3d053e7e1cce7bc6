package layout

// Status is a single-character attendance mark typed into a session cell.
type Status struct {
	Code  string
	Label string
	Color string
}

const (
	Present        = "a"
	Excused        = "e"
	HolidayExcused = "f"
	GameAttended   = "s"
	Unexcused      = "u"
	PlaysOtherTeam = "t"
)

const (
	gameHeaderColor  = "3399FF"
	extraHeaderColor = "B3E6B3"
)

// Statuses drives both the legend block and the highlight rules, in legend
// order.
var Statuses = []Status{
	{Code: Present, Label: "anwesend", Color: "6FDC6F"},
	{Code: Excused, Label: "entschuldigt abwesend", Color: "FFFF00"},
	{Code: HolidayExcused, Label: "ferien abwesend", Color: "FF8000"},
	{Code: GameAttended, Label: "Spielteilnahme", Color: "99CCFF"},
	{Code: Unexcused, Label: "unentschuldigt abwesend", Color: "FF0000"},
	{Code: PlaysOtherTeam, Label: "spielt für anderes Team", Color: "C0C0C0"},
}

func (s Status) LegendText() string {
	return s.Code + " = " + s.Label
}
