package shotlabel

type CourtPosition string

const (
	NearDeuce CourtPosition = "near_deuce"
	NearAd    CourtPosition = "near_ad"
	FarDeuce  CourtPosition = "far_deuce"
	FarAd     CourtPosition = "far_ad"
)

type Side string

const (
	Forehand Side = "forehand"
	Backhand Side = "backhand"
)

type ShotType string

const (
	Serve       ShotType = "serve"
	SecondServe ShotType = "second-serve"
	Return      ShotType = "return"
	Volley      ShotType = "volley"
	Lob         ShotType = "lob"
	Smash       ShotType = "smash"
	Swing       ShotType = "swing"
)

type Direction string

const (
	DirT        Direction = "T"
	DirB        Direction = "B"
	DirW        Direction = "W"
	CrossCourt  Direction = "CC"
	DownTheLine Direction = "DL"
	InsideOut   Direction = "IO"
	InsideIn    Direction = "II"
)

type Formation string

const (
	Conventional Formation = "conventional"
	IFormation   Formation = "i-formation"
	Australian   Formation = "australian"
	NonServe     Formation = "non-serve"
)

type Outcome string

const (
	OutcomeIn  Outcome = "in"
	OutcomeWin Outcome = "win"
	OutcomeErr Outcome = "err"
)

var (
	CourtPositions  = []CourtPosition{NearDeuce, NearAd, FarDeuce, FarAd}
	Sides           = []Side{Forehand, Backhand}
	ShotTypes       = []ShotType{Serve, SecondServe, Return, Volley, Lob, Smash, Swing}
	ServeDirections = []Direction{DirT, DirB, DirW}
	RallyDirections = []Direction{CrossCourt, DownTheLine, InsideOut, InsideIn}
	ServeFormations = []Formation{Conventional, IFormation, Australian}
	RallyFormations = []Formation{NonServe}
	Outcomes        = []Outcome{OutcomeIn, OutcomeWin, OutcomeErr}
	Directions      = append(append([]Direction{}, ServeDirections...), RallyDirections...)
	Formations      = append(append([]Formation{}, ServeFormations...), RallyFormations...)
)

//Defaults substituted for tokens that are missing or outside their vocabulary
const (
	DefaultCourtPosition = NearDeuce
	DefaultSide          = Forehand
	DefaultShotType      = Serve
	DefaultDirection     = DirT
	DefaultFormation     = Conventional
	DefaultOutcome       = OutcomeIn
)

//IsServe covers first and second serves
func (t ShotType) IsServe() bool {
	return t == Serve || t == SecondServe
}

func (d Direction) IsServeDirection() bool {
	return contains(ServeDirections, d)
}

func (f Formation) IsServeFormation() bool {
	return contains(ServeFormations, f)
}

//Half returns "ad" or "deuce"
func (c CourtPosition) Half() string {
	switch c {
	case NearAd, FarAd:
		return "ad"
	default:
		return "deuce"
	}
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

//parseOr is the single place where an unknown token falls back to its default
func parseOr[T ~string](token string, vocabulary []T, def T) (T, bool) {
	v := T(token)
	if contains(vocabulary, v) {
		return v, true
	}
	return def, false
}

func ParseCourtPosition(token string) (CourtPosition, bool) {
	return parseOr(token, CourtPositions, DefaultCourtPosition)
}

func ParseSide(token string) (Side, bool) {
	return parseOr(token, Sides, DefaultSide)
}

func ParseShotType(token string) (ShotType, bool) {
	return parseOr(token, ShotTypes, DefaultShotType)
}

func ParseDirection(token string) (Direction, bool) {
	return parseOr(token, Directions, DefaultDirection)
}

func ParseFormation(token string) (Formation, bool) {
	return parseOr(token, Formations, DefaultFormation)
}

func ParseOutcome(token string) (Outcome, bool) {
	return parseOr(token, Outcomes, DefaultOutcome)
}
