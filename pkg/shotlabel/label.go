package shotlabel

//ShotLabel is one labelled shot: who hit it, at which frame, and what it was
type ShotLabel struct {
	Player     int        `json:"player"`
	Frame      int        `json:"frame"`
	Components Components `json:"components"`
}

func NewShotLabel(playerID, frame int, encoded string) ShotLabel {
	return ShotLabel{Player: playerID, Frame: frame, Components: Decode(encoded)}
}

//Encoded is the only form persisted externally
func (l ShotLabel) Encoded() string {
	return l.Components.Encode()
}

func (l ShotLabel) Outcome() Outcome {
	return l.Components.Outcome
}
