package models

// CrowdResult is the outcome of one crowd-counting pass over a frame.
type CrowdResult struct {
	PeopleCount int
}

// WeaponObject is a single detected object from the weapon model.
type WeaponObject struct {
	Label      string
	Confidence float64
	X          int
	Y          int
	Width      int
	Height     int
}

// WeaponResult is the outcome of one weapon-detection pass over a frame.
type WeaponResult struct {
	Objects []WeaponObject
}

// ViolenceResult is the outcome of one violence-classification pass.
// Probability is the raw classifier output in [0,1]; values above 0.5
// indicate a fight.
type ViolenceResult struct {
	Probability float64
}

// IsFight reports whether the classifier output crosses the fight threshold.
func (r ViolenceResult) IsFight() bool {
	return r.Probability > 0.5
}

// Confidence reports how certain the classifier is about its verdict,
// regardless of direction.
func (r ViolenceResult) Confidence() float64 {
	if r.Probability > 0.5 {
		return r.Probability
	}
	return 1 - r.Probability
}
