package backend

// Point is a normalized planar position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Angle is a joint-angle annotation anchored to a display position.
type Angle struct {
	Value    float64 `json:"value"`
	Position Point   `json:"position"`
}

// FrameResult is the analysis service's judgment for one frame.
//
// Every field is optional and independently mergeable: a nil pointer or
// nil map means the service said nothing about that field, which must
// never erase previously shown state. Unrecognized fields are ignored.
type FrameResult struct {
	RepCounter       *int             `json:"repCounter"`
	Stage            *string          `json:"stage"`
	Feedback         *string          `json:"feedback"`
	Status           *string          `json:"status"`
	Angles           map[string]Angle `json:"angles"`
	Warnings         []string         `json:"warnings"`
	ActivityDetected *bool            `json:"activity_detected"`
}

// Stage values used by the analysis service.
const (
	StageUp   = "up"
	StageDown = "down"
)
