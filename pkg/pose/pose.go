// Package pose defines the body keypoint data model shared by the
// motion detector, the backend sync client, and the keypoint sources.
//
// A KeypointSet is one frame's worth of landmarks from the pose engine.
// Index identity is stable across frames: index i always denotes the
// same anatomical point, which is what makes frame-to-frame
// differencing meaningful.
package pose

// Keypoint is a single tracked anatomical location with a normalized
// planar position and a visibility/confidence score.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// KeypointSet is the full ordered collection of keypoints for one frame.
// Treat a set as an immutable snapshot: never mutate it in place after
// handing it to a consumer.
type KeypointSet []Keypoint

// Landmark indices as emitted by the pose engine.
// The engine produces 33 landmarks per frame; the core only requires
// that at least the lower-body indices exist (NumLandmarks >= 29).
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
)

// NumLandmarks is the landmark count of a full engine frame.
const NumLandmarks = 33

// Visible reports whether the keypoint's confidence meets the threshold.
func (k Keypoint) Visible(minVisibility float64) bool {
	return k.Visibility >= minVisibility
}

// Clone returns an independent copy of the set.
func (s KeypointSet) Clone() KeypointSet {
	if s == nil {
		return nil
	}
	out := make(KeypointSet, len(s))
	copy(out, s)
	return out
}

// CloneInto copies the set into dst, reusing dst's backing array when it
// has enough capacity. Returns the copy. This lets callers ping-pong two
// preallocated buffers instead of allocating per frame.
func (s KeypointSet) CloneInto(dst KeypointSet) KeypointSet {
	if s == nil {
		return nil
	}
	if cap(dst) >= len(s) {
		dst = dst[:len(s)]
	} else {
		dst = make(KeypointSet, len(s))
	}
	copy(dst, s)
	return dst
}
