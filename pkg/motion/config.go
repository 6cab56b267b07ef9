package motion

import "github.com/repcoach/go-repcoach/pkg/pose"

// Config holds all tunable parameters for motion detection.
type Config struct {
	// Threshold is the minimum Euclidean displacement (in normalized
	// coordinates) of a single tracked joint between two frames that
	// counts as movement.
	Threshold float64

	// MinVisibility is the confidence below which a keypoint is ignored.
	// A joint must meet it in both frames to be compared.
	MinVisibility float64

	// Joints is the curated set of landmark indices compared between
	// frames. These are the joints whose displacement correlates with
	// exercise execution rather than sensor noise on extremities.
	Joints []int
}

// DefaultConfig returns the recommended configuration for exercise
// activity detection.
func DefaultConfig() Config {
	return Config{
		Threshold:     0.05, // ~5% of frame width
		MinVisibility: 0.5,
		Joints: []int{
			pose.Nose,
			pose.LeftShoulder, pose.RightShoulder,
			pose.LeftElbow, pose.RightElbow,
			pose.LeftWrist, pose.RightWrist,
			pose.LeftHip, pose.RightHip,
			pose.LeftKnee, pose.RightKnee,
			pose.LeftAnkle, pose.RightAnkle,
		},
	}
}
