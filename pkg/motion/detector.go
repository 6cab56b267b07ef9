// Package motion decides, frame by frame, whether the user is actually
// moving. It compares a curated subset of joints between two consecutive
// keypoint snapshots; a single joint displaced beyond the threshold is
// enough to call the frame active.
package motion

import "github.com/repcoach/go-repcoach/pkg/pose"

// Detector compares consecutive keypoint snapshots for meaningful
// movement. It is stateful only in that it retains an independent copy
// of the previous frame; counting consecutive still frames is the
// caller's job.
//
// Detector is not safe for concurrent use. Drive it from the single
// frame-processing goroutine.
type Detector struct {
	config Config

	// Ping-pong buffers: prev is the stored snapshot, spare is the
	// buffer the next copy will be written into.
	prev   pose.KeypointSet
	spare  pose.KeypointSet
	primed bool
}

// NewDetector creates a detector with the given configuration.
func NewDetector(config Config) *Detector {
	return &Detector{config: config}
}

// Detect reports whether meaningful movement occurred between the stored
// previous frame and current. The first call primes the detector and
// always returns false; that is a priming step, not a stillness
// judgment.
//
// Detect always replaces the stored previous frame with an independent
// copy of current, so the caller may reuse or mutate its slice freely
// after the call.
func (d *Detector) Detect(current pose.KeypointSet) bool {
	if !d.primed {
		d.prev = current.CloneInto(d.prev)
		d.primed = true
		return false
	}

	moved := d.compare(d.prev, current)

	// Swap buffers so the old previous becomes the scratch target.
	d.prev, d.spare = current.CloneInto(d.spare), d.prev

	return moved
}

// compare checks the curated joints and short-circuits on the first one
// that moved beyond the threshold.
func (d *Detector) compare(prev, current pose.KeypointSet) bool {
	// Squared comparison is equivalent to comparing true Euclidean
	// distance against Threshold, without the sqrt.
	limit := d.config.Threshold * d.config.Threshold

	for _, i := range d.config.Joints {
		if i >= len(prev) || i >= len(current) {
			continue
		}
		p, c := prev[i], current[i]
		if !p.Visible(d.config.MinVisibility) || !c.Visible(d.config.MinVisibility) {
			continue
		}

		dx := c.X - p.X
		dy := c.Y - p.Y
		if dx*dx+dy*dy > limit {
			return true
		}
	}
	return false
}

// Reset discards the stored previous frame. The next Detect call primes
// again.
func (d *Detector) Reset() {
	d.primed = false
}

// Primed reports whether the detector holds a previous frame.
func (d *Detector) Primed() bool {
	return d.primed
}
