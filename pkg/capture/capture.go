package capture

// Sample is a single bus observation: the data byte latched on D0..D7 and the
// time it was seen, in microseconds since the sniffer was armed.
type Sample struct {
	Timestamp uint64 `json:"t_us" yaml:"t_us"`
	Data      uint8  `json:"data" yaml:"data"`
}

// Meta holds reader diagnostics gathered while parsing a capture file.
type Meta struct {
	Rows     int `json:"rows" yaml:"rows"`         // Data rows accepted
	Dropped  int `json:"dropped" yaml:"dropped"`   // Malformed rows skipped
	Comments int `json:"comments" yaml:"comments"` // Comment and header lines

	// Values reported by the sniffer firmware's periodic statistics block.
	// The firmware prints running totals, so the last block seen wins.
	FirmwareStats  bool `json:"firmware_stats" yaml:"firmware_stats"`
	FramesReported int  `json:"frames_reported" yaml:"frames_reported"`
	RingDropped    int  `json:"ring_dropped" yaml:"ring_dropped"`
}

// Capture is an ordered sequence of samples in capture order.
type Capture struct {
	Samples []Sample
	Meta    Meta
}

// New wraps samples in a Capture. The slice is used as is.
func New(samples []Sample) *Capture {
	return &Capture{
		Samples: samples,
		Meta:    Meta{Rows: len(samples)},
	}
}

// Len returns the number of samples.
func (c *Capture) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Samples)
}

// Span returns the first and last timestamps. Both are zero for an empty
// capture.
func (c *Capture) Span() (first, last uint64) {
	if c.Len() == 0 {
		return 0, 0
	}
	return c.Samples[0].Timestamp, c.Samples[len(c.Samples)-1].Timestamp
}
