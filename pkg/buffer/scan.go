package buffer

// Dimensions are the dense array bounds needed to hold a set of frames.
type Dimensions struct {
	TotalSteps   int
	MaxAgents    int
	MaxSubpoints int // in points
}

// walkRecords calls fn with every complete record in data. Trailing values
// too short to hold a record are ignored.
func walkRecords(frame int, data []float64, fn func(record []float64)) error {
	i := 0
	for len(data)-i >= PrefixLen {
		declared := int(data[i+NSPIndex])
		remaining := len(data) - i - PrefixLen
		if declared < 0 || declared > remaining {
			return &MalformedBufferError{Frame: frame, Offset: i, Declared: declared, Remaining: remaining}
		}
		end := i + RecordLen(declared)
		fn(data[i:end])
		i = end
	}
	return nil
}

// ScanDimensions walks every frame once to find how many agents and subpoints
// the dense model needs, without allocating it.
func ScanDimensions(frames []Frame) (Dimensions, error) {
	dims := Dimensions{TotalSteps: len(frames)}
	for t, frame := range frames {
		agents := 0
		err := walkRecords(t, frame.Data, func(record []float64) {
			agents++
			dims.MaxSubpoints = max(dims.MaxSubpoints, PointCount(int(record[NSPIndex])))
		})
		if err != nil {
			return Dimensions{}, err
		}
		dims.MaxAgents = max(dims.MaxAgents, agents)
	}
	return dims, nil
}
