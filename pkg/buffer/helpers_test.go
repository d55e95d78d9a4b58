package buffer

// record builds one packed agent record with the given subpoint values.
func record(viz, uid, tid float64, pos, rot [3]float64, radius float64, subpoints ...float64) []float64 {
	r := []float64{viz, uid, tid, pos[0], pos[1], pos[2], rot[0], rot[1], rot[2], radius, float64(len(subpoints))}
	return append(r, subpoints...)
}

func concat(records ...[]float64) []float64 {
	var out []float64
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

// cytosimFrames is a three-frame fiber trajectory: one microtubule whose
// subpoint count changes over time plus one simple motor complex.
func cytosimFrames() []Frame {
	motor := func(x, y, z float64) []float64 {
		return record(1000, 12, 7, [3]float64{x, y, z}, [3]float64{}, 2)
	}
	return []Frame{
		{FrameNumber: 0, Time: 0, Data: concat(
			record(1001, 1, 1, [3]float64{}, [3]float64{}, 1,
				36.93, 36.8, 16.78, 30.55, 43.87, 19.84, 24.17, 50.93, 22.9, 17.78, 58.0, 25.95, 11.4, 65.07, 29.01),
			motor(-73.8, -25.2, 43.89),
		)},
		{FrameNumber: 1, Time: 0.05, Data: concat(
			record(1001, 1, 1, [3]float64{}, [3]float64{}, 1,
				44.55, 33.97, 8.86, 36.63, 38.27, 4.51, 28.96, 43.28, 0.5, 21.83, 49.61, -2.52, 16.0, 57.66, -3.58, 12.85, 66.92, -1.47),
			motor(-72.52, -21.9, 43.59),
		)},
		{FrameNumber: 2, Time: 0.1, Data: concat(
			record(1001, 1, 1, [3]float64{}, [3]float64{}, 1,
				44.55, 33.97, 8.86, 36.63, 38.27, 4.51, 28.96, 43.28, 0.5, 21.83, 49.61, -2.52, 16.0, 57.66, -3.58),
			motor(-72.52, -21.9, 43.59),
		)},
	}
}
