package indicators

// CalculateVWAP computes the cumulative Volume Weighted Average Price series
// over the given session bars. vwap[i] covers bars 0..i. Entries before any
// volume has printed stay zero.
func CalculateVWAP(highs, lows, closes, volumes []float64) []float64 {
	length := len(closes)
	vwap := make([]float64, length)

	cumulativeTPV := 0.0
	cumulativeVol := 0.0

	for i := 0; i < length; i++ {
		typicalPrice := (highs[i] + lows[i] + closes[i]) / 3.0

		cumulativeTPV += typicalPrice * volumes[i]
		cumulativeVol += volumes[i]

		if cumulativeVol > 0 {
			vwap[i] = cumulativeTPV / cumulativeVol
		}
	}

	return vwap
}

// AverageVolume returns the mean of the last window volumes, or 0 when there
// is not enough data.
func AverageVolume(volumes []float64, window int) float64 {
	if window <= 0 || len(volumes) < window {
		return 0
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	return sum / float64(window)
}
