package engine

// Every spoken string lives here. Keep lines short and direct; the TTS
// backend handles inflection.

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

func LineWelcome() string {
	return "Welcome to health monitoring system."
}

func LineVoiceInitialized() string {
	return "Voice assistant initialized."
}

func LineRefreshing() string {
	return "Refreshing data."
}

// LineWarmUp is spoken at zero volume to wake the host audio stack.
func LineWarmUp() string {
	return "."
}

func LineAllNormal() string {
	return "All vital signs within normal ranges."
}

func LineReturnedToNormal() string {
	return "All readings returned to normal range."
}

const (
	prefixFull    = "Current health status: "
	prefixRoutine = "Update: "
)

func lineTemperature(high bool, celsius float64) string {
	return "Temperature " + direction(high, "high") + " at " + oneDecimal(celsius) + " degrees"
}

func lineHeartRate(high bool, bpm float64) string {
	return "Heart rate " + direction(high, "elevated") + " at " + plainNumber(bpm) + " BPM"
}

func lineHumidity(high bool, percent float64) string {
	return "Room humidity " + direction(high, "high") + " at " + plainNumber(percent) + " percent"
}

func lineRecommendation(rec string) string {
	return " Recommendation: " + rec
}

func direction(high bool, upWord string) string {
	if high {
		return upWord
	}
	return "low"
}

// plainNumber renders v the shortest way that round-trips: 110 -> "110",
// 72.5 -> "72.5".
func plainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// oneDecimal formats v with one decimal, rounding an exact tie away from
// zero: 38.25 -> "38.3". The float's exact binary value decides ties, so
// 0.15 (stored just below) gives "0.1".
func oneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	x := new(big.Float).SetPrec(128).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(10))
	n, _ := x.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(x, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	if len(digits) < 2 {
		digits = "0" + digits
	}
	out := digits[:len(digits)-1] + "." + digits[len(digits)-1:]
	if v < 0 {
		out = "-" + out
	}
	return out
}

func joinFindings(phrases []string) string {
	return strings.Join(phrases, ". ") + "."
}
