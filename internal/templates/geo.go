package templates

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

// parseCoord reads the positional parts of a coord template. It accepts
// decimal pairs ("51.5|-0.12") and degree/minute/second runs terminated by
// a hemisphere letter ("51|30|N|0|7|W"). Parsing stops at the first token
// that is neither, such as "type:city".
func parseCoord(args []string) (lat, lon float64, ok bool) {
	var nums []float64
	var haveLat, haveLon bool
	for _, a := range args {
		a = strings.TrimSpace(a)
		if f, err := strconv.ParseFloat(a, 64); err == nil {
			if !finite(f) {
				return 0, 0, false
			}
			nums = append(nums, f)
			continue
		}
		switch strings.ToUpper(a) {
		case "N", "S":
			if haveLat || len(nums) == 0 {
				return 0, 0, false
			}
			lat = dms(nums)
			if strings.EqualFold(a, "s") {
				lat = -lat
			}
			haveLat, nums = true, nil
			continue
		case "E", "W":
			if !haveLat || len(nums) == 0 {
				return 0, 0, false
			}
			lon = dms(nums)
			if strings.EqualFold(a, "w") {
				lon = -lon
			}
			haveLon, nums = true, nil
			continue
		}
		break
	}
	if !haveLat && len(nums) >= 2 {
		lat, lon = nums[0], nums[1]
		haveLat, haveLon = true, true
	}
	if !haveLat || !haveLon || math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return 0, 0, false
	}
	return roundTo(lat, 6), roundTo(lon, 6), true
}

func dms(parts []float64) float64 {
	v := 0.0
	div := 1.0
	for i, p := range parts {
		if i > 2 {
			break
		}
		v += math.Abs(p) / div
		div *= 60
	}
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatCoord renders a coordinate as "51.5074°N 0.1278°W". Non-finite
// values render as "".
func FormatCoord(lat, lon float64) string {
	if !finite(lat) || !finite(lon) {
		return ""
	}
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return decimal.NewFromFloat(math.Abs(lat)).Round(4).String() + "°" + ns + " " +
		decimal.NewFromFloat(math.Abs(lon)).Round(4).String() + "°" + ew
}

func coord(_ *Resolver, p Params) Result {
	lat, lon, ok := parseCoord(p.Positional)
	if !ok {
		return Result{}
	}
	c := doctree.Coordinate{Lat: lat, Lon: lon, Display: p.Get("display"), Template: p.Name}
	text := FormatCoord(lat, lon)
	title, inline := false, false
	for _, d := range strings.Split(strings.ToLower(c.Display), ",") {
		switch strings.TrimSpace(d) {
		case "t", "title":
			title = true
		case "i", "inline":
			inline = true
		}
	}
	if title && !inline {
		text = ""
	}
	return Result{Text: text, Collected: Collected{Coordinates: []doctree.Coordinate{c}}}
}
