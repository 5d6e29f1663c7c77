// Package acquire handles live-sample ingestion: parsing measurement lines,
// buffering the active test's samples, and keeping a bounded raw-line log.
package acquire

import (
	"encoding/json"
	"strconv"
	"strings"

	"ttc/internal/domain"
)

// NoTimestamp marks a sample whose wire format carried no timestamp; the
// session clock assigns one on Add.
const NoTimestamp = -1

type jsonSample struct {
	Timestamp float64 `json:"timestamp"`
	Current   float64 `json:"current"`
	Peak      float64 `json:"peak"`
}

// ParseLine parses one line from the measurement source. Two wire formats
// are accepted: JSON lines {"timestamp":s,"current":kN,"peak":kN} and bare
// CSV current,peak pairs, which carry no timestamp and get Elapsed set to
// NoTimestamp. Anything else (menu text, calibration chatter) returns false.
func ParseLine(line string) (domain.Sample, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.Sample{}, false
	}

	if strings.HasPrefix(line, "{") {
		var js jsonSample
		if err := json.Unmarshal([]byte(line), &js); err != nil {
			return domain.Sample{}, false
		}
		return domain.Sample{Elapsed: js.Timestamp, Current: js.Current, Peak: js.Peak}, true
	}

	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return domain.Sample{}, false
	}
	current, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Sample{}, false
	}
	peak, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Sample{}, false
	}
	return domain.Sample{Elapsed: NoTimestamp, Current: current, Peak: peak}, true
}
