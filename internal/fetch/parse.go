package fetch

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/fjordlys/tidelight/internal/tide"
)

type tideDocument struct {
	XMLName     xml.Name         `xml:"tide"`
	WaterLevels []waterLevelElem `xml:"locationdata>data>waterlevel"`
}

type waterLevelElem struct {
	Time string `xml:"time,attr"`
	Flag string `xml:"flag,attr"`
}

// parseWaterLevels decodes the tab-format XML document into water level
// events. API timestamps carry a zone offset; the offset is dropped and the
// wall-clock value kept, matching the naive local times used everywhere
// else. Events with unknown flag values are skipped.
func parseWaterLevels(data []byte) ([]tide.WaterLevel, error) {
	var doc tideDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}

	levels := make([]tide.WaterLevel, 0, len(doc.WaterLevels))

	for _, elem := range doc.WaterLevels {
		ts, err := parseNaiveTime(elem.Time)
		if err != nil {
			return nil, fmt.Errorf("parse waterlevel time %q: %w", elem.Time, err)
		}

		flag := tide.WaterLevelFlag(elem.Flag)
		if flag != tide.FlagHigh && flag != tide.FlagLow {
			continue
		}

		levels = append(levels, tide.WaterLevel{Time: ts, Flag: flag})
	}

	return levels, nil
}

func parseNaiveTime(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Some deployments return timestamps without a zone offset.
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			return time.Time{}, err
		}
	}

	return time.Date(
		parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0,
		time.Local,
	), nil
}
