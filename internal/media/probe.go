package media

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// parseProbe turns ffprobe's JSON report into an Info. The container
// duration wins; the longest stream duration is used when it is missing.
func parseProbe(data string) (*Info, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("failed to decode probe output: %w", err)
	}

	if len(out.Streams) == 0 {
		return nil, ErrNoStreams
	}

	info := &Info{}
	var streamDuration float64
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.HasVideo {
				continue
			}
			info.HasVideo = true
			info.Width = s.Width
			info.Height = s.Height
			info.VideoCodec = s.CodecName
		case "audio":
			if info.HasAudio {
				continue
			}
			info.HasAudio = true
			info.AudioCodec = s.CodecName
		default:
			continue
		}

		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > streamDuration {
			streamDuration = d
		}
	}

	info.Duration = streamDuration
	// still images report no container duration
	if out.Format.Duration != "" && out.Format.Duration != "N/A" {
		d, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", out.Format.Duration, err)
		}
		info.Duration = d
	}

	return info, nil
}
