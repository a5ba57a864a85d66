package fleet

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Canvas is one canvas as reported by the server. A snapshot is received
// wholesale on every poll and never modified after decoding.
type Canvas struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	Width             int             `json:"width"`
	Height            int             `json:"height"`
	FPS               float64         `json:"fps"`
	CurrentEffectName string          `json:"currentEffectName"`
	EffectsManager    *EffectsManager `json:"effectsManager,omitempty"`
	Features          []Feature       `json:"features"`
}

// EffectsManager describes the effect rotation running on a canvas.
type EffectsManager struct {
	CurrentEffectIndex int      `json:"currentEffectIndex"`
	FPS                float64  `json:"fps"`
	Type               string   `json:"type"`
	Effects            []Effect `json:"effects"`
}

// Effect is a single entry in an effects manager. Only the identifying
// fields are decoded; effect parameters vary per effect type.
type Effect struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Feature is a physical output device attached to a canvas.
type Feature struct {
	ID                 int             `json:"id"`
	FriendlyName       string          `json:"friendlyName"`
	HostName           string          `json:"hostName"`
	Port               int             `json:"port"`
	Width              int             `json:"width"`
	Height             int             `json:"height"`
	OffsetX            int             `json:"offsetX"`
	OffsetY            int             `json:"offsetY"`
	Channel            int             `json:"channel"`
	Reversed           bool            `json:"reversed"`
	RedGreenSwap       bool            `json:"redGreenSwap"`
	ClientBufferCount  int             `json:"clientBufferCount"`
	TimeOffset         float64         `json:"timeOffset"`
	IsConnected        bool            `json:"isConnected"`
	ReconnectCount     *int            `json:"reconnectCount,omitempty"`
	QueueDepth         int             `json:"queueDepth"`
	QueueMaxSize       int             `json:"queueMaxSize"`
	BytesPerSecond     float64         `json:"bytesPerSecond"`
	LastClientResponse *ClientResponse `json:"lastClientResponse,omitempty"`
}

// ClientResponse is the most recent telemetry packet a connected device sent back.
type ClientResponse struct {
	FPSDrawing     float64       `json:"fpsDrawing"`
	BufferPos      float64       `json:"bufferPos"`
	BufferSize     float64       `json:"bufferSize"`
	WifiSignal     float64       `json:"wifiSignal"`
	CurrentClock   float64       `json:"currentClock"`
	OldestPacket   float64       `json:"oldestPacket"`
	NewestPacket   float64       `json:"newestPacket"`
	Brightness     float64       `json:"brightness"`
	Watts          float64       `json:"watts"`
	SequenceNumber uint64        `json:"sequenceNumber"`
	ResponseSize   int           `json:"responseSize"`
	FlashVersion   *FlashVersion `json:"flashVersion,omitempty"`
}

// FlashVersion is the firmware version a device reports. Older firmware
// sends a number, newer firmware a string; both decode to the same text.
type FlashVersion string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (v *FlashVersion) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FlashVersion(s)
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*v = FlashVersion(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// String returns the version text.
func (v FlashVersion) String() string {
	return string(v)
}

// FindCanvas returns the canvas with the given id, or nil.
func FindCanvas(canvases []Canvas, id int) *Canvas {
	for i := range canvases {
		if canvases[i].ID == id {
			return &canvases[i]
		}
	}
	return nil
}

// FindFeature returns the feature with the given id on the canvas, or nil.
func (c *Canvas) FindFeature(id int) *Feature {
	for i := range c.Features {
		if c.Features[i].ID == id {
			return &c.Features[i]
		}
	}
	return nil
}

// CanvasIDs returns the ids of the given canvases in order.
func CanvasIDs(canvases []Canvas) []int {
	ids := make([]int, 0, len(canvases))
	for _, c := range canvases {
		ids = append(ids, c.ID)
	}
	return ids
}
