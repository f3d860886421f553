// Package details fetches the per-record lookups triggered on demand from a
// marker popup: incoming trains for a rail station and tram forecasts for a
// Luas stop. Lookups are independent of the marker pipeline; a failure
// surfaces as an error on the call and nothing else.
package details

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// StationETA is one incoming train at a station, covering the next 90
// minutes upstream.
type StationETA struct {
	TrainCode    string `json:"trainCode"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DueIn        int    `json:"dueIn"`
	LateMinutes  int    `json:"lateMinutes"`
	Punctuality  string `json:"punctuality"`
	Status       string `json:"status"`
	LastLocation string `json:"lastLocation"`
}

// TramForecast is one due tram at a Luas stop. Due is the upstream string
// as-is: a minute count, or "DUE" for an arriving tram.
type TramForecast struct {
	Direction   string `json:"direction"`
	Destination string `json:"destination"`
	Due         string `json:"due"`
}

// StopForecast is a Luas stop's full forecast.
type StopForecast struct {
	Stop    string         `json:"stop"`
	Message string         `json:"message"`
	Trams   []TramForecast `json:"trams"`
}

// Client performs the detail lookups.
type Client struct {
	httpClient *http.Client
	stationURL string
	luasURL    string
	log        zerolog.Logger
}

// NewClient builds a detail lookup client. stationURL serves the station ETA
// JSON keyed by stationCode; luasURL serves the forecast XML keyed by stop.
func NewClient(stationURL, luasURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		stationURL: stationURL,
		luasURL:    luasURL,
		log:        log,
	}
}

// stationPayload mirrors the upstream station data JSON. A station with a
// single incoming train carries objStationData as a bare object rather than
// an array; etaList absorbs both shapes.
type stationPayload struct {
	ArrayOfObjStationData struct {
		ObjStationData etaList `json:"objStationData"`
	} `json:"ArrayOfObjStationData"`
}

type etaEntry struct {
	TrainCode    string `json:"Traincode"`
	Origin       string `json:"Origin"`
	Destination  string `json:"Destination"`
	DueIn        string `json:"Duein"`
	Late         string `json:"Late"`
	Status       string `json:"Status"`
	LastLocation string `json:"Lastlocation"`
}

type etaList []etaEntry

func (l *etaList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]etaEntry)(l))
	}
	var one etaEntry
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = etaList{one}
	return nil
}

// StationETAs fetches the incoming trains for a station code.
func (c *Client) StationETAs(ctx context.Context, stationCode string) ([]StationETA, error) {
	u, err := url.Parse(c.stationURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("stationCode", stationCode)
	u.RawQuery = q.Encode()

	var payload stationPayload
	if err := c.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, fmt.Errorf("station %s: %w", stationCode, err)
	}

	entries := payload.ArrayOfObjStationData.ObjStationData
	etas := make([]StationETA, 0, len(entries))
	for _, e := range entries {
		late := atoiOrZero(e.Late)
		etas = append(etas, StationETA{
			TrainCode:    e.TrainCode,
			Origin:       e.Origin,
			Destination:  e.Destination,
			DueIn:        atoiOrZero(e.DueIn),
			LateMinutes:  late,
			Punctuality:  punctualityMessage(late),
			Status:       e.Status,
			LastLocation: orNA(e.LastLocation),
		})
	}
	c.log.Debug().Str("station", stationCode).Int("trains", len(etas)).Msg("station lookup")
	return etas, nil
}

// luasPayload mirrors the forecast XML: trams grouped per direction under
// the stop info root.
type luasPayload struct {
	XMLName    xml.Name `xml:"stopInfo"`
	Stop       string   `xml:"stop,attr"`
	Message    string   `xml:"message"`
	Directions []struct {
		Name  string `xml:"name,attr"`
		Trams []struct {
			Destination string `xml:"destination,attr"`
			DueMins     string `xml:"dueMins,attr"`
		} `xml:"tram"`
	} `xml:"direction"`
}

// LuasForecast fetches the tram forecast for a Luas stop code.
func (c *Client) LuasForecast(ctx context.Context, stopCode string) (StopForecast, error) {
	u, err := url.Parse(c.luasURL)
	if err != nil {
		return StopForecast{}, err
	}
	q := u.Query()
	q.Set("action", "forecast")
	q.Set("stop", stopCode)
	q.Set("encrypt", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return StopForecast{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StopForecast{}, fmt.Errorf("luas stop %s: %w", stopCode, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return StopForecast{}, fmt.Errorf("luas stop %s: HTTP %d", stopCode, resp.StatusCode)
	}

	var payload luasPayload
	if err := xml.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return StopForecast{}, fmt.Errorf("luas stop %s: decoding: %w", stopCode, err)
	}

	forecast := StopForecast{Stop: payload.Stop, Message: payload.Message}
	for _, dir := range payload.Directions {
		for _, tram := range dir.Trams {
			forecast.Trams = append(forecast.Trams, TramForecast{
				Direction:   dir.Name,
				Destination: tram.Destination,
				Due:         tram.DueMins,
			})
		}
	}
	c.log.Debug().Str("stop", stopCode).Int("trams", len(forecast.Trams)).Msg("luas lookup")
	return forecast, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	return nil
}

// punctualityMessage renders lateness minutes the way the popups word it.
func punctualityMessage(minutes int) string {
	switch {
	case minutes > 0:
		return fmt.Sprintf("%d %s late", minutes, pluralMinute(minutes))
	case minutes < 0:
		return fmt.Sprintf("%d %s early", -minutes, pluralMinute(-minutes))
	default:
		return "On time"
	}
}

func pluralMinute(n int) string {
	if n == 1 {
		return "minute"
	}
	return "minutes"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
