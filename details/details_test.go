package details

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

const stationArrayPayload = `{
  "ArrayOfObjStationData": {
    "objStationData": [
      {"Traincode": "E108", "Origin": "Bray", "Destination": "Howth",
       "Duein": "7", "Late": "-1", "Status": "En Route", "Lastlocation": "Departed Sandycove"},
      {"Traincode": "A152", "Origin": "Cork", "Destination": "Dublin Heuston",
       "Duein": "23", "Late": "5", "Status": "En Route", "Lastlocation": ""}
    ]
  }
}`

// A station with a single incoming train carries a bare object, not an array.
const stationSinglePayload = `{
  "ArrayOfObjStationData": {
    "objStationData": {"Traincode": "P612", "Origin": "Maynooth", "Destination": "Dublin Pearse",
      "Duein": "12", "Late": "0", "Status": "En Route", "Lastlocation": "Arrived Leixlip"}
  }
}`

func TestStationETAsArrayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("stationCode"); got != "CNLLY" {
			t.Errorf("stationCode = %q, want CNLLY", got)
		}
		_, _ = w.Write([]byte(stationArrayPayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zerolog.Nop())
	etas, err := c.StationETAs(context.Background(), "CNLLY")
	if err != nil {
		t.Fatalf("StationETAs: %v", err)
	}
	if len(etas) != 2 {
		t.Fatalf("got %d ETAs, want 2", len(etas))
	}
	if etas[0].Punctuality != "1 minute early" {
		t.Fatalf("punctuality = %q, want \"1 minute early\"", etas[0].Punctuality)
	}
	if etas[1].Punctuality != "5 minutes late" {
		t.Fatalf("punctuality = %q, want \"5 minutes late\"", etas[1].Punctuality)
	}
	if etas[1].LastLocation != "N/A" {
		t.Fatalf("blank last location = %q, want N/A", etas[1].LastLocation)
	}
	if etas[0].DueIn != 7 {
		t.Fatalf("dueIn = %d, want 7", etas[0].DueIn)
	}
}

func TestStationETAsSingleObjectShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(stationSinglePayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zerolog.Nop())
	etas, err := c.StationETAs(context.Background(), "PERSE")
	if err != nil {
		t.Fatalf("StationETAs: %v", err)
	}
	if len(etas) != 1 || etas[0].TrainCode != "P612" {
		t.Fatalf("single-object payload not normalized: %+v", etas)
	}
	if etas[0].Punctuality != "On time" {
		t.Fatalf("punctuality = %q, want \"On time\"", etas[0].Punctuality)
	}
}

func TestStationETAsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zerolog.Nop())
	if _, err := c.StationETAs(context.Background(), "CNLLY"); err == nil {
		t.Fatal("expected an error for an upstream failure")
	}
}

const luasPayloadXML = `<stopInfo created="2025-03-01T11:45:00" stop="Ranelagh" stopAbv="RAN">
  <message>Green Line services operating normally</message>
  <direction name="Inbound">
    <tram dueMins="DUE" destination="Broombridge" />
    <tram dueMins="8" destination="Parnell" />
  </direction>
  <direction name="Outbound">
    <tram dueMins="4" destination="Bride's Glen" />
  </direction>
</stopInfo>`

func TestLuasForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "forecast" || q.Get("stop") != "RAN" || q.Get("encrypt") != "false" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(luasPayloadXML))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, 0, zerolog.Nop())
	forecast, err := c.LuasForecast(context.Background(), "RAN")
	if err != nil {
		t.Fatalf("LuasForecast: %v", err)
	}
	if forecast.Stop != "Ranelagh" {
		t.Fatalf("stop = %q, want Ranelagh", forecast.Stop)
	}
	if len(forecast.Trams) != 3 {
		t.Fatalf("got %d trams, want 3", len(forecast.Trams))
	}
	first := forecast.Trams[0]
	if first.Direction != "Inbound" || first.Due != "DUE" || first.Destination != "Broombridge" {
		t.Fatalf("first tram = %+v", first)
	}
	if forecast.Message == "" {
		t.Fatal("stop message lost in decoding")
	}
}

func TestLuasForecastNoTrams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<stopInfo stop="Tallaght"><message>No service</message></stopInfo>`))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, 0, zerolog.Nop())
	forecast, err := c.LuasForecast(context.Background(), "TAL")
	if err != nil {
		t.Fatalf("LuasForecast: %v", err)
	}
	if len(forecast.Trams) != 0 {
		t.Fatalf("got %d trams, want 0", len(forecast.Trams))
	}
}
