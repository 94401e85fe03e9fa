package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

// filter mirrors the flags the gateway sends; everything else is ignored.
type filter struct {
	Pending    bool `json:"Pending"`
	InProgress bool `json:"InProgress"`
	Completed  bool `json:"Completed"`
	Failed     bool `json:"Failed"`
	Conflict   bool `json:"Conflict"`
	Recurring  bool `json:"Recurring"`
}

const recordingEvents = `[
  {"epgEventJSONObject": {
    "schd": {"OID": 501, "ChannelOid": 7, "Name": "Tatort", "Quality": "HDTV",
             "StartTime": "2026-02-02T20:13:00Z", "EndTime": "2026-02-02T21:55:00Z",
             "Status": "Completed", "PrePadding": "2", "PostPadding": "10",
             "DownloadURL": "/live?recording=501", "RecordingFileName": "/recordings/Tatort.ts"},
    "epgEvent": {"OID": 9001, "Title": "Tatort", "Subtitle": "Der Fall Holdt", "Desc": "Krimi",
                 "Quality": "HDTV", "StarRating": "***+", "Audio": "Stereo", "Genres": ["Crime"], "FirstRun": false}
  }},
  {"epgEventJSONObject": {
    "schd": {"OID": 503, "ChannelOid": 12, "Name": "Monitor",
             "StartTime": "2026-02-03T21:45:00Z", "EndTime": "2026-02-03T22:15:00Z",
             "Status": "In-Progress", "PrePadding": "0", "PostPadding": "0"}
  }},
  {"epgEventJSONObject": null},
  {"epgEventJSONObject": {"rtn": {"Error": true, "Message": "stub: one entry carries an error"}}}
]`

const timerEvents = `[
  {"epgEventJSONObject": {
    "recurr": {"OID": 78, "RecurringName": "News", "StartTime": "2026-02-03T20:00:00Z", "EndTime": "2026-02-03T20:15:00Z",
               "PrePadding": "1", "PostPadding": "5", "Day": "Monday, Tuesday",
               "RulesXmlDoc": {"Rules": {"ChannelOID": "12", "ChannelName": "Das Erste HD"}}},
    "schd": {"OID": "504", "ChannelOid": "12", "Name": "News", "StartTime": "2026-02-03T20:00:00Z",
             "EndTime": "2026-02-03T20:15:00Z", "Status": "Pending", "PrePadding": "1", "PostPadding": "5"}
  }},
  {"epgEventJSONObject": {
    "schd": {"OID": 505, "ChannelOid": 12, "Name": "Brennpunkt", "StartTime": "2026-02-03T20:10:00Z",
             "EndTime": "2026-02-03T20:30:00Z", "Status": "Conflict", "PrePadding": "0", "PostPadding": "0"}
  }}
]`

const seriesEvents = `[
  {"epgEventJSONObject": {
    "recurr": {"OID": 78, "RecurringName": "News", "StartTime": "2026-02-03T20:00:00Z", "EndTime": "2026-02-03T20:15:00Z",
               "PrePadding": "1", "PostPadding": "5", "Day": "Monday, Tuesday", "Priority": 2,
               "RulesXmlDoc": {"Rules": {"ChannelOID": "12", "ChannelName": "Das Erste HD"}}}
  }},
  {"epgEventJSONObject": {
    "recurr": {"OID": "77", "RecurringName": "", "EPGTitle": "The Simpsons", "allChannels": true, "OnlyNew": true,
               "StartTime": "2026-02-03T18:00:00Z", "EndTime": "2026-02-03T18:30:00Z",
               "PrePadding": "0", "PostPadding": "0", "Day": "",
               "RulesXmlDoc": {"Rules": {"ChannelOID": "0", "ChannelName": "All Channels"}}}
  }}
]`

func main() {
	addr := getenv("NEXTPVR_ADDR", ":8866")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /public/Util/NPVR/VersionCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version": "stub"}`))
	})
	mux.HandleFunc("POST /public/ManageService/Get/SortedFilteredList", func(w http.ResponseWriter, r *http.Request) {
		var f filter
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		events := "[]"
		switch {
		case f.Recurring:
			events = seriesEvents
		case f.Pending || f.Conflict:
			events = timerEvents
		case f.Completed || f.InProgress || f.Failed:
			events = recordingEvents
		}

		log.Printf("list sid=%q filter=%+v", r.URL.Query().Get("sid"), f)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ManageResults": {"EPGEvents": ` + strings.TrimSpace(events) + `}}`))
	})

	log.Printf("nextpvr stub listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("listen %s: %v", addr, err)
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
