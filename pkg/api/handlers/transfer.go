package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pairlog/pkg/bridge"
	"pairlog/pkg/export"
	"pairlog/pkg/importer"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"

	"github.com/gorilla/mux"
)

// RegisterTransfer registers transcript import and export routes.
func RegisterTransfer(r *mux.Router, b *bridge.Bridge) {
	base := "/pairs/{pairID}/conversations/{convoID}"
	r.HandleFunc(base+"/import", importTranscript(b)).Methods(http.MethodPost)
	r.HandleFunc(base+"/export", exportTranscript(b)).Methods(http.MethodGet)
}

// importTranscript handles POST .../import. Format selects the source:
// "txt" and "csv" parse Data, "sheet" downloads SheetURL as CSV. Me and
// Other map transcript speaker names onto the pair's sides; unmatched
// speakers land on the other side.
func importTranscript(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body struct {
			Format   string `json:"format" validate:"required,oneof=txt csv sheet"`
			Data     string `json:"data"`
			SheetURL string `json:"sheetUrl"`
			Me       string `json:"me"`
			Other    string `json:"other"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}

		var rows []importer.Row
		var err error
		switch body.Format {
		case "txt":
			rows, err = importer.ParseTXT(strings.NewReader(body.Data))
		case "csv":
			rows, err = importer.ParseCSV(strings.NewReader(body.Data))
		case "sheet":
			rows, err = importer.FetchSheet(r.Context(), body.SheetURL)
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		p, ok := findPair(b.Snapshot(), vars["pairID"])
		if !ok {
			http.Error(w, `{"error":"pair not found"}`, http.StatusNotFound)
			return
		}
		msgs, err := importer.Resolve(rows, importer.NameMap{Me: body.Me, Other: body.Other}, p.Characters)
		if errors.Is(err, importer.ErrNoRows) {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.ImportMessages(doc, vars["pairID"], vars["convoID"], msgs)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(struct {
			Imported int `json:"imported"`
		}{Imported: len(msgs)})
	}
}

// exportTranscript handles GET .../export?format=txt|csv and answers
// with the transcript as a file download.
func exportTranscript(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "txt"
		}
		if format != "txt" && format != "csv" {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"format must be txt or csv"}`, http.StatusBadRequest)
			return
		}
		p, ok := findPair(b.Snapshot(), vars["pairID"])
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"pair not found"}`, http.StatusNotFound)
			return
		}
		c, ok := findConvo(p, vars["convoID"])
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}

		rows := export.ConversationRows(p, c)
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(c, format)+`"`)
		var err error
		if format == "csv" {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			err = export.WriteCSV(w, rows)
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			err = export.WriteTXT(w, rows)
		}
		if err != nil {
			// headers are already gone; nothing to do but log via the
			// request logger upstream
			return
		}
	}
}
