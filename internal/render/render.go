// Package render writes API responses as JSON, or as XML when the client asks
// for it, and renders the HTML error pages of the public site.
package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// ErrorBody is the API error envelope
type ErrorBody struct {
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Respond writes payload with status, negotiating JSON or XML from the Accept header.
func Respond(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if wantsXML(r) {
		writeXML(w, status, payload)
		return
	}
	writeJSON(w, status, payload)
}

// Error writes the API error envelope
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	Respond(w, r, status, ErrorBody{Message: message, Status: status})
}

// ValidationFailed writes a 400 listing every rejected field
func ValidationFailed(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	Respond(w, r, http.StatusBadRequest, ErrorBody{
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Errors:  fields,
	})
}

func wantsXML(r *http.Request) bool {
	if r == nil {
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/xml") || strings.Contains(accept, "text/xml")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Failed to marshal JSON response", "status": 500}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func writeXML(w http.ResponseWriter, status int, payload any) {
	doc, err := ToXML(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<response><message>Failed to marshal XML response</message><status>500</status></response>`))
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	doc.WriteTo(w)
}

// ToXML converts payload into a document rooted at <response>. The JSON field
// names become element names, arrays become repeated <item> elements.
func ToXML(payload any) (*etree.Document, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	fill(doc.CreateElement("response"), tree)
	return doc, nil
}

func fill(el *etree.Element, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fill(el.CreateElement(k), val[k])
		}
	case []any:
		for _, item := range val {
			fill(el.CreateElement("item"), item)
		}
	case nil:
	case string:
		el.SetText(val)
	case json.Number:
		el.SetText(val.String())
	case bool:
		if val {
			el.SetText("true")
		} else {
			el.SetText("false")
		}
	}
}
