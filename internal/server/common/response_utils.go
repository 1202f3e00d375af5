package common

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Z34D/fluxly-ccs/internal/utils/ioutils"
)

// WriteJson serves a JSON response generated by the proxy itself (health,
// diagnostics), honoring the client's Accept-Encoding. Proxied Git payloads
// never go through here.
func WriteJson(w http.ResponseWriter, r *http.Request, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal proxy error", http.StatusInternalServerError)
		return
	}

	encoding := ioutils.NegotiateEncoding(r.Header.Get("Accept-Encoding"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if encoding != "" {
		w.Header().Set("Content-Encoding", encoding)
		w.Header().Add("Vary", "Accept-Encoding")
	}
	w.WriteHeader(status)

	writer, err := ioutils.NewCompressWriter(w, encoding)
	if err != nil {
		// negotiated encodings are always constructible, nothing to send by now
		log.Errorf("Failed to create %s writer: %v", encoding, err)
		return
	}
	if _, err = writer.Write(data); err == nil {
		err = writer.Close()
	}
	if err != nil {
		log.Debugf("Failed to write response body: %v", err)
	}
}
