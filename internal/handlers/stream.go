package handlers

import (
	"net/http"

	"visionserver/internal/services/stream"
)

// FeedHandler serves one detector's annotated frames as an MJPEG stream.
func FeedHandler(mux *stream.Multiplexer, kind stream.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mux.Serve(w, r, kind)
	}
}
