package models

import "github.com/aleister1102/jsminer/internal/common/urlhandler"

// TrafficRecord is an observed request/response pair supplied by the host.
// The core never mutates it.
type TrafficRecord struct {
	Target       urlhandler.Target
	Method       string
	StatusCode   int
	ContentType  string
	ResponseBody []byte
}

// HasBody reports whether the record carries a response body.
func (r TrafficRecord) HasBody() bool {
	return len(r.ResponseBody) > 0
}
