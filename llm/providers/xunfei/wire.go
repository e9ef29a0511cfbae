package xunfei

import "strconv"

type envelope struct {
	Header    header         `json:"header"`
	Parameter parameter      `json:"parameter"`
	Payload   requestPayload `json:"payload"`
}

type header struct {
	AppID string `json:"app_id"`
	UID   string `json:"uid"`
}

type parameter struct {
	Chat chatParameter `json:"chat"`
}

type chatParameter struct {
	Domain      string  `json:"domain"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type requestPayload struct {
	Message message `json:"message"`
}

type message struct {
	Text string `json:"text"`
}

type response struct {
	Header  *responseHeader  `json:"header,omitempty"`
	Payload *responsePayload `json:"payload,omitempty"`
}

type responseHeader struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	SID     string `json:"sid"`
}

func (h *responseHeader) codeString() string { return strconv.Itoa(h.Code) }

type responsePayload struct {
	Text *struct {
		Content string `json:"content"`
	} `json:"text,omitempty"`
}
