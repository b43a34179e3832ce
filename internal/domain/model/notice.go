package model

// NoticeKind classifies user-visible notices.
type NoticeKind string

const (
	NoticeTransportUnavailable NoticeKind = "transport_unavailable"
	NoticeJoinRejected         NoticeKind = "join_rejected"
	NoticeIntentFailed         NoticeKind = "intent_failed"
	NoticeUpdateRejected       NoticeKind = "update_rejected"
	NoticeMalformedBroadcast   NoticeKind = "malformed_broadcast"
	NoticeConnectionLost       NoticeKind = "connection_lost"
)

// Notice is a non-fatal message surfaced to the viewer.
type Notice struct {
	Kind    NoticeKind
	Message string
}

var noticeMessages = map[NoticeKind]string{
	NoticeTransportUnavailable: "The WebSocket connection failed.",
	NoticeJoinRejected:         "The WebSocket connection was established, but the response was invalid.",
	NoticeIntentFailed:         "An error occurred, and the value was not updated.",
	NoticeUpdateRejected:       "An error occurred, and the most recent record was not recorded.",
	NoticeMalformedBroadcast:   "Invalid data was received while updating.",
	NoticeConnectionLost:       "The connection to the server was lost. Restart to rejoin.",
}

// NewNotice builds the notice for kind with its standard message.
func NewNotice(kind NoticeKind) Notice {
	return Notice{Kind: kind, Message: noticeMessages[kind]}
}
