package events

import (
	"strings"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
)

// Kind names an event kind. A camera's capability set is a set of kinds.
type Kind string

const (
	KindTakeSnapshot         Kind = "take_snapshot"
	KindRecordVideoGif       Kind = "record_videogif"
	KindConfigureDetection   Kind = "configure_detection"
	KindConfigureIrcutFilter Kind = "configure_ircut_filter"
	KindConfigureStream      Kind = "configure_stream"
	KindConfigureAlarm       Kind = "configure_alarm"
)

// AllKinds lists every kind in presentation order.
var AllKinds = []Kind{
	KindTakeSnapshot,
	KindRecordVideoGif,
	KindConfigureDetection,
	KindConfigureIrcutFilter,
	KindConfigureStream,
	KindConfigureAlarm,
}

var kindDescriptions = map[Kind]string{
	KindTakeSnapshot:         "snapshots",
	KindRecordVideoGif:       "video clips",
	KindConfigureDetection:   "detection settings",
	KindConfigureIrcutFilter: "IR-cut filter",
	KindConfigureStream:      "live streaming",
	KindConfigureAlarm:       "alert mode",
}

func (k Kind) Description() string {
	if d, found := kindDescriptions[k]; found {
		return d
	}
	return string(k)
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, found := kindDescriptions[k]; !found {
		return "", custerror.FormatInvalidArgument("unknown event kind %q", s)
	}
	return k, nil
}

type Detector string

const (
	DetectorIntrusion    Detector = "intrusion"
	DetectorMotion       Detector = "motion"
	DetectorLineCrossing Detector = "line"
)

func (d Detector) Title() string {
	switch d {
	case DetectorIntrusion:
		return "Intrusion"
	case DetectorMotion:
		return "Motion"
	case DetectorLineCrossing:
		return "Line crossing"
	}
	return string(d)
}

func ParseDetector(s string) (Detector, error) {
	switch d := Detector(strings.ToLower(s)); d {
	case DetectorIntrusion, DetectorMotion, DetectorLineCrossing:
		return d, nil
	}
	return "", custerror.FormatInvalidArgument("unknown detector %q", s)
}

type IrcutMode string

const (
	IrcutDay   IrcutMode = "day"
	IrcutNight IrcutMode = "night"
	IrcutAuto  IrcutMode = "auto"
)

func ParseIrcutMode(s string) (IrcutMode, error) {
	switch m := IrcutMode(strings.ToLower(s)); m {
	case IrcutDay, IrcutNight, IrcutAuto:
		return m, nil
	}
	return "", custerror.FormatInvalidArgument("unknown IR-cut mode %q", s)
}

type StreamService string

const (
	StreamYoutube  StreamService = "youtube"
	StreamTelegram StreamService = "telegram"
	StreamIcecast  StreamService = "icecast"
)

func (s StreamService) Title() string {
	switch s {
	case StreamYoutube:
		return "YouTube"
	case StreamTelegram:
		return "Telegram"
	case StreamIcecast:
		return "Icecast"
	}
	return string(s)
}

func ParseStreamService(s string) (StreamService, error) {
	switch svc := StreamService(strings.ToLower(s)); svc {
	case StreamYoutube, StreamTelegram, StreamIcecast:
		return svc, nil
	}
	return "", custerror.FormatInvalidArgument("unknown stream service %q", s)
}
