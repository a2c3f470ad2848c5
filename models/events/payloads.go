package events

import "fmt"

// Payload is the closed set of event parameters. Only types in this package
// implement it.
type Payload interface {
	Kind() Kind
	Action() string
	payload()
}

type TakeSnapshot struct {
	Resize bool `json:"resize"`
}

func (TakeSnapshot) Kind() Kind { return KindTakeSnapshot }
func (p TakeSnapshot) Action() string {
	if p.Resize {
		return "take a resized snapshot"
	}
	return "take a full snapshot"
}
func (TakeSnapshot) payload() {}

type RecordVideoClip struct{}

func (RecordVideoClip) Kind() Kind { return KindRecordVideoGif }
func (RecordVideoClip) Action() string { return "record a video clip" }
func (RecordVideoClip) payload() {}

type ConfigureDetection struct {
	Detector Detector `json:"detector"`
	Enable   bool     `json:"enable"`
}

func (ConfigureDetection) Kind() Kind { return KindConfigureDetection }
func (p ConfigureDetection) Action() string {
	return fmt.Sprintf("%s %s detection", switchVerb(p.Enable), p.Detector)
}
func (ConfigureDetection) payload() {}

type ConfigureIrcutFilter struct {
	Mode IrcutMode `json:"mode"`
}

func (ConfigureIrcutFilter) Kind() Kind { return KindConfigureIrcutFilter }
func (p ConfigureIrcutFilter) Action() string {
	return fmt.Sprintf("set IR-cut filter to %s", p.Mode)
}
func (ConfigureIrcutFilter) payload() {}

type ConfigureStream struct {
	Service StreamService `json:"service"`
	Enable  bool          `json:"enable"`
}

func (ConfigureStream) Kind() Kind { return KindConfigureStream }
func (p ConfigureStream) Action() string {
	if p.Enable {
		return fmt.Sprintf("start %s stream", p.Service.Title())
	}
	return fmt.Sprintf("stop %s stream", p.Service.Title())
}
func (ConfigureStream) payload() {}

type ConfigureAlarm struct {
	Enable bool `json:"enable"`
}

func (ConfigureAlarm) Kind() Kind { return KindConfigureAlarm }
func (p ConfigureAlarm) Action() string {
	return fmt.Sprintf("%s alert mode", switchVerb(p.Enable))
}
func (ConfigureAlarm) payload() {}

func switchVerb(enable bool) string {
	if enable {
		return "enable"
	}
	return "disable"
}
