package handlers

import (
	"sort"
	"strings"

	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
)

type CommandSpec struct {
	Name        string
	Description string
	// Kind is empty for commands that never reach a camera handler.
	Kind  events.Kind
	Build func() events.Payload
	// Present answers the command directly instead of dispatching an event.
	Present Presenter
}

const (
	CmdStart          = "start"
	CmdHelp           = "help"
	CmdListCameras    = "list_cams"
	CmdCameraCommands = "cmds"
)

func payload(p events.Payload) func() events.Payload {
	return func() events.Payload { return p }
}

func cameraCommands() []*CommandSpec {
	return []*CommandSpec{
		{Name: "getpic", Description: "Get resized picture", Kind: events.KindTakeSnapshot,
			Build: payload(events.TakeSnapshot{Resize: true})},
		{Name: "getfullpic", Description: "Get full-sized picture", Kind: events.KindTakeSnapshot,
			Build: payload(events.TakeSnapshot{Resize: false})},
		{Name: "getvideo", Description: "Get video clip", Kind: events.KindRecordVideoGif,
			Build: payload(events.RecordVideoClip{})},

		{Name: "motion_on", Description: "Enable motion detection", Kind: events.KindConfigureDetection,
			Build: payload(events.ConfigureDetection{Detector: events.DetectorMotion, Enable: true})},
		{Name: "motion_off", Description: "Disable motion detection", Kind: events.KindConfigureDetection,
			Build: payload(events.ConfigureDetection{Detector: events.DetectorMotion, Enable: false})},
		{Name: "intrusion_on", Description: "Enable intrusion detection", Kind: events.KindConfigureDetection,
			Build: payload(events.ConfigureDetection{Detector: events.DetectorIntrusion, Enable: true})},
		{Name: "intrusion_off", Description: "Disable intrusion detection", Kind: events.KindConfigureDetection,
			Build: payload(events.ConfigureDetection{Detector: events.DetectorIntrusion, Enable: false})},
		{Name: "line_on", Description: "Enable line crossing detection", Kind: events.KindConfigureDetection,
			Build: payload(events.ConfigureDetection{Detector: events.DetectorLineCrossing, Enable: true})},
		{Name: "line_off", Description: "Disable line crossing detection", Kind: events.KindConfigureDetection,
			Build: payload(events.ConfigureDetection{Detector: events.DetectorLineCrossing, Enable: false})},

		{Name: "ir_on", Description: "Switch IR-cut filter to night mode", Kind: events.KindConfigureIrcutFilter,
			Build: payload(events.ConfigureIrcutFilter{Mode: events.IrcutNight})},
		{Name: "ir_off", Description: "Switch IR-cut filter to day mode", Kind: events.KindConfigureIrcutFilter,
			Build: payload(events.ConfigureIrcutFilter{Mode: events.IrcutDay})},
		{Name: "ir_auto", Description: "Switch IR-cut filter to auto mode", Kind: events.KindConfigureIrcutFilter,
			Build: payload(events.ConfigureIrcutFilter{Mode: events.IrcutAuto})},

		{Name: "yt_on", Description: "Start YouTube stream", Kind: events.KindConfigureStream,
			Build: payload(events.ConfigureStream{Service: events.StreamYoutube, Enable: true})},
		{Name: "yt_off", Description: "Stop YouTube stream", Kind: events.KindConfigureStream,
			Build: payload(events.ConfigureStream{Service: events.StreamYoutube, Enable: false})},
		{Name: "tg_on", Description: "Start Telegram stream", Kind: events.KindConfigureStream,
			Build: payload(events.ConfigureStream{Service: events.StreamTelegram, Enable: true})},
		{Name: "tg_off", Description: "Stop Telegram stream", Kind: events.KindConfigureStream,
			Build: payload(events.ConfigureStream{Service: events.StreamTelegram, Enable: false})},
		{Name: "icecast_on", Description: "Start Icecast stream", Kind: events.KindConfigureStream,
			Build: payload(events.ConfigureStream{Service: events.StreamIcecast, Enable: true})},
		{Name: "icecast_off", Description: "Stop Icecast stream", Kind: events.KindConfigureStream,
			Build: payload(events.ConfigureStream{Service: events.StreamIcecast, Enable: false})},

		{Name: "alert_on", Description: "Enable alert mode", Kind: events.KindConfigureAlarm,
			Build: payload(events.ConfigureAlarm{Enable: true})},
		{Name: "alert_off", Description: "Disable alert mode", Kind: events.KindConfigureAlarm,
			Build: payload(events.ConfigureAlarm{Enable: false})},
	}
}

// CommandTable resolves command names, including the per-camera
// "<command>_<cameraId>" namespace.
type CommandTable struct {
	specs  map[string]*CommandSpec
	byLen  []string
	camera []*CommandSpec
}

func NewCommandTable(presenters map[string]Presenter) *CommandTable {
	t := &CommandTable{specs: map[string]*CommandSpec{}}
	for _, c := range cameraCommands() {
		t.add(c)
		t.camera = append(t.camera, c)
	}
	descriptions := map[string]string{
		CmdStart:          "Start the bot",
		CmdHelp:           "Show help",
		CmdListCameras:    "List cameras",
		CmdCameraCommands: "Show camera commands",
	}
	for name, present := range presenters {
		t.add(&CommandSpec{Name: name, Description: descriptions[name], Present: present})
	}
	sort.Slice(t.byLen, func(i, j int) bool {
		if len(t.byLen[i]) != len(t.byLen[j]) {
			return len(t.byLen[i]) > len(t.byLen[j])
		}
		return t.byLen[i] < t.byLen[j]
	})
	return t
}

func (t *CommandTable) add(c *CommandSpec) {
	t.specs[c.Name] = c
	t.byLen = append(t.byLen, c.Name)
}

// Lookup splits a command name into its spec and the camera id suffix, if
// any. The longest matching command name wins.
func (t *CommandTable) Lookup(name string) (*CommandSpec, string, bool) {
	if spec, found := t.specs[name]; found {
		return spec, "", true
	}
	for _, candidate := range t.byLen {
		if strings.HasPrefix(name, candidate+"_") {
			cameraId := strings.TrimPrefix(name, candidate+"_")
			if cameraId == "" {
				continue
			}
			return t.specs[candidate], cameraId, true
		}
	}
	return nil, "", false
}

// CameraCommands returns the camera-bound commands in presentation order.
func (t *CommandTable) CameraCommands() []*CommandSpec {
	return t.camera
}
