package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Kinds(t *testing.T) {
	cases := []struct {
		payload Payload
		kind    Kind
		action  string
	}{
		{TakeSnapshot{Resize: true}, KindTakeSnapshot, "take a resized snapshot"},
		{RecordVideoClip{}, KindRecordVideoGif, "record a video clip"},
		{ConfigureDetection{Detector: DetectorMotion, Enable: false}, KindConfigureDetection, "disable motion detection"},
		{ConfigureIrcutFilter{Mode: IrcutNight}, KindConfigureIrcutFilter, "set IR-cut filter to night"},
		{ConfigureStream{Service: StreamYoutube, Enable: true}, KindConfigureStream, "start YouTube stream"},
		{ConfigureAlarm{Enable: true}, KindConfigureAlarm, "enable alert mode"},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.payload.Kind())
		assert.Equal(t, c.action, c.payload.Action())
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Take_Snapshot ")
	require.NoError(t, err)
	assert.Equal(t, KindTakeSnapshot, k)

	_, err = ParseKind("reboot")
	assert.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	d, err := ParseDetector("LINE")
	require.NoError(t, err)
	assert.Equal(t, DetectorLineCrossing, d)

	m, err := ParseIrcutMode("auto")
	require.NoError(t, err)
	assert.Equal(t, IrcutAuto, m)

	_, err = ParseStreamService("twitch")
	assert.Error(t, err)
}
