package service

import (
	"sync"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
)

var once sync.Once

var (
	snapshotService  *SnapshotService
	videoGifService  *VideoGifService
	detectionService *DetectionService
	ircutService     *IrcutService
	streamService    *StreamService
	alarmService     *AlarmService
)

func Init(resizer Resizer, clipDuration time.Duration) {
	once.Do(func() {
		snapshotService = NewSnapshotService(resizer)
		videoGifService = NewVideoGifService(clipDuration)
		detectionService = NewDetectionService()
		ircutService = NewIrcutService()
		streamService = NewStreamService()
		alarmService = NewAlarmService()
	})
}

// RegisterAll binds one service per event kind. Init must run first.
func RegisterAll(d *dispatcher.Dispatcher) {
	d.Register(events.KindTakeSnapshot, snapshotService)
	d.Register(events.KindRecordVideoGif, videoGifService)
	d.Register(events.KindConfigureDetection, detectionService)
	d.Register(events.KindConfigureIrcutFilter, ircutService)
	d.Register(events.KindConfigureStream, streamService)
	d.Register(events.KindConfigureAlarm, alarmService)
}

