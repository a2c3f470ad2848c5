package configs

import "time"

const ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

const (
	defaultDispatchTimeout = 30 * time.Second
	defaultReplyTimeout    = 10 * time.Second
	defaultPoolSize        = 128
	defaultIntakePoolSize  = 32
	defaultHealthInterval  = 60 * time.Second
	defaultVideoDuration   = 5 * time.Second
	defaultHttpTimeout     = 5 * time.Second
	defaultSnapshotChannel = "101"
	defaultVideoChannel    = "1"
)
