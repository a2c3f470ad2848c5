package rest

import "time"

type ListCamerasResponse struct {
	Cameras []CameraInfo `json:"cameras"`
}

type CameraInfo struct {
	Id             string     `json:"id"`
	Description    string     `json:"description"`
	Capabilities   []string   `json:"capabilities"`
	Online         bool       `json:"online"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`
	SnapshotsTaken int64      `json:"snapshotsTaken"`
}
