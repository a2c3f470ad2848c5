package hikvision

import "time"

type HikvisionClientOptioner func(o *hikvisionOptions)

func WithTimeout(d time.Duration) HikvisionClientOptioner {
	return func(o *hikvisionOptions) {
		o.Timeout = d
	}
}

type hikvisionOptions struct {
	Timeout time.Duration `json:"timeout"`
}
