package resolver

import (
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
)

// Selector picks cameras out of a command. An empty Id leaves the camera
// unspecified.
type Selector struct {
	Id string
}

func (s Selector) Unspecified() bool {
	return s.Id == ""
}

type Resolver struct {
	registry *registry.Registry
}

func New(r *registry.Registry) *Resolver {
	return &Resolver{registry: r}
}

// Resolve maps the selector onto registered cameras able to handle kind.
func (r *Resolver) Resolve(selector Selector, kind events.Kind) ([]*registry.CameraHandle, error) {
	var handle *registry.CameraHandle
	if selector.Unspecified() {
		all := r.registry.All()
		if len(all) != 1 {
			return nil, custerror.FormatAmbiguous("%d cameras registered, a camera must be specified", len(all))
		}
		handle = all[0]
	} else {
		h, err := r.registry.Get(selector.Id)
		if err != nil {
			return nil, err
		}
		handle = h
	}

	if kind != "" && !handle.Supports(kind) {
		return nil, custerror.FormatUnsupported("camera %s does not support %s", handle.Id, kind.Description())
	}
	return []*registry.CameraHandle{handle}, nil
}

func (r *Resolver) ResolveOne(selector Selector, kind events.Kind) (*registry.CameraHandle, error) {
	handles, err := r.Resolve(selector, kind)
	if err != nil {
		return nil, err
	}
	return handles[0], nil
}
