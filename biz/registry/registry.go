package registry

import (
	"sync"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
)

type Registry struct {
	mu      sync.RWMutex
	cameras map[string]*CameraHandle
	order   []string
}

func New() *Registry {
	return &Registry{
		cameras: make(map[string]*CameraHandle),
	}
}

func (r *Registry) Register(handle *CameraHandle) error {
	if handle == nil || handle.Id == "" {
		return custerror.FormatInvalidArgument("registry.Register: camera id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.cameras[handle.Id]; found {
		return custerror.FormatAlreadyExists("registry.Register: camera %s already registered", handle.Id)
	}
	r.cameras[handle.Id] = handle
	r.order = append(r.order, handle.Id)
	return nil
}

func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.cameras[id]; !found {
		return false
	}
	delete(r.cameras, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Get(id string) (*CameraHandle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handle, found := r.cameras[id]
	if !found {
		return nil, custerror.FormatNotFound("camera %s is not registered", id)
	}
	return handle, nil
}

// All returns the registered cameras in registration order.
func (r *Registry) All() []*CameraHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]*CameraHandle, 0, len(r.order))
	for _, id := range r.order {
		handles = append(handles, r.cameras[id])
	}
	return handles
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cameras)
}
