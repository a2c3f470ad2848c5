package camera

import (
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"go.uber.org/zap"
)

// ControlFactory builds the camera collaborator for one configured camera.
type ControlFactory func(cfg configs.CameraConfigs) registry.Control

func ParseCapabilities(names []string) ([]events.Kind, error) {
	kinds := make([]events.Kind, 0, len(names))
	for _, n := range names {
		k, err := events.ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// BuildRegistry registers every configured camera in configuration order.
func BuildRegistry(cameras []configs.CameraConfigs, factory ControlFactory) (*registry.Registry, error) {
	reg := registry.New()
	for _, cfg := range cameras {
		caps, err := ParseCapabilities(cfg.Capabilities)
		if err != nil {
			return nil, custerror.FormatInvalidArgument("camera %s: %s", cfg.Id, err)
		}
		description := cfg.Description
		if description == "" {
			description = cfg.Id
		}
		handle := registry.NewCameraHandle(cfg.Id, description, factory(cfg), caps...)
		if err := reg.Register(handle); err != nil {
			return nil, err
		}
		logger.SInfo("camera registered",
			zap.String("id", cfg.Id),
			zap.Int("capabilities", len(handle.Capabilities())))
	}
	return reg, nil
}
