package display

import (
	"image"

	"go.uber.org/zap"
)

// Console is a Driver for machines without the hat. It logs each
// operation so the rest of the pipeline can run on a dev box.
type Console struct {
	logger *zap.Logger
}

// NewConsole returns a Console logging through logger.
func NewConsole(logger *zap.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) PushImage(id ID, frame *image.RGBA) error {
	b := frame.Bounds()
	c.logger.Debug("Frame pushed",
		zap.String("display", string(id)),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return nil
}

func (c *Console) SetBacklight(id ID, percent int) error {
	c.logger.Debug("Backlight set",
		zap.String("display", string(id)),
		zap.Int("percent", percent))
	return nil
}

func (c *Console) Close() error {
	c.logger.Debug("Console driver closed")
	return nil
}
