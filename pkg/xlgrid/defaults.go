package xlgrid

import (
	"sync"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/watermark"
)

var (
	defaultMu        sync.RWMutex
	defaultWatermark []byte
)

// SetDefaultWatermark sets the watermark new workbooks start with. Nil
// clears it.
func SetDefaultWatermark(image []byte) error {
	if image != nil {
		if err := validateWatermark(image); err != nil {
			return err
		}
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultWatermark = image
	return nil
}

// DefaultWatermark returns the package default watermark.
func DefaultWatermark() []byte {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultWatermark
}

func validateWatermark(image []byte) error {
	if err := watermark.ValidateImage(image); err != nil {
		return NewConfigurationError("watermark", err)
	}
	return nil
}
