package core

import (
	"github.com/kandttextiles/ktportal/pkg/device"
	"github.com/kandttextiles/ktportal/pkg/util"
)

// NewCoreForTesting returns a core over an in-memory registry
func NewCoreForTesting() (*Core, error) {
	r, err := device.NewRegistry(device.NewMemoryStore())
	if err != nil {
		return nil, err
	}

	logger, err := util.DefaultLogger(false, "")
	if err != nil {
		return nil, err
	}

	if err = r.SetLogger(logger); err != nil {
		return nil, err
	}

	c, err := New(r)
	if err != nil {
		return nil, err
	}

	if err = c.SetLogger(logger); err != nil {
		return nil, err
	}

	return c, nil
}
