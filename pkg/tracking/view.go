package tracking

import (
	"context"
	"sync"

	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/pkg/errors"
)

// State of a device detail view
type State uint8

const (
	SIdle State = iota
	SLoading
	SSuccess
	SEmpty
	SError
)

func (s State) String() string {
	switch s {
	case SIdle:
		return "idle"
	case SLoading:
		return "loading"
	case SSuccess:
		return "success"
	case SEmpty:
		return "empty"
	case SError:
		return "error"
	default:
		return "unknown"
	}
}

// View follows the tracking data of a single device through its
// loading states; an empty feed is distinct from a failed one
type View struct {
	state State
	page  Page
	err   error
	sync.RWMutex
}

// NewView returns an idle view
func NewView() *View {
	return &View{state: SIdle}
}

// Load fetches a page and settles the view into success, empty or error
func (v *View) Load(ctx context.Context, f Fetcher, d deeplink.Descriptor, limit, offset int) State {
	v.Lock()
	v.state = SLoading
	v.page = Page{}
	v.err = nil
	v.Unlock()

	page, err := f.Fetch(ctx, d, limit, offset)

	v.Lock()
	defer v.Unlock()

	switch {
	case err == nil && len(page.Tracking) > 0:
		v.state, v.page = SSuccess, page
	case err == nil, errors.Cause(err) == ErrNotFound:
		v.state = SEmpty
	default:
		v.state, v.err = SError, err
	}

	return v.state
}

// State returns the current state
func (v *View) State() State {
	v.RLock()
	defer v.RUnlock()

	return v.state
}

// Page returns the loaded page, empty unless the state is success
func (v *View) Page() Page {
	v.RLock()
	defer v.RUnlock()

	return v.page
}

// Err returns the failure of the last load, if any
func (v *View) Err() error {
	v.RLock()
	defer v.RUnlock()

	return v.err
}
