package capture

import (
	"context"

	"github.com/bosley/serclient/audio"
)

// Recorder opens live capture sessions. Start delivers chunks to sink in
// arrival order until the returned Stopper's Stop returns; sink is never
// called after that.
type Recorder interface {
	Start(ctx context.Context, sink func(chunk []byte)) (Stopper, error)

	// Container seals the concatenated chunks of one session.
	Container() audio.Container
}

type Stopper interface {
	Stop() error
}
