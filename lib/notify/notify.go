// Package notify abstracts the push-message sinks new acts are
// announced through.
package notify

import "context"

// Notifier delivers one formatted message. implementations report
// provider-side rejections as errors, there is no richer delivery
// acknowledgment.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
