// Package chanutil provides a small growable-queue channel adapter,
// modeled on the teacher's fan-in StreamMerger: a goroutine drains an
// input channel into a growable in-memory queue and republishes it on an
// output channel, so the output side never blocks a sender the way a
// fixed-capacity buffered channel would. Used for the reasoner's output
// and log channels, which §4.9 specifies as unbounded.
package chanutil

// Unbounded returns a send side and a receive side backed by an
// internally growable queue: sends on In never block, values appear on
// Out in FIFO order. Close In to drain and close Out once everything
// queued has been delivered.
func Unbounded[T any]() (in chan<- T, out <-chan T) {
	inCh := make(chan T)
	outCh := make(chan T)
	go pump(inCh, outCh)
	return inCh, outCh
}

func pump[T any](in <-chan T, out chan<- T) {
	defer close(out)
	var queue []T
	for {
		if in == nil && len(queue) == 0 {
			return
		}
		if len(queue) == 0 {
			v, ok := <-in
			if !ok {
				return
			}
			queue = append(queue, v)
			continue
		}
		select {
		case v, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			queue = append(queue, v)
		case out <- queue[0]:
			queue = queue[1:]
		}
	}
}
