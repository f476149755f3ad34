package uart

import (
	"bytes"
	"io"
	"sync"
)

// TestTransport is a test helper that simulates a blocking serial line using
// channels. Reads block until data is queued, like a real port would, and an
// empty chunk simulates the line going quiet for longer than the read
// timeout.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	rest     []byte
	written  bytes.Buffer
	closed   bool
	// MaxWrite limits how many bytes a single Write accepts, to exercise
	// short writes. Zero accepts everything.
	MaxWrite int
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 64),
	}
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	n = len(p)
	if t.MaxWrite > 0 && n > t.MaxWrite {
		n = t.MaxWrite
	}
	t.written.Write(p[:n])
	return n, nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	if len(t.rest) == 0 {
		data, ok := <-t.readChan
		if !ok {
			return 0, io.EOF
		}
		if len(data) == 0 {
			return 0, nil
		}
		t.rest = data
	}
	n = copy(p, t.rest)
	t.rest = t.rest[n:]
	return n, nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates the terminal typing on the line.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// SendTimeout makes the next Read return no data, as a serial port does when
// its read timeout expires.
func (t *TestTransport) SendTimeout() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- nil
	}
}

// Written returns everything written to the transport so far.
func (t *TestTransport) Written() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written.String()
}
